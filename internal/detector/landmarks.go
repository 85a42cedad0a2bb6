// Package detector provides the landmark data model and the capability
// provider interfaces for pose, face mesh, hand, emotion and beat analysis.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Pose landmark indices following the MediaPipe pose convention (33 points).
// Only the indices used for named keypoint extraction are listed.
const (
	PoseNose          = 0
	PoseLeftShoulder  = 11
	PoseRightShoulder = 12
	PoseLeftWrist     = 15
	PoseRightWrist    = 16
	PoseLeftHip       = 23
	PoseRightHip      = 24
	PoseNumLandmarks  = 33
)

// Face mesh landmark indices following the MediaPipe face mesh convention
// (468 points). Only the indices used for feature extraction are named.
const (
	FaceCenter        = 1
	FaceNoseTip       = 4
	FaceUpperLip      = 13
	FaceLowerLip      = 14
	FaceLeftEyeOuter  = 33
	FaceLeftBrow      = 70
	FaceLeftEyeLower  = 145
	FaceChin          = 152
	FaceLeftEyeUpper  = 159
	FaceRightEyeOuter = 263
	FaceRightBrow     = 300
	FaceRightEyeLower = 374
	FaceRightEyeUpper = 386
	FaceNumLandmarks  = 468
)

// Landmark is one detected anatomical point. Coordinates are normalized to
// [0,1] relative to the frame, z is relative depth. Visibility is only
// populated by the pose model.
type Landmark struct {
	ID         int      `json:"id"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Z          float64  `json:"z"`
	Visibility *float64 `json:"visibility,omitempty"`
}

// Point2D is a named 2D keypoint extracted from a landmark set.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point2D returns the 2D projection of the landmark.
func (l Landmark) Point2D() Point2D {
	return Point2D{X: l.X, Y: l.Y}
}

// Distance3D calculates the Euclidean distance between two landmarks over
// (x, y, z). A landmark without depth has z = 0.
func Distance3D(a, b Landmark) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
