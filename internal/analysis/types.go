// Package analysis adapts the raw capability provider outputs into the wire
// data model and aggregates per-frame results across modalities.
package analysis

import (
	"github.com/ayusman/etherial/internal/detector"
	"github.com/ayusman/etherial/internal/gesture"
)

// EmotionResult is the dominant facial emotion with per-label confidences.
type EmotionResult struct {
	Emotion     string             `json:"emotion"`
	Confidence  float64            `json:"confidence"`
	AllEmotions map[string]float64 `json:"all_emotions"`
}

// NeutralEmotion is the result used when the emotion capability is
// unavailable or fails.
func NeutralEmotion() EmotionResult {
	return EmotionResult{
		Emotion:     "neutral",
		Confidence:  0.0,
		AllEmotions: map[string]float64{},
	}
}

// PoseResult holds body pose landmarks plus named keypoints. Each keypoint is
// present only when the landmark sequence covers its index.
type PoseResult struct {
	Detected      bool                `json:"detected"`
	Landmarks     []detector.Landmark `json:"landmarks"`
	Nose          *detector.Point2D   `json:"nose,omitempty"`
	LeftHand      *detector.Point2D   `json:"left_hand,omitempty"`
	RightHand     *detector.Point2D   `json:"right_hand,omitempty"`
	LeftShoulder  *detector.Point2D   `json:"left_shoulder,omitempty"`
	RightShoulder *detector.Point2D   `json:"right_shoulder,omitempty"`
	LeftHip       *detector.Point2D   `json:"left_hip,omitempty"`
	RightHip      *detector.Point2D   `json:"right_hip,omitempty"`
}

// EmptyPose is the result used when no pose is detected or the capability
// fails.
func EmptyPose() PoseResult {
	return PoseResult{Detected: false, Landmarks: []detector.Landmark{}}
}

// FaceFeatures are boolean expressions and keypoints derived from fixed face
// mesh landmark indices.
type FaceFeatures struct {
	MouthOpen      bool             `json:"mouth_open"`
	LeftEyeOpen    bool             `json:"left_eye_open"`
	RightEyeOpen   bool             `json:"right_eye_open"`
	EyebrowsRaised bool             `json:"eyebrows_raised"`
	FaceCenter     detector.Point2D `json:"face_center"`
	NoseTip        detector.Point2D `json:"nose_tip"`
	Chin           detector.Point2D `json:"chin"`
	LeftEye        detector.Point2D `json:"left_eye"`
	RightEye       detector.Point2D `json:"right_eye"`
	MouthCenter    detector.Point2D `json:"mouth_center"`
}

// FaceMeshResult holds the truncated face mesh landmark set plus derived
// features.
type FaceMeshResult struct {
	Detected      bool                `json:"detected"`
	LandmarkCount int                 `json:"landmark_count,omitempty"`
	Landmarks     []detector.Landmark `json:"landmarks"`
	Features      *FaceFeatures       `json:"features,omitempty"`
}

// EmptyFaceMesh is the result used when no face is detected or the capability
// fails.
func EmptyFaceMesh() FaceMeshResult {
	return FaceMeshResult{Detected: false, Landmarks: []detector.Landmark{}}
}

// HandResult is one analyzed hand: landmarks, classified gesture and named
// keypoints.
type HandResult struct {
	Handedness    string              `json:"handedness"`
	Landmarks     []detector.Landmark `json:"landmarks"`
	Gesture       gesture.Label       `json:"gesture"`
	PalmCenter    detector.Point2D    `json:"palm_center"`
	IndexTip      detector.Point2D    `json:"index_tip"`
	ThumbTip      detector.Point2D    `json:"thumb_tip"`
	PinchDistance float64             `json:"pinch_distance"`
}

// HandsResult aggregates all hands detected in one frame.
type HandsResult struct {
	Detected  bool         `json:"detected"`
	HandCount int          `json:"hand_count"`
	Hands     []HandResult `json:"hands"`
}

// EmptyHands is the result used when no hands are detected or the capability
// fails.
func EmptyHands() HandsResult {
	return HandsResult{Detected: false, HandCount: 0, Hands: []HandResult{}}
}

// Flags selects which modalities to run for a frame.
type Flags struct {
	Emotion  bool
	Pose     bool
	FaceMesh bool
	Hands    bool
}

// Result aggregates one frame's analysis. Only the requested modalities are
// populated.
type Result struct {
	Emotion  *EmotionResult  `json:"emotion,omitempty"`
	Pose     *PoseResult     `json:"pose,omitempty"`
	FaceMesh *FaceMeshResult `json:"face_mesh,omitempty"`
	Hands    *HandsResult    `json:"hands,omitempty"`
}

// Availability reports which capability providers are configured.
type Availability struct {
	Emotion  bool `json:"emotion"`
	Pose     bool `json:"pose"`
	FaceMesh bool `json:"face_mesh"`
	Hands    bool `json:"hands"`
	Beats    bool `json:"beats"`
}
