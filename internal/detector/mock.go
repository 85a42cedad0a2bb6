package detector

import "gocv.io/x/gocv"

// MockProvider is a test implementation of every capability interface.
// It allows tests to control detection results per modality.
type MockProvider struct {
	pose        []Landmark
	poseErr     error
	faceMesh    []Landmark
	faceMeshErr error
	hands       []Hand
	handsErr    error
	emotions    map[string]float64
	emotionsErr error
	beats       BeatAnalysis
	beatsErr    error
}

// NewMockProvider creates a new MockProvider instance.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// SetPose sets the landmarks returned by DetectPose.
func (m *MockProvider) SetPose(landmarks []Landmark) { m.pose = landmarks }

// SetPoseError sets the error returned by DetectPose.
func (m *MockProvider) SetPoseError(err error) { m.poseErr = err }

// SetFaceMesh sets the landmarks returned by DetectFaceMesh.
func (m *MockProvider) SetFaceMesh(landmarks []Landmark) { m.faceMesh = landmarks }

// SetFaceMeshError sets the error returned by DetectFaceMesh.
func (m *MockProvider) SetFaceMeshError(err error) { m.faceMeshErr = err }

// SetHands sets the hands returned by DetectHands.
func (m *MockProvider) SetHands(hands []Hand) { m.hands = hands }

// SetHandsError sets the error returned by DetectHands.
func (m *MockProvider) SetHandsError(err error) { m.handsErr = err }

// SetEmotions sets the confidence map returned by ClassifyEmotion.
func (m *MockProvider) SetEmotions(emotions map[string]float64) { m.emotions = emotions }

// SetEmotionsError sets the error returned by ClassifyEmotion.
func (m *MockProvider) SetEmotionsError(err error) { m.emotionsErr = err }

// SetBeats sets the analysis returned by TrackBeats.
func (m *MockProvider) SetBeats(beats BeatAnalysis) { m.beats = beats }

// SetBeatsError sets the error returned by TrackBeats.
func (m *MockProvider) SetBeatsError(err error) { m.beatsErr = err }

// DetectPose returns the pre-configured pose landmarks or error.
func (m *MockProvider) DetectPose(frame *gocv.Mat) ([]Landmark, error) {
	if m.poseErr != nil {
		return nil, m.poseErr
	}
	return m.pose, nil
}

// DetectFaceMesh returns the pre-configured face landmarks or error.
func (m *MockProvider) DetectFaceMesh(frame *gocv.Mat) ([]Landmark, error) {
	if m.faceMeshErr != nil {
		return nil, m.faceMeshErr
	}
	return m.faceMesh, nil
}

// DetectHands returns the pre-configured hands or error.
func (m *MockProvider) DetectHands(frame *gocv.Mat) ([]Hand, error) {
	if m.handsErr != nil {
		return nil, m.handsErr
	}
	return m.hands, nil
}

// ClassifyEmotion returns the pre-configured emotion scores or error.
func (m *MockProvider) ClassifyEmotion(frame *gocv.Mat) (map[string]float64, error) {
	if m.emotionsErr != nil {
		return nil, m.emotionsErr
	}
	return m.emotions, nil
}

// TrackBeats returns the pre-configured beat analysis or error.
func (m *MockProvider) TrackBeats(path string) (BeatAnalysis, error) {
	if m.beatsErr != nil {
		return BeatAnalysis{}, m.beatsErr
	}
	return m.beats, nil
}

// numberLandmarks assigns sequential IDs to a landmark slice.
func numberLandmarks(points []Landmark) []Landmark {
	for i := range points {
		points[i].ID = i
	}
	return points
}

// ThumbsUpLandmarks returns a preset 21-landmark set representing a thumbs up
// gesture: thumb extended sideways, all other fingers curled below their
// knuckles.
func ThumbsUpLandmarks() []Landmark {
	return numberLandmarks([]Landmark{
		// Wrist
		{X: 0.50, Y: 0.80},
		// Thumb extended laterally and upward
		{X: 0.55, Y: 0.75},
		{X: 0.58, Y: 0.65},
		{X: 0.64, Y: 0.50},
		{X: 0.70, Y: 0.35},
		// Index finger curled (tip below MCP)
		{X: 0.55, Y: 0.70, Z: -0.02},
		{X: 0.55, Y: 0.68, Z: -0.05},
		{X: 0.52, Y: 0.70, Z: -0.04},
		{X: 0.50, Y: 0.72, Z: -0.02},
		// Middle finger curled
		{X: 0.50, Y: 0.68, Z: -0.02},
		{X: 0.50, Y: 0.66, Z: -0.05},
		{X: 0.47, Y: 0.68, Z: -0.04},
		{X: 0.45, Y: 0.70, Z: -0.02},
		// Ring finger curled
		{X: 0.45, Y: 0.70, Z: -0.02},
		{X: 0.45, Y: 0.68, Z: -0.05},
		{X: 0.42, Y: 0.70, Z: -0.04},
		{X: 0.40, Y: 0.72, Z: -0.02},
		// Pinky finger curled
		{X: 0.40, Y: 0.72, Z: -0.02},
		{X: 0.40, Y: 0.70, Z: -0.05},
		{X: 0.37, Y: 0.72, Z: -0.04},
		{X: 0.35, Y: 0.74, Z: -0.02},
	})
}

// OpenPalmLandmarks returns a preset 21-landmark set representing an open
// palm gesture with all five fingers extended.
func OpenPalmLandmarks() []Landmark {
	return numberLandmarks([]Landmark{
		// Wrist
		{X: 0.50, Y: 0.80},
		// Thumb extended to the side
		{X: 0.55, Y: 0.75, Z: 0.02},
		{X: 0.62, Y: 0.70, Z: 0.03},
		{X: 0.68, Y: 0.65, Z: 0.03},
		{X: 0.73, Y: 0.60, Z: 0.03},
		// Index finger extended upward
		{X: 0.55, Y: 0.68},
		{X: 0.57, Y: 0.55},
		{X: 0.58, Y: 0.45},
		{X: 0.58, Y: 0.35},
		// Middle finger extended upward
		{X: 0.50, Y: 0.66},
		{X: 0.50, Y: 0.52},
		{X: 0.50, Y: 0.40},
		{X: 0.50, Y: 0.28},
		// Ring finger extended upward
		{X: 0.45, Y: 0.68},
		{X: 0.43, Y: 0.55},
		{X: 0.42, Y: 0.45},
		{X: 0.42, Y: 0.35},
		// Pinky finger extended upward
		{X: 0.40, Y: 0.70},
		{X: 0.37, Y: 0.60},
		{X: 0.35, Y: 0.50},
		{X: 0.34, Y: 0.42},
	})
}

// FistLandmarks returns a preset 21-landmark set representing a fist: every
// finger curled and the thumb tucked against its knuckle.
func FistLandmarks() []Landmark {
	points := ThumbsUpLandmarks()
	// Tuck the thumb in so its lateral spread stays within the extension
	// threshold.
	points[ThumbIP] = Landmark{ID: ThumbIP, X: 0.59, Y: 0.60}
	points[ThumbTip] = Landmark{ID: ThumbTip, X: 0.60, Y: 0.58}
	return points
}

// PoseStandingLandmarks returns a full 33-landmark pose with every point
// visible, laid out as an upright standing figure.
func PoseStandingLandmarks() []Landmark {
	vis := 0.99
	points := make([]Landmark, PoseNumLandmarks)
	for i := range points {
		points[i] = Landmark{
			ID:         i,
			X:          0.5,
			Y:          0.1 + float64(i)*0.025,
			Z:          -0.05,
			Visibility: &vis,
		}
	}
	points[PoseLeftShoulder].X = 0.42
	points[PoseRightShoulder].X = 0.58
	points[PoseLeftWrist].X = 0.35
	points[PoseRightWrist].X = 0.65
	points[PoseLeftHip].X = 0.45
	points[PoseRightHip].X = 0.55
	return points
}
