package detector

import "gocv.io/x/gocv"

// Hand is one detected hand: its landmark sequence plus the handedness label
// supplied by the detector's classification channel ("Left", "Right" or
// "Unknown" when absent).
type Hand struct {
	Landmarks  []Landmark
	Handedness string
}

// BeatAnalysis is the result of tempo tracking on an audio recording.
type BeatAnalysis struct {
	Tempo         float64   `json:"tempo"`
	Beats         []float64 `json:"beats"`
	Duration      float64   `json:"duration"`
	OnsetStrength []float64 `json:"onset_strength"`
}

// PoseDetector extracts body pose landmarks from a video frame.
// A nil slice means no pose was detected.
type PoseDetector interface {
	DetectPose(frame *gocv.Mat) ([]Landmark, error)
}

// FaceMeshDetector extracts face mesh landmarks from a video frame.
// A nil slice means no face was detected.
type FaceMeshDetector interface {
	DetectFaceMesh(frame *gocv.Mat) ([]Landmark, error)
}

// HandDetector extracts hand landmark sets from a video frame.
// At most two hands are returned; an empty slice means no hands.
type HandDetector interface {
	DetectHands(frame *gocv.Mat) ([]Hand, error)
}

// EmotionClassifier scores facial emotions in a video frame. The returned map
// holds one confidence per emotion label; an empty map means no face found.
type EmotionClassifier interface {
	ClassifyEmotion(frame *gocv.Mat) (map[string]float64, error)
}

// BeatTracker analyzes an audio file for tempo and beat positions.
type BeatTracker interface {
	TrackBeats(path string) (BeatAnalysis, error)
}

// Config holds configuration options for the detection sidecar.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// PythonBin overrides the python interpreter used for the sidecar.
	PythonBin string

	// ScriptPath overrides the location of the sidecar service script.
	ScriptPath string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}
