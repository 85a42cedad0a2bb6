package analysis

import (
	"math"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"github.com/ayusman/etherial/internal/detector"
	"github.com/ayusman/etherial/internal/gesture"
)

// Feature thresholds in normalized image coordinates, tuned against the
// MediaPipe face mesh output.
const (
	mouthOpenGap  = 0.03
	eyeOpenGap    = 0.015
	browRaisedY   = 0.25
	payloadPoints = 50 // landmarks forwarded to clients per face
)

// Providers bundles the external capability providers the analyzer depends
// on. A nil provider marks that modality unavailable; the analyzer then
// produces its neutral result without treating it as an error.
type Providers struct {
	Pose     detector.PoseDetector
	FaceMesh detector.FaceMeshDetector
	Hands    detector.HandDetector
	Emotion  detector.EmotionClassifier
	Beats    detector.BeatTracker
}

// Analyzer runs the per-modality facades over a decoded frame. Each facade
// isolates its capability's failures: an unavailable provider, a provider
// error or a malformed provider result all degrade to that modality's
// neutral result, never to a pipeline error.
type Analyzer struct {
	providers Providers
	log       zerolog.Logger
}

// NewAnalyzer creates an Analyzer over the given providers.
func NewAnalyzer(providers Providers, log zerolog.Logger) *Analyzer {
	return &Analyzer{providers: providers, log: log}
}

// Availability reports which capabilities have a configured provider.
func (a *Analyzer) Availability() Availability {
	return Availability{
		Emotion:  a.providers.Emotion != nil,
		Pose:     a.providers.Pose != nil,
		FaceMesh: a.providers.FaceMesh != nil,
		Hands:    a.providers.Hands != nil,
		Beats:    a.providers.Beats != nil,
	}
}

// AnalyzeFrame runs the requested modalities over one decoded frame and
// aggregates their results. Modalities are independent: one failing facade
// never aborts the others.
func (a *Analyzer) AnalyzeFrame(frame *gocv.Mat, flags Flags) Result {
	var result Result

	if flags.Emotion {
		r := a.Emotion(frame)
		result.Emotion = &r
	}
	if flags.Pose {
		r := a.Pose(frame)
		result.Pose = &r
	}
	if flags.FaceMesh {
		r := a.FaceMesh(frame)
		result.FaceMesh = &r
	}
	if flags.Hands {
		r := a.Hands(frame)
		result.Hands = &r
	}

	return result
}

// Emotion classifies the dominant facial emotion in the frame.
func (a *Analyzer) Emotion(frame *gocv.Mat) EmotionResult {
	if a.providers.Emotion == nil {
		return NeutralEmotion()
	}

	emotions, err := a.providers.Emotion.ClassifyEmotion(frame)
	if err != nil {
		a.log.Error().Err(err).Msg("emotion detection failed")
		return NeutralEmotion()
	}
	if len(emotions) == 0 {
		return NeutralEmotion()
	}

	dominant := ""
	best := math.Inf(-1)
	for label, confidence := range emotions {
		if confidence > best || (confidence == best && label < dominant) {
			dominant = label
			best = confidence
		}
	}

	return EmotionResult{
		Emotion:     dominant,
		Confidence:  best,
		AllEmotions: emotions,
	}
}

// Pose extracts body pose landmarks and named keypoints from the frame.
func (a *Analyzer) Pose(frame *gocv.Mat) PoseResult {
	if a.providers.Pose == nil {
		return EmptyPose()
	}

	landmarks, err := a.providers.Pose.DetectPose(frame)
	if err != nil {
		a.log.Error().Err(err).Msg("pose detection failed")
		return EmptyPose()
	}
	if len(landmarks) == 0 {
		return EmptyPose()
	}

	return PoseResult{
		Detected:      true,
		Landmarks:     landmarks,
		Nose:          keypoint(landmarks, detector.PoseNose),
		LeftHand:      keypoint(landmarks, detector.PoseLeftWrist),
		RightHand:     keypoint(landmarks, detector.PoseRightWrist),
		LeftShoulder:  keypoint(landmarks, detector.PoseLeftShoulder),
		RightShoulder: keypoint(landmarks, detector.PoseRightShoulder),
		LeftHip:       keypoint(landmarks, detector.PoseLeftHip),
		RightHip:      keypoint(landmarks, detector.PoseRightHip),
	}
}

// keypoint projects the landmark at idx to 2D, or nil when the sequence does
// not cover idx.
func keypoint(landmarks []detector.Landmark, idx int) *detector.Point2D {
	if idx >= len(landmarks) {
		return nil
	}
	p := landmarks[idx].Point2D()
	return &p
}

// FaceMesh extracts face mesh landmarks and derives expression features from
// fixed landmark indices.
func (a *Analyzer) FaceMesh(frame *gocv.Mat) FaceMeshResult {
	if a.providers.FaceMesh == nil {
		return EmptyFaceMesh()
	}

	landmarks, err := a.providers.FaceMesh.DetectFaceMesh(frame)
	if err != nil {
		a.log.Error().Err(err).Msg("face mesh detection failed")
		return EmptyFaceMesh()
	}
	if len(landmarks) == 0 {
		return EmptyFaceMesh()
	}
	// Feature extraction indexes up to the right eye upper lid; a shorter
	// sequence is a malformed detector result.
	if len(landmarks) <= detector.FaceRightEyeUpper {
		a.log.Error().Int("landmarks", len(landmarks)).Msg("face mesh result truncated")
		return EmptyFaceMesh()
	}

	features := FaceFeatures{
		MouthOpen:      math.Abs(landmarks[detector.FaceUpperLip].Y-landmarks[detector.FaceLowerLip].Y) > mouthOpenGap,
		LeftEyeOpen:    math.Abs(landmarks[detector.FaceLeftEyeUpper].Y-landmarks[detector.FaceLeftEyeLower].Y) > eyeOpenGap,
		RightEyeOpen:   math.Abs(landmarks[detector.FaceRightEyeUpper].Y-landmarks[detector.FaceRightEyeLower].Y) > eyeOpenGap,
		EyebrowsRaised: landmarks[detector.FaceLeftBrow].Y < browRaisedY || landmarks[detector.FaceRightBrow].Y < browRaisedY,
		FaceCenter:     landmarks[detector.FaceCenter].Point2D(),
		NoseTip:        landmarks[detector.FaceNoseTip].Point2D(),
		Chin:           landmarks[detector.FaceChin].Point2D(),
		LeftEye:        landmarks[detector.FaceLeftEyeOuter].Point2D(),
		RightEye:       landmarks[detector.FaceRightEyeOuter].Point2D(),
		MouthCenter: detector.Point2D{
			X: (landmarks[detector.FaceUpperLip].X + landmarks[detector.FaceLowerLip].X) / 2,
			Y: (landmarks[detector.FaceUpperLip].Y + landmarks[detector.FaceLowerLip].Y) / 2,
		},
	}

	payload := landmarks
	if len(payload) > payloadPoints {
		payload = payload[:payloadPoints]
	}

	return FaceMeshResult{
		Detected:      true,
		LandmarkCount: len(landmarks),
		Landmarks:     payload,
		Features:      &features,
	}
}

// Hands extracts hand landmark sets, classifies each hand's gesture and
// derives named keypoints.
func (a *Analyzer) Hands(frame *gocv.Mat) HandsResult {
	if a.providers.Hands == nil {
		return EmptyHands()
	}

	detected, err := a.providers.Hands.DetectHands(frame)
	if err != nil {
		a.log.Error().Err(err).Msg("hand detection failed")
		return EmptyHands()
	}

	hands := make([]HandResult, 0, len(detected))
	for _, hand := range detected {
		handedness := hand.Handedness
		if handedness == "" {
			handedness = "Unknown"
		}

		result := HandResult{
			Handedness: handedness,
			Landmarks:  hand.Landmarks,
			Gesture:    gesture.Classify(hand.Landmarks),
		}
		if len(hand.Landmarks) >= detector.NumLandmarks {
			result.PalmCenter = hand.Landmarks[detector.Wrist].Point2D()
			result.IndexTip = hand.Landmarks[detector.IndexTip].Point2D()
			result.ThumbTip = hand.Landmarks[detector.ThumbTip].Point2D()
			result.PinchDistance = detector.Distance3D(
				hand.Landmarks[detector.ThumbTip],
				hand.Landmarks[detector.IndexTip],
			)
		}
		hands = append(hands, result)
	}

	return HandsResult{
		Detected:  len(hands) > 0,
		HandCount: len(hands),
		Hands:     hands,
	}
}

// TrackBeats analyzes an audio file for tempo and beat positions. Unlike the
// frame facades this surfaces errors: the caller owns an explicit request for
// exactly this capability.
func (a *Analyzer) TrackBeats(path string) (detector.BeatAnalysis, error) {
	if a.providers.Beats == nil {
		return detector.BeatAnalysis{}, ErrBeatsUnavailable
	}

	result, err := a.providers.Beats.TrackBeats(path)
	if err != nil {
		return detector.BeatAnalysis{}, err
	}

	if len(result.OnsetStrength) > 100 {
		result.OnsetStrength = result.OnsetStrength[:100]
	}
	return result, nil
}
