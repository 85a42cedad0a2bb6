// Package gesture classifies a 21-point hand landmark set into a fixed
// gesture vocabulary using a deterministic rule table.
package gesture

import (
	"github.com/ayusman/etherial/internal/detector"
)

// Label identifies a recognized hand gesture.
type Label string

// The fixed gesture vocabulary.
const (
	Fist     Label = "FIST"
	Open     Label = "OPEN"
	Point    Label = "POINT"
	Victory  Label = "VICTORY"
	ThumbsUp Label = "THUMBS_UP"
	Three    Label = "THREE"
	Pinky    Label = "PINKY"
	Rock     Label = "ROCK"
	Pinch    Label = "PINCH"
	Unknown  Label = "UNKNOWN"
)

// Labels returns the supported gesture vocabulary, excluding Unknown.
func Labels() []Label {
	return []Label{Fist, Open, Point, Victory, ThumbsUp, Three, Pinky, Rock, Pinch}
}

// Empirical thresholds in normalized image coordinates. Tuned against the
// MediaPipe hand model output; changing them changes the classification of
// recorded sessions.
const (
	// thumbSpread is the minimum lateral distance between thumb tip and
	// thumb MCP for the thumb to count as extended.
	thumbSpread = 0.05

	// pinchDistance is the maximum thumb-to-index tip distance for a pinch.
	pinchDistance = 0.05
)

// Classify maps a 21-point hand landmark set to a gesture label. It is a pure
// function: no history, no smoothing. Fewer than 21 landmarks classify as
// Unknown.
//
// A non-thumb finger counts as extended when its tip sits above its base in
// image space (smaller y is higher). The thumb extends sideways, so it is
// measured by horizontal spread instead. Rule order matters: overlapping
// finger combinations resolve to the first matching rule, and anything left
// over falls through the pinch check to Open.
func Classify(landmarks []detector.Landmark) Label {
	if len(landmarks) < detector.NumLandmarks {
		return Unknown
	}

	extended := func(tip, base int) bool {
		return landmarks[tip].Y < landmarks[base].Y
	}

	thumbDX := landmarks[detector.ThumbTip].X - landmarks[detector.ThumbMCP].X
	if thumbDX < 0 {
		thumbDX = -thumbDX
	}

	thumb := thumbDX > thumbSpread
	index := extended(detector.IndexTip, detector.IndexMCP)
	middle := extended(detector.MiddleTip, detector.MiddleMCP)
	ring := extended(detector.RingTip, detector.RingMCP)
	pinky := extended(detector.PinkyTip, detector.PinkyMCP)

	if !index && !middle && !ring && !pinky {
		if thumb {
			return ThumbsUp
		}
		return Fist
	}

	if index && middle && !ring && !pinky {
		return Victory
	}

	if index && !middle && !ring && !pinky {
		return Point
	}

	if thumb && index && middle && ring && pinky {
		return Open
	}

	if index && middle && ring && !pinky {
		return Three
	}

	if !index && !middle && !ring && pinky {
		return Pinky
	}

	if thumb && pinky && !index && !middle && !ring {
		return Rock
	}

	if detector.Distance3D(landmarks[detector.ThumbTip], landmarks[detector.IndexTip]) < pinchDistance {
		return Pinch
	}

	return Open
}
