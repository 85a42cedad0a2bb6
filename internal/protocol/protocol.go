// Package protocol defines the JSON wire messages exchanged over the
// websocket channels and validates inbound client messages against a schema.
package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ayusman/etherial/internal/analysis"
)

// Message type discriminators.
const (
	TypeFrame     = "frame"
	TypePing      = "ping"
	TypePong      = "pong"
	TypeConnected = "connected"
	TypeAnalysis  = "analysis"
	TypeError     = "error"
	TypeBeat      = "beat"
)

// clientSchema constrains inbound messages on the primary channel. Unknown
// message kinds and frames without a payload are rejected before dispatch.
const clientSchemaJSON = `{
	"type": "object",
	"required": ["type"],
	"properties": {
		"type": {"enum": ["frame", "ping"]},
		"data": {"type": "string"},
		"analyze_emotion": {"type": "boolean"},
		"analyze_pose": {"type": "boolean"},
		"analyze_face_mesh": {"type": "boolean"},
		"analyze_hands": {"type": "boolean"}
	},
	"if": {"properties": {"type": {"const": "frame"}}},
	"then": {"required": ["type", "data"]}
}`

var clientSchema = jsonschema.MustCompileString("client-message.json", clientSchemaJSON)

// ClientMessage is one inbound message on the primary channel.
type ClientMessage struct {
	Type            string `json:"type"`
	Data            string `json:"data,omitempty"`
	AnalyzeEmotion  bool   `json:"analyze_emotion,omitempty"`
	AnalyzePose     bool   `json:"analyze_pose,omitempty"`
	AnalyzeFaceMesh bool   `json:"analyze_face_mesh,omitempty"`
	AnalyzeHands    *bool  `json:"analyze_hands,omitempty"`
}

// Flags converts the message's modality switches into pipeline flags. Hand
// analysis defaults to enabled when the client does not specify it.
func (m *ClientMessage) Flags() analysis.Flags {
	return analysis.Flags{
		Emotion:  m.AnalyzeEmotion,
		Pose:     m.AnalyzePose,
		FaceMesh: m.AnalyzeFaceMesh,
		Hands:    m.AnalyzeHands == nil || *m.AnalyzeHands,
	}
}

// ParseClient validates and unmarshals one inbound client message.
func ParseClient(raw []byte) (*ClientMessage, error) {
	var value any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("malformed message: %w", err)
	}

	if err := clientSchema.Validate(value); err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}

	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("malformed message: %w", err)
	}
	return &msg, nil
}

// BeatRequest is the first (and only) inbound message on the beats channel.
type BeatRequest struct {
	Tempo float64 `json:"tempo"`
}

// Features advertises capability availability to a connecting client.
type Features struct {
	Emotion bool `json:"emotion"`
	Pose    bool `json:"pose"`
	Audio   bool `json:"audio"`
}

// Connected is the server's greeting on the primary channel.
type Connected struct {
	Type     string   `json:"type"`
	Features Features `json:"features"`
}

// NewConnected builds the greeting from the analyzer's availability.
func NewConnected(avail analysis.Availability) Connected {
	return Connected{
		Type: TypeConnected,
		Features: Features{
			Emotion: avail.Emotion,
			Pose:    avail.Pose,
			Audio:   avail.Beats,
		},
	}
}

// Analysis is one aggregated frame result sent to the client.
type Analysis struct {
	Type string `json:"type"`
	analysis.Result
}

// NewAnalysis wraps a pipeline result for the wire.
func NewAnalysis(result analysis.Result) Analysis {
	return Analysis{Type: TypeAnalysis, Result: result}
}

// Error reports a frame-handling or protocol failure to the offending
// connection.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewError builds an error message.
func NewError(message string) Error {
	return Error{Type: TypeError, Message: message}
}

// Pong answers a ping.
type Pong struct {
	Type string `json:"type"`
}

// NewPong builds a pong message.
func NewPong() Pong {
	return Pong{Type: TypePong}
}

// Beat is one tempo pulse on the beats channel.
type Beat struct {
	Type  string  `json:"type"`
	Count int     `json:"count"`
	Tempo float64 `json:"tempo"`
}
