package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ayusman/etherial/internal/analysis"
	"github.com/ayusman/etherial/internal/detector"
	"github.com/ayusman/etherial/internal/protocol"
)

func dialWS(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial %s: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestWSHandler_Session(t *testing.T) {
	mock := detector.NewMockProvider()
	analyzer := analysis.NewAnalyzer(analysis.Providers{
		Emotion: mock,
		Pose:    mock,
		Hands:   mock,
		Beats:   mock,
	}, zerolog.Nop())

	srv := New(Config{Analyzer: analyzer, Log: zerolog.Nop()})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dialWS(t, ts, "/ws")

	t.Run("greets with capability features", func(t *testing.T) {
		var greeting map[string]any
		if err := conn.ReadJSON(&greeting); err != nil {
			t.Fatalf("failed to read greeting: %v", err)
		}
		if greeting["type"] != protocol.TypeConnected {
			t.Fatalf("expected connected greeting, got %v", greeting["type"])
		}

		features := greeting["features"].(map[string]any)
		if features["emotion"] != true || features["pose"] != true || features["audio"] != true {
			t.Errorf("unexpected features: %v", features)
		}
	})

	t.Run("answers ping with pong", func(t *testing.T) {
		if err := conn.WriteJSON(map[string]string{"type": "ping"}); err != nil {
			t.Fatalf("failed to send ping: %v", err)
		}

		var reply map[string]any
		if err := conn.ReadJSON(&reply); err != nil {
			t.Fatalf("failed to read pong: %v", err)
		}
		if reply["type"] != protocol.TypePong {
			t.Errorf("expected pong, got %v", reply["type"])
		}
	})

	t.Run("malformed message yields an error and keeps the session open", func(t *testing.T) {
		if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
			t.Fatalf("failed to send garbage: %v", err)
		}

		var reply map[string]any
		if err := conn.ReadJSON(&reply); err != nil {
			t.Fatalf("failed to read error reply: %v", err)
		}
		if reply["type"] != protocol.TypeError {
			t.Errorf("expected error reply, got %v", reply["type"])
		}
	})

	t.Run("unknown message kind yields an error", func(t *testing.T) {
		if err := conn.WriteJSON(map[string]string{"type": "shutdown"}); err != nil {
			t.Fatalf("failed to send message: %v", err)
		}

		var reply map[string]any
		if err := conn.ReadJSON(&reply); err != nil {
			t.Fatalf("failed to read error reply: %v", err)
		}
		if reply["type"] != protocol.TypeError {
			t.Errorf("expected error reply, got %v", reply["type"])
		}
	})

	t.Run("undecodable frame payload yields an error", func(t *testing.T) {
		msg := map[string]any{"type": "frame", "data": "!!!not-base64!!!"}
		if err := conn.WriteJSON(msg); err != nil {
			t.Fatalf("failed to send frame: %v", err)
		}

		var reply map[string]any
		if err := conn.ReadJSON(&reply); err != nil {
			t.Fatalf("failed to read error reply: %v", err)
		}
		if reply["type"] != protocol.TypeError {
			t.Errorf("expected error reply, got %v", reply["type"])
		}
	})

	t.Run("session is still alive after errors", func(t *testing.T) {
		if err := conn.WriteJSON(map[string]string{"type": "ping"}); err != nil {
			t.Fatalf("failed to send ping: %v", err)
		}

		var reply map[string]any
		if err := conn.ReadJSON(&reply); err != nil {
			t.Fatalf("failed to read pong: %v", err)
		}
		if reply["type"] != protocol.TypePong {
			t.Errorf("expected pong, got %v", reply["type"])
		}
	})
}

func TestBeatsHandler(t *testing.T) {
	srv := New(Config{
		Analyzer: analysis.NewAnalyzer(analysis.Providers{}, zerolog.Nop()),
		Log:      zerolog.Nop(),
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	t.Run("streams pulses at the requested tempo", func(t *testing.T) {
		conn := dialWS(t, ts, "/ws/beats")

		if err := conn.WriteJSON(map[string]float64{"tempo": 1200}); err != nil {
			t.Fatalf("failed to send tempo: %v", err)
		}

		for i := 0; i < 3; i++ {
			var pulse map[string]any
			if err := conn.ReadJSON(&pulse); err != nil {
				t.Fatalf("failed to read pulse %d: %v", i, err)
			}
			if pulse["type"] != protocol.TypeBeat {
				t.Fatalf("expected beat message, got %v", pulse["type"])
			}
			if pulse["count"] != float64(i) {
				t.Errorf("expected count %d, got %v", i, pulse["count"])
			}
			if pulse["tempo"] != float64(1200) {
				t.Errorf("expected tempo 1200, got %v", pulse["tempo"])
			}
		}
	})

	t.Run("invalid tempo falls back to the default", func(t *testing.T) {
		conn := dialWS(t, ts, "/ws/beats")

		if err := conn.WriteJSON(map[string]float64{"tempo": -10}); err != nil {
			t.Fatalf("failed to send tempo: %v", err)
		}

		var pulse map[string]any
		if err := conn.ReadJSON(&pulse); err != nil {
			t.Fatalf("failed to read pulse: %v", err)
		}
		if pulse["tempo"] != float64(120) {
			t.Errorf("expected default tempo 120, got %v", pulse["tempo"])
		}
	})

	t.Run("unparseable first message falls back to the default", func(t *testing.T) {
		conn := dialWS(t, ts, "/ws/beats")

		if err := conn.WriteMessage(websocket.TextMessage, []byte("garbage")); err != nil {
			t.Fatalf("failed to send message: %v", err)
		}

		var pulse map[string]any
		if err := conn.ReadJSON(&pulse); err != nil {
			t.Fatalf("failed to read pulse: %v", err)
		}
		if pulse["tempo"] != float64(120) {
			t.Errorf("expected default tempo 120, got %v", pulse["tempo"])
		}
	})
}
