package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ayusman/etherial/internal/analysis"
	"github.com/ayusman/etherial/internal/gesture"
	"github.com/ayusman/etherial/internal/protocol"
	"github.com/ayusman/etherial/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// WSHandler runs the per-connection session protocol on the primary channel:
// greeting, then a frame/ping dispatch loop until the client disconnects.
type WSHandler struct {
	analyzer *analysis.Analyzer
	manager  *Manager
	events   *store.EventRepository
	log      zerolog.Logger
}

// NewWSHandler creates the primary channel handler. The event repository is
// optional; without it detections are not recorded.
func NewWSHandler(analyzer *analysis.Analyzer, manager *Manager, events *store.EventRepository, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		analyzer: analyzer,
		manager:  manager,
		events:   events,
		log:      log,
	}
}

// ServeHTTP upgrades the connection and runs the session loop.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	session := NewSession(conn)
	h.manager.Register(session)
	defer h.manager.Unregister(session)

	if err := session.Send(protocol.NewConnected(h.analyzer.Availability())); err != nil {
		return
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		msg, err := protocol.ParseClient(raw)
		if err != nil {
			// Protocol failures answer the offending connection only;
			// the session stays open.
			session.Send(protocol.NewError(err.Error()))
			continue
		}

		switch msg.Type {
		case protocol.TypePing:
			if err := session.Send(protocol.NewPong()); err != nil {
				return
			}
		case protocol.TypeFrame:
			if err := h.handleFrame(session, msg); err != nil {
				return
			}
		}
	}
}

// handleFrame analyzes one frame and answers with the aggregated result.
// Decode failures are reported to the client; only transport failures end
// the session.
func (h *WSHandler) handleFrame(session *Session, msg *protocol.ClientMessage) error {
	frame, err := analysis.DecodeFrame(msg.Data)
	if err != nil {
		h.log.Warn().Err(err).Str("session", session.ID).Msg("frame decode failed")
		return session.Send(protocol.NewError(err.Error()))
	}
	defer frame.Close()

	result := h.analyzer.AnalyzeFrame(frame, msg.Flags())
	h.cacheResults(result)
	h.recordEvents(session.ID, result)

	return session.Send(protocol.NewAnalysis(result))
}

// cacheResults updates the last-successful result cache. Neutral and
// not-detected results never overwrite a previous success.
func (h *WSHandler) cacheResults(result analysis.Result) {
	if result.Emotion != nil && result.Emotion.Confidence > 0 {
		h.manager.SetLastEmotion(*result.Emotion)
	}
	if result.Pose != nil && result.Pose.Detected {
		h.manager.SetLastPose(*result.Pose)
	}
}

// recordEvents appends recognized gestures and emotions to the event log.
// Logging failures never disturb the session.
func (h *WSHandler) recordEvents(sessionID string, result analysis.Result) {
	if h.events == nil {
		return
	}

	if result.Emotion != nil && result.Emotion.Confidence > 0 {
		err := h.events.Record(&store.Event{
			SessionID:  sessionID,
			Kind:       store.EventEmotion,
			Label:      result.Emotion.Emotion,
			Confidence: result.Emotion.Confidence,
		})
		if err != nil {
			h.log.Warn().Err(err).Msg("failed to record emotion event")
		}
	}

	if result.Hands != nil {
		for _, hand := range result.Hands.Hands {
			if hand.Gesture == gesture.Unknown {
				continue
			}
			err := h.events.Record(&store.Event{
				SessionID: sessionID,
				Kind:      store.EventGesture,
				Label:     string(hand.Gesture),
			})
			if err != nil {
				h.log.Warn().Err(err).Msg("failed to record gesture event")
			}
		}
	}
}
