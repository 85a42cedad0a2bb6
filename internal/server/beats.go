package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ayusman/etherial/internal/beat"
	"github.com/ayusman/etherial/internal/protocol"
)

// BeatsHandler runs one tempo pulse session per connection: the client's
// first message carries the BPM, then the server streams beat pulses at that
// tempo until the client disconnects.
type BeatsHandler struct {
	defaultTempo float64
	log          zerolog.Logger
}

// NewBeatsHandler creates the beats channel handler.
func NewBeatsHandler(defaultTempo float64, log zerolog.Logger) *BeatsHandler {
	if defaultTempo <= 0 {
		defaultTempo = beat.DefaultTempo
	}
	return &BeatsHandler{defaultTempo: defaultTempo, log: log}
}

// ServeHTTP upgrades the connection and streams pulses.
func (h *BeatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	_, raw, err := conn.ReadMessage()
	if err != nil {
		return
	}

	// An unparseable or invalid tempo request falls back to the default;
	// the session still runs.
	tempo := h.defaultTempo
	var req protocol.BeatRequest
	if err := json.Unmarshal(raw, &req); err == nil && req.Tempo > 0 {
		tempo = req.Tempo
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Watch for client disconnect so the pulse loop terminates promptly.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	scheduler := beat.NewScheduler(tempo)
	h.log.Info().Float64("tempo", scheduler.Tempo()).Msg("beat session started")

	err = scheduler.Run(ctx, func(p beat.Pulse) error {
		return conn.WriteJSON(protocol.Beat{
			Type:  protocol.TypeBeat,
			Count: p.Count,
			Tempo: p.Tempo,
		})
	})
	if err != nil {
		h.log.Debug().Err(err).Msg("beat session transport failed")
	}
	h.log.Info().Float64("tempo", scheduler.Tempo()).Msg("beat session ended")
}
