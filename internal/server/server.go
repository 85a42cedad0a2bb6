// Package server provides the HTTP and websocket server for the Etherial
// realtime analysis backend.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/etherial/internal/analysis"
	"github.com/ayusman/etherial/internal/gesture"
	"github.com/ayusman/etherial/internal/server/api"
	"github.com/ayusman/etherial/internal/store"
)

// Version reported by the capability endpoint.
const Version = "2.0.0"

// Config holds the server configuration.
type Config struct {
	StaticDir    string
	Store        *store.Store
	Analyzer     *analysis.Analyzer
	DefaultTempo float64
	Log          zerolog.Logger
}

// Server represents the HTTP server for the Etherial application.
type Server struct {
	config  Config
	manager *Manager
	mux     *http.ServeMux
	start   time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config:  config,
		manager: NewManager(config.Log),
		mux:     http.NewServeMux(),
		start:   time.Now(),
	}
	s.setupRoutes()
	return s
}

// Manager returns the connection manager owning the live session set.
func (s *Server) Manager() *Manager {
	return s.manager
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/status", s.handleStatus)

	var events *store.EventRepository
	if s.config.Store != nil {
		events = s.config.Store.Events()
		s.mux.Handle("/api/history", api.NewHistoryHandler(events))
	}

	if s.config.Analyzer != nil {
		analyzeHandler := api.NewAnalyzeHandler(s.config.Analyzer, s.manager.SetLastBeat)
		s.mux.Handle("/api/analyze/emotion", analyzeHandler.Emotion())
		s.mux.Handle("/api/analyze/audio", analyzeHandler.Audio())

		s.mux.Handle("/ws", NewWSHandler(s.config.Analyzer, s.manager, events, s.config.Log))
		s.mux.Handle("/ws/beats", NewBeatsHandler(s.config.DefaultTempo, s.config.Log))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health. It reports service
// identity, per-capability availability and the gesture vocabulary.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var avail analysis.Availability
	if s.config.Analyzer != nil {
		avail = s.config.Analyzer.Availability()
	}

	response := map[string]interface{}{
		"status":  "online",
		"service": "Etherial Particles API",
		"version": Version,
		"uptime":  time.Since(s.start).String(),
		"features": map[string]bool{
			"emotion_detection": avail.Emotion,
			"pose_detection":    avail.Pose,
			"face_mesh":         avail.FaceMesh,
			"hand_gesture_ml":   avail.Hands,
			"beat_detection":    avail.Beats,
		},
		"gestures_supported": gesture.Labels(),
	}

	writeJSON(w, http.StatusOK, response)
}

// handleStatus handles GET requests to /api/status. It reports the live
// connection count and the last cached results.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var avail analysis.Availability
	if s.config.Analyzer != nil {
		avail = s.config.Analyzer.Availability()
	}

	response := map[string]interface{}{
		"connections":  s.manager.Count(),
		"last_emotion": s.manager.LastEmotion(),
		"last_pose":    s.manager.LastPose(),
		"last_beat":    s.manager.LastBeat(),
		"features_enabled": map[string]bool{
			"emotion": avail.Emotion,
			"pose":    avail.Pose,
			"audio":   avail.Beats,
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
