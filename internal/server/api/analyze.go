package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ayusman/etherial/internal/analysis"
)

// maxUploadBytes bounds uploaded image and audio payloads (20 MiB).
const maxUploadBytes = 20 << 20

// AnalyzeHandler serves one-shot analysis of uploaded media files.
type AnalyzeHandler struct {
	analyzer *analysis.Analyzer
	onBeat   func(tempo float64)
}

// NewAnalyzeHandler creates the upload analysis handlers. onBeat, if not nil,
// is invoked with the measured tempo after each successful audio analysis.
func NewAnalyzeHandler(analyzer *analysis.Analyzer, onBeat func(tempo float64)) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer, onBeat: onBeat}
}

// Emotion returns the handler for POST /api/analyze/emotion.
func (h *AnalyzeHandler) Emotion() http.Handler {
	return http.HandlerFunc(h.handleEmotion)
}

// Audio returns the handler for POST /api/analyze/audio.
func (h *AnalyzeHandler) Audio() http.Handler {
	return http.HandlerFunc(h.handleAudio)
}

// handleEmotion analyzes an uploaded image for the dominant facial emotion.
func (h *AnalyzeHandler) handleEmotion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	raw, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	frame, err := analysis.DecodeImage(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer frame.Close()

	writeJSON(w, http.StatusOK, h.analyzer.Emotion(frame))
}

// handleAudio analyzes an uploaded audio file for tempo and beat positions.
// The file is staged to disk because the beat tracker reads it by path.
func (h *AnalyzeHandler) handleAudio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	raw, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("etherial_audio_%d", time.Now().UnixNano()))
	if err := os.WriteFile(tempPath, raw, 0600); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to stage audio file")
		return
	}
	defer os.Remove(tempPath)

	result, err := h.analyzer.TrackBeats(tempPath)
	if err != nil {
		if errors.Is(err, analysis.ErrBeatsUnavailable) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.onBeat != nil {
		h.onBeat(result.Tempo)
	}

	writeJSON(w, http.StatusOK, result)
}

// readUpload extracts the "file" part of a multipart POST request.
func readUpload(r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("missing file upload: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return raw, nil
}
