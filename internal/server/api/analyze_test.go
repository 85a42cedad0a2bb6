package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ayusman/etherial/internal/analysis"
	"github.com/ayusman/etherial/internal/detector"
)

func uploadRequest(t *testing.T, target string, payload []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "upload.bin")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestAnalyzeHandler_Audio(t *testing.T) {
	t.Run("returns the beat analysis and reports the tempo", func(t *testing.T) {
		mock := detector.NewMockProvider()
		mock.SetBeats(detector.BeatAnalysis{
			Tempo:    128,
			Beats:    []float64{0, 0.47, 0.94},
			Duration: 1.5,
		})
		analyzer := analysis.NewAnalyzer(analysis.Providers{Beats: mock}, zerolog.Nop())

		var reported float64
		h := NewAnalyzeHandler(analyzer, func(tempo float64) { reported = tempo })

		rec := httptest.NewRecorder()
		h.Audio().ServeHTTP(rec, uploadRequest(t, "/api/analyze/audio", []byte("fake-audio")))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var result detector.BeatAnalysis
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if result.Tempo != 128 || len(result.Beats) != 3 {
			t.Errorf("unexpected result: %+v", result)
		}
		if reported != 128 {
			t.Errorf("expected tempo 128 reported, got %g", reported)
		}
	})

	t.Run("without a beat tracker the endpoint reports unavailable", func(t *testing.T) {
		analyzer := analysis.NewAnalyzer(analysis.Providers{}, zerolog.Nop())
		h := NewAnalyzeHandler(analyzer, nil)

		rec := httptest.NewRecorder()
		h.Audio().ServeHTTP(rec, uploadRequest(t, "/api/analyze/audio", []byte("fake-audio")))

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
		}
	})

	t.Run("missing file upload is a bad request", func(t *testing.T) {
		analyzer := analysis.NewAnalyzer(analysis.Providers{Beats: detector.NewMockProvider()}, zerolog.Nop())
		h := NewAnalyzeHandler(analyzer, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/analyze/audio", nil)
		rec := httptest.NewRecorder()
		h.Audio().ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("only allows POST method", func(t *testing.T) {
		analyzer := analysis.NewAnalyzer(analysis.Providers{}, zerolog.Nop())
		h := NewAnalyzeHandler(analyzer, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/analyze/audio", nil)
		rec := httptest.NewRecorder()
		h.Audio().ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}

func TestAnalyzeHandler_Emotion(t *testing.T) {
	analyzer := analysis.NewAnalyzer(analysis.Providers{Emotion: detector.NewMockProvider()}, zerolog.Nop())
	h := NewAnalyzeHandler(analyzer, nil)

	t.Run("only allows POST method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/analyze/emotion", nil)
		rec := httptest.NewRecorder()
		h.Emotion().ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})

	t.Run("missing file upload is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze/emotion", nil)
		rec := httptest.NewRecorder()
		h.Emotion().ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})
}
