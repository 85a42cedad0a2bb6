package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Sidecar runs the ML capabilities (MediaPipe, FER, librosa) in a Python
// subprocess and implements every provider interface over it. The process is
// started lazily on first use and shut down after 30s of inactivity.
//
// Request protocol: one JSON header line {"op": ...}, followed for image ops
// by a 4-byte big-endian length and the JPEG-encoded frame. Each request is
// answered with a single JSON line.
type Sidecar struct {
	config    Config
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	idleTimer *time.Timer
}

// NewSidecar creates a new sidecar client. It fails only when the service
// script cannot be located; the Python process itself starts on first call.
func NewSidecar(config Config) (*Sidecar, error) {
	if findServiceScript(config.ScriptPath) == "" {
		return nil, fmt.Errorf("etherial_service.py not found")
	}

	return &Sidecar{config: config}, nil
}

type sidecarRequest struct {
	Op            string  `json:"op"`
	Path          string  `json:"path,omitempty"`
	MaxHands      int     `json:"max_hands,omitempty"`
	MinConfidence float64 `json:"min_confidence,omitempty"`
}

type sidecarHand struct {
	Landmarks  []Landmark `json:"landmarks"`
	Handedness string     `json:"handedness"`
}

type sidecarResponse struct {
	Landmarks []Landmark         `json:"landmarks"`
	Hands     []sidecarHand      `json:"hands"`
	Emotions  map[string]float64 `json:"emotions"`
	Beats     *BeatAnalysis      `json:"beats"`
	Error     string             `json:"error"`
}

// DetectPose implements PoseDetector.
func (s *Sidecar) DetectPose(frame *gocv.Mat) ([]Landmark, error) {
	resp, err := s.roundTrip(sidecarRequest{Op: "pose"}, frame)
	if err != nil {
		return nil, err
	}
	return resp.Landmarks, nil
}

// DetectFaceMesh implements FaceMeshDetector.
func (s *Sidecar) DetectFaceMesh(frame *gocv.Mat) ([]Landmark, error) {
	resp, err := s.roundTrip(sidecarRequest{Op: "face_mesh"}, frame)
	if err != nil {
		return nil, err
	}
	return resp.Landmarks, nil
}

// DetectHands implements HandDetector.
func (s *Sidecar) DetectHands(frame *gocv.Mat) ([]Hand, error) {
	req := sidecarRequest{
		Op:            "hands",
		MaxHands:      s.config.MaxHands,
		MinConfidence: s.config.MinConfidence,
	}
	resp, err := s.roundTrip(req, frame)
	if err != nil {
		return nil, err
	}

	hands := make([]Hand, len(resp.Hands))
	for i, h := range resp.Hands {
		hands[i] = Hand{Landmarks: h.Landmarks, Handedness: h.Handedness}
	}
	return hands, nil
}

// ClassifyEmotion implements EmotionClassifier.
func (s *Sidecar) ClassifyEmotion(frame *gocv.Mat) (map[string]float64, error) {
	resp, err := s.roundTrip(sidecarRequest{Op: "emotion"}, frame)
	if err != nil {
		return nil, err
	}
	return resp.Emotions, nil
}

// TrackBeats implements BeatTracker. The audio file is read by the sidecar
// directly, so path must be readable by the subprocess.
func (s *Sidecar) TrackBeats(path string) (BeatAnalysis, error) {
	resp, err := s.roundTrip(sidecarRequest{Op: "beats", Path: path}, nil)
	if err != nil {
		return BeatAnalysis{}, err
	}
	if resp.Beats == nil {
		return BeatAnalysis{}, fmt.Errorf("beat analysis missing from response")
	}
	return *resp.Beats, nil
}

// Close shuts down the Python process.
func (s *Sidecar) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown()
}

func (s *Sidecar) roundTrip(req sidecarRequest, frame *gocv.Mat) (*sidecarResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureStarted(); err != nil {
		return nil, err
	}

	header, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	header = append(header, '\n')
	if _, err := s.stdin.Write(header); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	if frame != nil {
		buf, err := gocv.IMEncode(".jpg", *frame)
		if err != nil {
			return nil, fmt.Errorf("encode frame: %w", err)
		}
		data := buf.GetBytes()

		length := make([]byte, 4)
		binary.BigEndian.PutUint32(length, uint32(len(data)))

		if _, err := s.stdin.Write(length); err != nil {
			buf.Close()
			return nil, fmt.Errorf("write length: %w", err)
		}
		if _, err := s.stdin.Write(data); err != nil {
			buf.Close()
			return nil, fmt.Errorf("write data: %w", err)
		}
		buf.Close()
	}

	line, err := s.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp sidecarResponse
	if err := json.Unmarshal([]byte(line), &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("sidecar: %s", resp.Error)
	}

	s.resetIdleTimer()
	return &resp, nil
}

func (s *Sidecar) ensureStarted() error {
	if s.started {
		return nil
	}

	scriptPath := findServiceScript(s.config.ScriptPath)
	if scriptPath == "" {
		return fmt.Errorf("etherial_service.py not found")
	}

	pythonPath := s.config.PythonBin
	if pythonPath == "" {
		pythonPath = findVenvPython()
	}
	if pythonPath == "" {
		pythonPath = "python3"
	}

	s.cmd = exec.Command(pythonPath, scriptPath)

	stdin, err := s.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := s.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	s.cmd.Stderr = os.Stderr

	if err := s.cmd.Start(); err != nil {
		return fmt.Errorf("start detection service: %w", err)
	}

	s.stdin = stdin
	s.stdout = bufio.NewReader(stdout)
	s.started = true

	return nil
}

func (s *Sidecar) shutdown() error {
	if !s.started {
		return nil
	}

	if s.idleTimer != nil {
		s.idleTimer.Stop()
		s.idleTimer = nil
	}

	if s.stdin != nil {
		s.stdin.Close()
	}

	err := s.cmd.Wait()
	s.started = false
	s.cmd = nil
	s.stdin = nil
	s.stdout = nil

	return err
}

func (s *Sidecar) resetIdleTimer() {
	if s.idleTimer != nil {
		s.idleTimer.Stop()
	}
	s.idleTimer = time.AfterFunc(30*time.Second, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.shutdown()
	})
}

func findServiceScript(override string) string {
	if override != "" {
		if _, err := os.Stat(override); err == nil {
			return override
		}
		return ""
	}

	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/etherial_service.py",
		"../scripts/etherial_service.py",
		filepath.Join(execDir, "scripts/etherial_service.py"),
		filepath.Join(os.Getenv("HOME"), ".etherial/scripts/etherial_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".etherial/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}
