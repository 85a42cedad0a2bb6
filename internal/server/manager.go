package server

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ayusman/etherial/internal/analysis"
)

// Sender delivers one JSON message to a connected client.
type Sender interface {
	WriteJSON(v any) error
}

// Session is one live client connection on the primary channel.
type Session struct {
	ID   string
	conn Sender
}

// NewSession wraps a connection in a session with a fresh ID.
func NewSession(conn Sender) *Session {
	return &Session{ID: uuid.New().String(), conn: conn}
}

// Send delivers one message to this session's client.
func (s *Session) Send(v any) error {
	return s.conn.WriteJSON(v)
}

// BeatStatus is the cached result of the most recent audio beat analysis.
type BeatStatus struct {
	Tempo float64 `json:"tempo"`
	Beat  bool    `json:"beat"`
}

// Manager owns the live session set and the process-wide last-successful
// result cache. All mutation goes through its mutex; sessions never touch
// each other's state directly.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	lastEmotion analysis.EmotionResult
	lastPose    analysis.PoseResult
	lastBeat    BeatStatus
	log         zerolog.Logger
}

// NewManager creates an empty Manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		lastEmotion: analysis.NeutralEmotion(),
		lastPose:    analysis.EmptyPose(),
		log:         log,
	}
}

// Register adds a session to the live set.
func (m *Manager) Register(s *Session) {
	m.mu.Lock()
	m.sessions[s.ID] = s
	total := len(m.sessions)
	m.mu.Unlock()

	m.log.Info().Str("session", s.ID).Int("total", total).Msg("client connected")
}

// Unregister removes a session from the live set. Removing an absent session
// is a no-op.
func (m *Manager) Unregister(s *Session) {
	m.mu.Lock()
	_, present := m.sessions[s.ID]
	delete(m.sessions, s.ID)
	total := len(m.sessions)
	m.mu.Unlock()

	if present {
		m.log.Info().Str("session", s.ID).Int("total", total).Msg("client disconnected")
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Broadcast attempts delivery to every live session. Delivery is best-effort:
// a failing session is skipped, never retried, and does not block the rest.
func (m *Manager) Broadcast(v any) {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	for _, s := range sessions {
		if err := s.Send(v); err != nil {
			m.log.Debug().Err(err).Str("session", s.ID).Msg("broadcast delivery failed")
		}
	}
}

// SetLastEmotion caches the most recent successful emotion result.
func (m *Manager) SetLastEmotion(r analysis.EmotionResult) {
	m.mu.Lock()
	m.lastEmotion = r
	m.mu.Unlock()
}

// LastEmotion returns the cached emotion result.
func (m *Manager) LastEmotion() analysis.EmotionResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastEmotion
}

// SetLastPose caches the most recent successful pose result.
func (m *Manager) SetLastPose(r analysis.PoseResult) {
	m.mu.Lock()
	m.lastPose = r
	m.mu.Unlock()
}

// LastPose returns the cached pose result.
func (m *Manager) LastPose() analysis.PoseResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastPose
}

// SetLastBeat caches the tempo of the most recent audio beat analysis.
func (m *Manager) SetLastBeat(tempo float64) {
	m.mu.Lock()
	m.lastBeat = BeatStatus{Tempo: tempo, Beat: true}
	m.mu.Unlock()
}

// LastBeat returns the cached beat status.
func (m *Manager) LastBeat() BeatStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastBeat
}
