// Package beat provides the free-running tempo pulse scheduler.
package beat

import (
	"context"
	"math"
	"time"
)

// DefaultTempo is the fallback tempo in beats per minute when a session does
// not specify a valid one.
const DefaultTempo = 120

// Pulse is one beat tick emitted by the scheduler.
type Pulse struct {
	Count int
	Tempo float64
}

// Scheduler emits pulses at a fixed BPM-derived interval until cancelled.
type Scheduler struct {
	tempo float64
}

// NewScheduler creates a scheduler for the given tempo. Non-positive or
// non-finite tempos fall back to DefaultTempo.
func NewScheduler(tempo float64) *Scheduler {
	if tempo <= 0 || math.IsNaN(tempo) || math.IsInf(tempo, 0) {
		tempo = DefaultTempo
	}
	return &Scheduler{tempo: tempo}
}

// Tempo returns the effective tempo in beats per minute.
func (s *Scheduler) Tempo() float64 {
	return s.tempo
}

// Interval returns the delay between consecutive pulses (60/tempo seconds).
func (s *Scheduler) Interval() time.Duration {
	return time.Duration(60 / s.tempo * float64(time.Second))
}

// Run emits pulses through emit until the context is cancelled or emit
// fails. The first pulse (count 0) is emitted immediately; count increases by
// one per pulse and never resets. Returns nil on cancellation and the emit
// error on delivery failure.
func (s *Scheduler) Run(ctx context.Context, emit func(Pulse) error) error {
	interval := s.Interval()
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for count := 0; ; count++ {
		if err := emit(Pulse{Count: count, Tempo: s.tempo}); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			timer.Reset(interval)
		}
	}
}
