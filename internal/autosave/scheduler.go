// Package autosave reschedules a background save of the session being edited.
// The scheduler is an owned object: whoever owns the editing context starts it,
// stops it, and may replace its interval. There is never more than one pending
// timer per scheduler.
package autosave

import (
	"context"
	"log"
	"sync"
	"time"

	"lsb-music/internal/editor"
)

const DefaultInterval = 30 * time.Second

// Saver is the save path shared with interactive saves. The scheduler never
// bypasses it, so autosave loses version conflicts the same way a user can.
type Saver interface {
	Save(ctx context.Context, state *editor.State) error
}

type Scheduler struct {
	state    *editor.State
	saver    Saver
	interval time.Duration

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	running    bool
}

func New(state *editor.State, saver Saver, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		state:    state,
		saver:    saver,
		interval: interval,
	}
}

// Start arms the timer. Starting an already-running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.armLocked()
}

// Stop cancels the pending timer. A tick already executing finishes its save
// but will not rearm. Stop is idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Replace swaps the interval, cancelling any pending timer and arming a fresh
// one if the scheduler is running.
func (s *Scheduler) Replace(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = interval
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.running {
		s.armLocked()
	}
}

// armLocked replaces the pending timer. The generation counter makes a late
// fire from a cancelled timer a no-op. Callers hold s.mu.
func (s *Scheduler) armLocked() {
	gen := s.generation
	s.timer = time.AfterFunc(s.interval, func() { s.tick(gen) })
}

func (s *Scheduler) tick(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || !s.running {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	// Save only dirty, nameable state; a save failure (conflict included)
	// leaves the dirty flag set for the next tick or an interactive save.
	if s.state.Dirty() && s.state.Name() != "" {
		if err := s.saver.Save(context.Background(), s.state); err != nil {
			log.Printf("autosave skipped: %v", err)
		}
	}

	// Rearm unconditionally so one failed or skipped tick never stops
	// future attempts.
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || !s.running {
		return
	}
	s.armLocked()
}
