// Package craving drives the SOS flow: a panic button opens an intervention,
// dismissing it starts a cooldown that gives the exercise time to work, and
// the check-in after the cooldown records the outcome as either a resisted
// craving or a relapse.
package craving

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is the craving session's position in the SOS flow.
type State string

const (
	StateIdle      State = "idle"
	StateSOSActive State = "sos_active"
	StateCoolDown  State = "cool_down"
	StateCheckIn   State = "check_in"
)

// DefaultCooldown is how long the intervention stays up before the check-in.
const DefaultCooldown = 15 * time.Minute

var (
	ErrNotIdle        = errors.New("craving: an sos flow is already active")
	ErrNoIntervention = errors.New("craving: no intervention to dismiss")
	ErrNotCheckIn     = errors.New("craving: no check-in pending")
	ErrClosed         = errors.New("craving: session closed")
)

// Interventionist supplies the SOS exercise text. It degrades to a fallback
// internally and never fails.
type Interventionist interface {
	SOSIntervention(ctx context.Context) string
}

// Outcomes receives the resolved episode.
type Outcomes interface {
	RecordCravingResisted(ctx context.Context) error
	RecordRelapse(ctx context.Context) (string, error)
}

// Session is one user's craving state machine. A session handles one episode
// at a time; the timer that advances cooldown to check-in is cancelled on a
// direct setback and on Close, so a torn-down session never fires a stale
// transition.
type Session struct {
	coach    Interventionist
	outcomes Outcomes
	cooldown time.Duration

	mu     sync.Mutex
	state  State
	timer  *time.Timer
	closed bool
}

func NewSession(coach Interventionist, outcomes Outcomes, cooldown time.Duration) *Session {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Session{
		coach:    coach,
		outcomes: outcomes,
		cooldown: cooldown,
		state:    StateIdle,
	}
}

// State returns the current position in the flow.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// StartSOS opens an episode and returns the intervention. The session stays
// in sos_active until the user dismisses the exercise; dismissal starts the
// cooldown.
func (s *Session) StartSOS(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrClosed
	}
	if s.state != StateIdle {
		s.mu.Unlock()
		return "", ErrNotIdle
	}
	s.state = StateSOSActive
	s.mu.Unlock()

	return s.coach.SOSIntervention(ctx), nil
}

func (s *Session) cooldownElapsed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateCoolDown {
		return
	}
	s.state = StateCheckIn
}

// Dismiss closes the intervention and starts the cooldown that surfaces the
// check-in. The episode is not abandoned; the outcome is still collected.
func (s *Session) Dismiss() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.state != StateSOSActive {
		return ErrNoIntervention
	}
	s.state = StateCoolDown
	s.timer = time.AfterFunc(s.cooldown, s.cooldownElapsed)
	return nil
}

// ResolveResisted answers the check-in with a win.
func (s *Session) ResolveResisted(ctx context.Context) error {
	if err := s.leaveCheckIn(); err != nil {
		return err
	}
	return s.outcomes.RecordCravingResisted(ctx)
}

// ResolveRelapsed answers the check-in with a setback and returns the coach's
// supportive message.
func (s *Session) ResolveRelapsed(ctx context.Context) (string, error) {
	if err := s.leaveCheckIn(); err != nil {
		return "", err
	}
	return s.outcomes.RecordRelapse(ctx)
}

func (s *Session) leaveCheckIn() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.state != StateCheckIn {
		return ErrNotCheckIn
	}
	s.state = StateIdle
	return nil
}

// LogSetback records a relapse outside the SOS flow, from the dashboard's
// direct "I slipped" path. Any active episode is abandoned first so the same
// slip is not counted twice.
func (s *Session) LogSetback(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrClosed
	}
	s.stopTimerLocked()
	s.state = StateIdle
	s.mu.Unlock()
	return s.outcomes.RecordRelapse(ctx)
}

// Close cancels any pending timer and rejects further transitions.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
	s.closed = true
	s.state = StateIdle
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
