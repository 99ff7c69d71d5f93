package craving

import (
	"context"
	"sync"
	"testing"
	"time"
)

type stubCoach struct{}

func (stubCoach) SOSIntervention(_ context.Context) string {
	return "Ride the wave. It passes in a few minutes."
}

type stubOutcomes struct {
	mu       sync.Mutex
	resisted int
	relapsed int
}

func (s *stubOutcomes) RecordCravingResisted(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resisted++
	return nil
}

func (s *stubOutcomes) RecordRelapse(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relapsed++
	return "It's okay. Let's get back on track.", nil
}

func (s *stubOutcomes) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resisted, s.relapsed
}

func waitForState(t *testing.T, s *Session, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("state = %q, want %q", s.State(), want)
}

func TestSOSFlowResisted(t *testing.T) {
	out := &stubOutcomes{}
	s := NewSession(stubCoach{}, out, 5*time.Millisecond)
	defer s.Close()

	text, err := s.StartSOS(context.Background())
	if err != nil {
		t.Fatalf("start sos: %v", err)
	}
	if text == "" {
		t.Fatal("empty intervention")
	}
	if s.State() != StateSOSActive {
		t.Fatalf("state after start = %q, want %q", s.State(), StateSOSActive)
	}

	// The cooldown starts on dismissal, not when the exercise arrives.
	if err := s.Dismiss(); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if s.State() != StateCoolDown {
		t.Fatalf("state after dismiss = %q, want %q", s.State(), StateCoolDown)
	}
	waitForState(t, s, StateCheckIn)

	if err := s.ResolveResisted(context.Background()); err != nil {
		t.Fatalf("resolve resisted: %v", err)
	}
	if s.State() != StateIdle {
		t.Fatalf("state after resolve = %q", s.State())
	}
	resisted, relapsed := out.counts()
	if resisted != 1 || relapsed != 0 {
		t.Fatalf("counts = %d resisted, %d relapsed", resisted, relapsed)
	}
}

func TestSOSFlowRelapsed(t *testing.T) {
	out := &stubOutcomes{}
	s := NewSession(stubCoach{}, out, 5*time.Millisecond)
	defer s.Close()

	if _, err := s.StartSOS(context.Background()); err != nil {
		t.Fatalf("start sos: %v", err)
	}
	if err := s.Dismiss(); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	waitForState(t, s, StateCheckIn)

	msg, err := s.ResolveRelapsed(context.Background())
	if err != nil {
		t.Fatalf("resolve relapsed: %v", err)
	}
	if msg == "" {
		t.Fatal("empty relapse message")
	}
	resisted, relapsed := out.counts()
	if resisted != 0 || relapsed != 1 {
		t.Fatalf("counts = %d resisted, %d relapsed", resisted, relapsed)
	}
}

func TestSOSDismissalReachesCheckIn(t *testing.T) {
	// The documented flow: open SOS, read, dismiss. The user must still be
	// asked how the craving went.
	out := &stubOutcomes{}
	s := NewSession(stubCoach{}, out, 5*time.Millisecond)
	defer s.Close()

	if _, err := s.StartSOS(context.Background()); err != nil {
		t.Fatalf("start sos: %v", err)
	}
	if err := s.Dismiss(); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	waitForState(t, s, StateCheckIn)
}

func TestSOSActiveDoesNotTimeOut(t *testing.T) {
	// No timer runs while the intervention is still open.
	s := NewSession(stubCoach{}, &stubOutcomes{}, 5*time.Millisecond)
	defer s.Close()

	if _, err := s.StartSOS(context.Background()); err != nil {
		t.Fatalf("start sos: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if s.State() != StateSOSActive {
		t.Fatalf("state = %q, want %q", s.State(), StateSOSActive)
	}
}

func TestStartSOSWhileActive(t *testing.T) {
	s := NewSession(stubCoach{}, &stubOutcomes{}, time.Hour)
	defer s.Close()

	if _, err := s.StartSOS(context.Background()); err != nil {
		t.Fatalf("start sos: %v", err)
	}
	if _, err := s.StartSOS(context.Background()); err != ErrNotIdle {
		t.Fatalf("second start err = %v, want ErrNotIdle", err)
	}
}

func TestDismissWithoutIntervention(t *testing.T) {
	s := NewSession(stubCoach{}, &stubOutcomes{}, time.Hour)
	defer s.Close()

	if err := s.Dismiss(); err != ErrNoIntervention {
		t.Fatalf("idle dismiss err = %v, want ErrNoIntervention", err)
	}

	if _, err := s.StartSOS(context.Background()); err != nil {
		t.Fatalf("start sos: %v", err)
	}
	if err := s.Dismiss(); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	// Already cooling down; a second dismiss is rejected.
	if err := s.Dismiss(); err != ErrNoIntervention {
		t.Fatalf("double dismiss err = %v, want ErrNoIntervention", err)
	}
}

func TestResolveWithoutCheckIn(t *testing.T) {
	s := NewSession(stubCoach{}, &stubOutcomes{}, time.Hour)
	defer s.Close()

	if err := s.ResolveResisted(context.Background()); err != ErrNotCheckIn {
		t.Fatalf("resisted err = %v, want ErrNotCheckIn", err)
	}
	if _, err := s.ResolveRelapsed(context.Background()); err != ErrNotCheckIn {
		t.Fatalf("relapsed err = %v, want ErrNotCheckIn", err)
	}

	// Still cooling down: the check-in is not answerable early.
	if _, err := s.StartSOS(context.Background()); err != nil {
		t.Fatalf("start sos: %v", err)
	}
	if err := s.Dismiss(); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if err := s.ResolveResisted(context.Background()); err != ErrNotCheckIn {
		t.Fatalf("early resolve err = %v, want ErrNotCheckIn", err)
	}
}

func TestLogSetbackAbandonsActiveEpisode(t *testing.T) {
	out := &stubOutcomes{}
	s := NewSession(stubCoach{}, out, time.Hour)
	defer s.Close()

	if _, err := s.StartSOS(context.Background()); err != nil {
		t.Fatalf("start sos: %v", err)
	}
	msg, err := s.LogSetback(context.Background())
	if err != nil {
		t.Fatalf("log setback: %v", err)
	}
	if msg == "" {
		t.Fatal("empty setback message")
	}
	if s.State() != StateIdle {
		t.Fatalf("state = %q", s.State())
	}
	_, relapsed := out.counts()
	if relapsed != 1 {
		t.Fatalf("relapsed = %d, want 1", relapsed)
	}
}

func TestLogSetbackCancelsCooldown(t *testing.T) {
	out := &stubOutcomes{}
	s := NewSession(stubCoach{}, out, 10*time.Millisecond)
	defer s.Close()

	if _, err := s.StartSOS(context.Background()); err != nil {
		t.Fatalf("start sos: %v", err)
	}
	if err := s.Dismiss(); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if _, err := s.LogSetback(context.Background()); err != nil {
		t.Fatalf("log setback: %v", err)
	}

	// The cancelled cooldown timer must not surface a stale check-in.
	time.Sleep(30 * time.Millisecond)
	if s.State() != StateIdle {
		t.Fatalf("stale timer fired: state = %q", s.State())
	}
	_, relapsed := out.counts()
	if relapsed != 1 {
		t.Fatalf("relapsed = %d, want exactly the direct setback", relapsed)
	}
}

func TestCloseRejectsTransitions(t *testing.T) {
	s := NewSession(stubCoach{}, &stubOutcomes{}, 5*time.Millisecond)
	if _, err := s.StartSOS(context.Background()); err != nil {
		t.Fatalf("start sos: %v", err)
	}
	if err := s.Dismiss(); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	s.Close()

	if _, err := s.StartSOS(context.Background()); err != ErrClosed {
		t.Fatalf("start after close err = %v, want ErrClosed", err)
	}
	if err := s.Dismiss(); err != ErrClosed {
		t.Fatalf("dismiss after close err = %v, want ErrClosed", err)
	}
	if _, err := s.LogSetback(context.Background()); err != ErrClosed {
		t.Fatalf("setback after close err = %v, want ErrClosed", err)
	}

	// A pending cooldown must not advance a closed session.
	time.Sleep(20 * time.Millisecond)
	if s.State() != StateIdle {
		t.Fatalf("closed session advanced to %q", s.State())
	}
}

func TestManager(t *testing.T) {
	m := NewManager(stubCoach{}, time.Hour)
	defer m.CloseAll()

	out := &stubOutcomes{}
	a := m.Session("a", out)
	if m.Session("a", out) != a {
		t.Fatal("same account must get the same session")
	}
	if m.Session("b", out) == a {
		t.Fatal("accounts must not share sessions")
	}

	m.Drop("a")
	if _, err := a.StartSOS(context.Background()); err != ErrClosed {
		t.Fatalf("dropped session err = %v, want ErrClosed", err)
	}
	if m.Session("a", out) == a {
		t.Fatal("dropped account must get a fresh session")
	}
}
