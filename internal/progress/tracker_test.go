package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"breathefree/internal/profile"
)

type stubMessages struct {
	msg     string
	release chan struct{} // when set, RelapseMessage blocks until closed
	calls   int
}

func (s *stubMessages) RelapseMessage(_ context.Context, _ profile.Methodology) string {
	s.calls++
	if s.release != nil {
		<-s.release
	}
	if s.msg == "" {
		return "It's okay. Let's get back on track."
	}
	return s.msg
}

type memorySaver struct {
	mu    sync.Mutex
	saves int
	last  Data
}

func (m *memorySaver) Save(_ string, d Data) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.last = d
	return nil
}

func taperingProfile() profile.Profile {
	p := profile.Profile{QuitMethodology: profile.Tapering}
	p.SmokingProfile.CigsPerDay = 10
	p.Pricing = profile.Pricing{PricePerPack: 300, CigsPerPack: 20}
	return p
}

func TestNewData(t *testing.T) {
	d := NewData(profile.Tapering, 10, 7)
	if len(d.DailyCigarettes) != 7 {
		t.Fatalf("dailyCigarettes length = %d", len(d.DailyCigarettes))
	}
	for i, v := range d.DailyCigarettes {
		if v != 10 {
			t.Fatalf("dailyCigarettes[%d] = %d, want baseline 10", i, v)
		}
	}

	ct := NewData(profile.ColdTurkey, 10, 7)
	if len(ct.DailyCigarettes) != 0 {
		t.Fatalf("cold turkey tally = %v, want empty", ct.DailyCigarettes)
	}
}

func TestCountersAreIndependent(t *testing.T) {
	saver := &memorySaver{}
	tr := NewTracker("u1", taperingProfile(), NewData(profile.Tapering, 10, 7), &stubMessages{}, saver)

	for i := 0; i < 3; i++ {
		if err := tr.RecordCravingResisted(context.Background()); err != nil {
			t.Fatalf("resisted: %v", err)
		}
	}
	if err := tr.RecordSmokeFreeDay(); err != nil {
		t.Fatalf("smoke-free day: %v", err)
	}
	if _, err := tr.RecordRelapse(context.Background()); err != nil {
		t.Fatalf("relapse: %v", err)
	}

	d := tr.Data()
	if d.CravingsLogged != 3 {
		t.Fatalf("cravingsLogged = %d, want 3", d.CravingsLogged)
	}
	if d.Relapses != 1 {
		t.Fatalf("relapses = %d, want 1", d.Relapses)
	}
	if d.SmokeFreeStreak != 0 {
		t.Fatalf("streak = %d, want 0 after relapse", d.SmokeFreeStreak)
	}
	if saver.saves != 5 {
		t.Fatalf("saves = %d, want one per mutation", saver.saves)
	}
}

func TestRelapseReturnsMessage(t *testing.T) {
	msgs := &stubMessages{msg: "Tomorrow is a fresh start."}
	tr := NewTracker("u1", taperingProfile(), Data{SmokeFreeStreak: 4}, msgs, &memorySaver{})

	msg, err := tr.RecordRelapse(context.Background())
	if err != nil {
		t.Fatalf("relapse: %v", err)
	}
	if msg != "Tomorrow is a fresh start." {
		t.Fatalf("message = %q", msg)
	}
	if got := tr.Data().SmokeFreeStreak; got != 0 {
		t.Fatalf("streak = %d after relapse", got)
	}
}

func TestRelapseInFlightGuard(t *testing.T) {
	msgs := &stubMessages{release: make(chan struct{})}
	tr := NewTracker("u1", taperingProfile(), Data{}, msgs, &memorySaver{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := tr.RecordRelapse(context.Background()); err != nil {
			t.Errorf("first relapse: %v", err)
		}
	}()

	// Wait until the first relapse is parked in the message fetch.
	for {
		tr.mu.Lock()
		inFlight := tr.relapseInFlight
		tr.mu.Unlock()
		if inFlight {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := tr.RecordRelapse(context.Background()); err != ErrRelapseInFlight {
		t.Fatalf("second relapse err = %v, want ErrRelapseInFlight", err)
	}

	close(msgs.release)
	<-done
	if got := tr.Data().Relapses; got != 1 {
		t.Fatalf("relapses = %d, want 1", got)
	}
}

func TestRecordDailyTally(t *testing.T) {
	tr := NewTracker("u1", taperingProfile(), NewData(profile.Tapering, 10, 7), &stubMessages{}, &memorySaver{})

	if err := tr.RecordDailyTally(2, 6); err != nil {
		t.Fatalf("tally: %v", err)
	}
	if got := tr.Data().DailyCigarettes[2]; got != 6 {
		t.Fatalf("dailyCigarettes[2] = %d", got)
	}

	if err := tr.RecordDailyTally(7, 1); err == nil {
		t.Fatal("out-of-range index accepted")
	}
	if err := tr.RecordDailyTally(0, -1); err == nil {
		t.Fatal("negative tally accepted")
	}

	ct := profile.Profile{QuitMethodology: profile.ColdTurkey}
	ct.SmokingProfile.CigsPerDay = 10
	ctTr := NewTracker("u2", ct, NewData(profile.ColdTurkey, 10, 7), &stubMessages{}, &memorySaver{})
	if err := ctTr.RecordDailyTally(0, 1); err != ErrNotTapering {
		t.Fatalf("cold turkey tally err = %v, want ErrNotTapering", err)
	}
}

func TestMoneySavedDerivedFromStreak(t *testing.T) {
	tr := NewTracker("u1", taperingProfile(), Data{}, &stubMessages{}, &memorySaver{})

	for i := 0; i < 3; i++ {
		if err := tr.RecordSmokeFreeDay(); err != nil {
			t.Fatalf("smoke-free day: %v", err)
		}
	}
	// 3 days * 10 cigarettes * 15 per cigarette.
	if got := tr.MoneySaved(); got != 450 {
		t.Fatalf("moneySaved = %v, want 450", got)
	}

	if _, err := tr.RecordRelapse(context.Background()); err != nil {
		t.Fatalf("relapse: %v", err)
	}
	if got := tr.MoneySaved(); got != 0 {
		t.Fatalf("moneySaved after streak reset = %v, want 0", got)
	}
}

func TestMilestones(t *testing.T) {
	got := Milestones(2)
	if len(got) != 3 {
		t.Fatalf("milestones = %d", len(got))
	}
	if !got[0].Achieved || !got[1].Achieved {
		t.Fatalf("streak 2 should earn the 1-day and 2-day milestones: %+v", got)
	}
	if got[2].Achieved {
		t.Fatalf("7-day milestone earned at streak 2: %+v", got[2])
	}

	for _, m := range Milestones(7) {
		if !m.Achieved {
			t.Fatalf("streak 7 should earn every milestone, missing %q", m.Title)
		}
	}
}

func TestDataSnapshotDoesNotAlias(t *testing.T) {
	tr := NewTracker("u1", taperingProfile(), NewData(profile.Tapering, 10, 7), &stubMessages{}, &memorySaver{})
	d := tr.Data()
	d.DailyCigarettes[0] = 99
	if tr.Data().DailyCigarettes[0] == 99 {
		t.Fatal("snapshot aliases the tracker's slice")
	}
}
