package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"breathefree/internal/profile"
)

// MessageSource supplies the methodology-tailored supportive message shown
// after a relapse. Implementations must degrade to a fallback string rather
// than fail.
type MessageSource interface {
	RelapseMessage(ctx context.Context, m profile.Methodology) string
}

// Saver persists the aggregate after each mutation.
type Saver interface {
	Save(userID string, d Data) error
}

var (
	// ErrRelapseInFlight rejects a relapse submitted while the previous
	// one is still awaiting its coach message.
	ErrRelapseInFlight = errors.New("progress: relapse logging already in flight")
	ErrNotTapering     = errors.New("progress: daily tally applies to tapering plans only")
)

// Tracker owns the mutating progress events and their arithmetic. Relapse
// and resisted-craving are mutually exclusive outcomes of a single craving
// episode; the craving session enforces that, the tracker just keeps the
// counters independent.
type Tracker struct {
	userID      string
	methodology profile.Methodology
	cigsPerDay  int
	pricePerCig float64
	msgs        MessageSource
	store       Saver

	mu              sync.Mutex
	data            Data
	relapseInFlight bool
}

func NewTracker(userID string, p profile.Profile, d Data, msgs MessageSource, store Saver) *Tracker {
	return &Tracker{
		userID:      userID,
		methodology: p.QuitMethodology,
		cigsPerDay:  p.SmokingProfile.CigsPerDay,
		pricePerCig: p.PricePerCigarette(),
		msgs:        msgs,
		store:       store,
		data:        d,
	}
}

// RecordCravingResisted increments cravingsLogged. The streak is untouched.
func (t *Tracker) RecordCravingResisted(_ context.Context) error {
	t.mu.Lock()
	t.data.CravingsLogged++
	snapshot := t.snapshotLocked()
	t.mu.Unlock()
	return t.persist(snapshot)
}

// RecordRelapse increments relapses, resets the streak to zero, and fetches
// the methodology-tailored coach message. The message is transient UI state,
// dismissed manually by the user; it is never persisted. A second relapse
// submitted while one is pending is rejected.
func (t *Tracker) RecordRelapse(ctx context.Context) (string, error) {
	t.mu.Lock()
	if t.relapseInFlight {
		t.mu.Unlock()
		return "", ErrRelapseInFlight
	}
	t.relapseInFlight = true
	t.mu.Unlock()

	// The message fetch degrades internally; it never fails the event.
	msg := t.msgs.RelapseMessage(ctx, t.methodology)

	t.mu.Lock()
	t.data.Relapses++
	t.data.SmokeFreeStreak = 0
	snapshot := t.snapshotLocked()
	t.relapseInFlight = false
	t.mu.Unlock()

	return msg, t.persist(snapshot)
}

// RecordDailyTally sets the actual cigarette count for a plan day. Tapering
// only; the series is index-aligned with the daily plans.
func (t *Tracker) RecordDailyTally(dayIndex, count int) error {
	if t.methodology != profile.Tapering {
		return ErrNotTapering
	}
	if count < 0 {
		return fmt.Errorf("progress: negative tally %d", count)
	}
	t.mu.Lock()
	if dayIndex < 0 || dayIndex >= len(t.data.DailyCigarettes) {
		t.mu.Unlock()
		return fmt.Errorf("progress: day index %d out of range", dayIndex)
	}
	t.data.DailyCigarettes[dayIndex] = count
	snapshot := t.snapshotLocked()
	t.mu.Unlock()
	return t.persist(snapshot)
}

// RecordSmokeFreeDay advances the streak by one on a clean daily check-in.
func (t *Tracker) RecordSmokeFreeDay() error {
	t.mu.Lock()
	t.data.SmokeFreeStreak++
	snapshot := t.snapshotLocked()
	t.mu.Unlock()
	return t.persist(snapshot)
}

// MoneySaved derives savings from the current streak. Recomputing from the
// streak keeps the figure consistent with streak resets instead of drifting
// as an independently accumulated counter.
func (t *Tracker) MoneySaved() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.moneySavedLocked()
}

func (t *Tracker) moneySavedLocked() float64 {
	return float64(t.data.SmokeFreeStreak) * float64(t.cigsPerDay) * t.pricePerCig
}

// Data returns a snapshot with the derived MoneySaved filled in.
func (t *Tracker) Data() Data {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Milestones evaluates achievements against the current streak.
func (t *Tracker) Milestones() []Milestone {
	t.mu.Lock()
	streak := t.data.SmokeFreeStreak
	t.mu.Unlock()
	return Milestones(streak)
}

func (t *Tracker) snapshotLocked() Data {
	out := t.data
	out.MoneySaved = t.moneySavedLocked()
	out.DailyCigarettes = append([]int(nil), t.data.DailyCigarettes...)
	return out
}

func (t *Tracker) persist(d Data) error {
	if t.store == nil {
		return nil
	}
	return t.store.Save(t.userID, d)
}
