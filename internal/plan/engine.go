package plan

import "time"

// Engine exposes the "current day" view over a QuitPlan. The current day is
// the number of whole days since the quit start, modulo the plan horizon, so
// the plan progresses with user tenure instead of jumping with the calendar
// weekday.
type Engine struct {
	plan      QuitPlan
	quitStart time.Time

	now func() time.Time // test seam
}

func NewEngine(p QuitPlan, quitStart time.Time) *Engine {
	return &Engine{
		plan:      p,
		quitStart: quitStart,
		now:       time.Now,
	}
}

// DayIndex returns today's zero-based index into the plan.
func (e *Engine) DayIndex() int {
	n := len(e.plan.DailyPlans)
	if n == 0 {
		return 0
	}
	elapsed := int(e.now().Sub(e.quitStart).Hours() / 24)
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed % n
}

// TodayPlan selects the daily plan for the current day. The second return is
// false when no plan is available; callers render a placeholder instead of
// failing.
func (e *Engine) TodayPlan() (DailyPlan, bool) {
	if e == nil || len(e.plan.DailyPlans) == 0 {
		return DailyPlan{}, false
	}
	return e.plan.DailyPlans[e.DayIndex()], true
}

// WeeklyView returns the full ordered plan. Pure projection, no mutation.
func (e *Engine) WeeklyView() []DailyPlan {
	if e == nil {
		return nil
	}
	out := make([]DailyPlan, len(e.plan.DailyPlans))
	copy(out, e.plan.DailyPlans)
	return out
}

// Ceiling returns the structured cigarette ceiling for a zero-based day
// index, or 0 when the index is out of range.
func (e *Engine) Ceiling(dayIndex int) int {
	if e == nil || dayIndex < 0 || dayIndex >= len(e.plan.DailyPlans) {
		return 0
	}
	return e.plan.DailyPlans[dayIndex].CigaretteCeiling
}

// Plan returns the underlying plan.
func (e *Engine) Plan() QuitPlan { return e.plan }
