package plan

import (
	"fmt"

	"breathefree/internal/profile"
)

// DefaultHorizon is the canonical plan length in days.
const DefaultHorizon = 7

// ProactiveNudge is a timed supportive message tied to a user trigger.
type ProactiveNudge struct {
	Time    string `json:"time"`
	Message string `json:"message"`
}

// DailyPlan is one day of a QuitPlan. The JSON field names mirror the
// generator's output schema and must stay stable for interoperability.
// CigaretteCeiling is the structured tapering limit; it replaces the old
// practice of extracting the first integer from the goal text.
type DailyPlan struct {
	Day                 int            `json:"day"`
	Goal                string         `json:"goal"`
	MindfulnessExercise string         `json:"mindfulnessExercise"`
	ProactiveNudge      ProactiveNudge `json:"proactiveNudge"`
	CigaretteCeiling    int            `json:"cigaretteCeiling"`
}

// QuitPlan is the generated multi-day behavioral plan. It is created once at
// onboarding completion and read-only afterwards.
type QuitPlan struct {
	Methodology profile.Methodology `json:"methodology"`
	DailyPlans  []DailyPlan         `json:"dailyPlans"`
}

// ValidationError reports a malformed plan shape. It is raised during
// deserialization, before a plan can reach the engine.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "plan: " + e.Reason
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Validate enforces the plan shape invariants: a known methodology, a
// non-empty ordered day sequence with day numbers forming a contiguous
// 1..N run, and non-negative ceilings (zero for every ColdTurkey day).
func (q *QuitPlan) Validate() error {
	if !q.Methodology.Valid() {
		return invalidf("unknown methodology %q", string(q.Methodology))
	}
	if len(q.DailyPlans) == 0 {
		return invalidf("dailyPlans is empty")
	}
	for i, d := range q.DailyPlans {
		if d.Day != i+1 {
			return invalidf("dailyPlans[%d].day = %d, want %d", i, d.Day, i+1)
		}
		if d.Goal == "" {
			return invalidf("dailyPlans[%d].goal is empty", i)
		}
		if d.CigaretteCeiling < 0 {
			return invalidf("dailyPlans[%d].cigaretteCeiling = %d", i, d.CigaretteCeiling)
		}
		if q.Methodology == profile.ColdTurkey && d.CigaretteCeiling != 0 {
			return invalidf("dailyPlans[%d]: cold turkey day with nonzero ceiling", i)
		}
	}
	return nil
}

// Horizon returns the plan length in days.
func (q *QuitPlan) Horizon() int { return len(q.DailyPlans) }
