package progress

import "breathefree/internal/profile"

// Data is the mutable aggregate for one quit attempt. MoneySaved is derived
// from the streak on read; the stored value is only a display snapshot.
type Data struct {
	SmokeFreeStreak int     `json:"smokeFreeStreak"`
	MoneySaved      float64 `json:"moneySaved"`
	CravingsLogged  int     `json:"cravingsLogged"`
	Relapses        int     `json:"relapses"`
	DailyCigarettes []int   `json:"dailyCigarettes"`
}

// NewData returns the zeroed aggregate for a fresh quit attempt. Under
// Tapering, dailyCigarettes is pre-filled with the profile's baseline for
// the whole plan horizon; under ColdTurkey it stays empty.
func NewData(m profile.Methodology, cigsPerDay, horizon int) Data {
	d := Data{}
	if m == profile.Tapering {
		d.DailyCigarettes = make([]int, horizon)
		for i := range d.DailyCigarettes {
			d.DailyCigarettes[i] = cigsPerDay
		}
	}
	return d
}

// Milestone is a streak-gated achievement shown on the progress view.
type Milestone struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StreakDays  int    `json:"streakDays"`
	Achieved    bool   `json:"achieved"`
}

var milestoneDefs = []Milestone{
	{Title: "24 Hours Smoke-Free", Description: "The first day is the hardest. You did it!", StreakDays: 1},
	{Title: "Health Boost", Description: "Your heart rate and blood pressure are dropping.", StreakDays: 2},
	{Title: "Breathing Easier", Description: "Your lung function is starting to improve.", StreakDays: 7},
}

// Milestones evaluates the achievement list against a streak.
func Milestones(streak int) []Milestone {
	out := make([]Milestone, len(milestoneDefs))
	copy(out, milestoneDefs)
	for i := range out {
		out[i].Achieved = streak >= out[i].StreakDays
	}
	return out
}
