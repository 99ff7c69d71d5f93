package profile

import (
	"errors"
	"strings"
)

// Methodology is the cessation strategy chosen during onboarding.
// The JSON values are part of the generator contract and must not change.
type Methodology string

const (
	Tapering   Methodology = "Tapering"
	ColdTurkey Methodology = "Cold Turkey"
)

func (m Methodology) Valid() bool {
	return m == Tapering || m == ColdTurkey
}

// TriggerCategory selects one of the four trigger sets on a profile.
type TriggerCategory string

const (
	TriggerContextual TriggerCategory = "contextual"
	TriggerEmotional  TriggerCategory = "emotional"
	TriggerLocation   TriggerCategory = "location"
	TriggerSocial     TriggerCategory = "social"
)

type SmokingProfile struct {
	CigsPerDay   int      `json:"cigsPerDay"`
	YearsSmoking float64  `json:"yearsSmoking"`
	Motivations  []string `json:"motivations"`
}

type Biometrics struct {
	Age           int     `json:"age"`
	Height        float64 `json:"height"`
	Weight        float64 `json:"weight"`
	ActivityLevel string  `json:"activityLevel"`
}

type Triggers struct {
	Contextual []string `json:"contextual"`
	Emotional  []string `json:"emotional"`
	Location   []string `json:"location"`
	Social     []string `json:"social"`
}

type PositiveGoals struct {
	Activities []string `json:"activities"`
	Content    []string `json:"content"`
}

type Pricing struct {
	PricePerPack float64 `json:"pricePerPack"`
	CigsPerPack  int     `json:"cigsPerPack"`
}

// Profile holds the onboarding inputs consumed by plan generation.
// It is treated as immutable once onboarding completes.
type Profile struct {
	Name              string         `json:"name"`
	SmokingProfile    SmokingProfile `json:"smokingProfile"`
	Biometrics        Biometrics     `json:"biometrics"`
	Triggers          Triggers       `json:"triggers"`
	PositiveGoals     PositiveGoals  `json:"positiveGoals"`
	ReplacementHabits []string       `json:"replacementHabits"`
	Pricing           Pricing        `json:"pricing"`
	QuitMethodology   Methodology    `json:"quitMethodology"`
}

// ToggleTrigger adds value to the category's set, or removes it when already
// present. Curated options and custom free-text entries share the same set;
// duplicates are rejected by exact string match.
func (p *Profile) ToggleTrigger(category TriggerCategory, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	switch category {
	case TriggerContextual:
		p.Triggers.Contextual = toggle(p.Triggers.Contextual, value)
	case TriggerEmotional:
		p.Triggers.Emotional = toggle(p.Triggers.Emotional, value)
	case TriggerLocation:
		p.Triggers.Location = toggle(p.Triggers.Location, value)
	case TriggerSocial:
		p.Triggers.Social = toggle(p.Triggers.Social, value)
	}
}

// ToggleHabit applies the same toggle-in-set semantics to replacement habits.
func (p *Profile) ToggleHabit(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	p.ReplacementHabits = toggle(p.ReplacementHabits, value)
}

// ToggleMotivation applies the same semantics to stated motivations.
func (p *Profile) ToggleMotivation(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	p.SmokingProfile.Motivations = toggle(p.SmokingProfile.Motivations, value)
}

func toggle(set []string, value string) []string {
	for i, v := range set {
		if v == value {
			return append(set[:i], set[i+1:]...)
		}
	}
	return append(set, value)
}

// PricePerCigarette derives the unit price used by savings math.
func (p *Profile) PricePerCigarette() float64 {
	if p.Pricing.CigsPerPack <= 0 {
		return 0
	}
	return p.Pricing.PricePerPack / float64(p.Pricing.CigsPerPack)
}

var (
	ErrMethodologyUnset = errors.New("profile: quit methodology is not set")
	ErrCigsPerDay       = errors.New("profile: cigsPerDay must be at least 1")
)

// Validate checks the invariants required before plan generation.
// Out-of-range biometric values are intentionally not rejected.
func (p *Profile) Validate() error {
	if !p.QuitMethodology.Valid() {
		return ErrMethodologyUnset
	}
	if p.SmokingProfile.CigsPerDay < 1 {
		return ErrCigsPerDay
	}
	return nil
}
