package profile

import "testing"

func TestToggleTrigger(t *testing.T) {
	var p Profile
	p.ToggleTrigger(TriggerEmotional, "Stress")
	p.ToggleTrigger(TriggerEmotional, "Boredom")
	if got := p.Triggers.Emotional; len(got) != 2 || got[0] != "Stress" || got[1] != "Boredom" {
		t.Fatalf("emotional triggers = %v", got)
	}

	// A second toggle of the same value removes it.
	p.ToggleTrigger(TriggerEmotional, "Stress")
	if got := p.Triggers.Emotional; len(got) != 1 || got[0] != "Boredom" {
		t.Fatalf("after removal = %v", got)
	}

	// Custom free-text entries share the same set semantics.
	p.ToggleTrigger(TriggerContextual, "Morning coffee")
	p.ToggleTrigger(TriggerContextual, "Morning coffee")
	if len(p.Triggers.Contextual) != 0 {
		t.Fatalf("contextual = %v, want empty", p.Triggers.Contextual)
	}

	p.ToggleTrigger(TriggerSocial, "   ")
	if len(p.Triggers.Social) != 0 {
		t.Fatalf("blank value must be ignored, got %v", p.Triggers.Social)
	}
}

func TestToggleHabitAndMotivation(t *testing.T) {
	var p Profile
	p.ToggleHabit("Chew gum")
	p.ToggleHabit("Go for a walk")
	p.ToggleHabit("Chew gum")
	if got := p.ReplacementHabits; len(got) != 1 || got[0] != "Go for a walk" {
		t.Fatalf("habits = %v", got)
	}

	p.ToggleMotivation("Health")
	p.ToggleMotivation("Family")
	if got := p.SmokingProfile.Motivations; len(got) != 2 {
		t.Fatalf("motivations = %v", got)
	}
}

func TestWithDefaults(t *testing.T) {
	p := Profile{Name: "Alex"}
	out := p.WithDefaults()

	if out.Biometrics.Age != DefaultAge {
		t.Fatalf("age = %d, want %d", out.Biometrics.Age, DefaultAge)
	}
	if out.Biometrics.Height != DefaultHeight {
		t.Fatalf("height = %v, want %v", out.Biometrics.Height, DefaultHeight)
	}
	if out.Biometrics.ActivityLevel != DefaultActivityLevel {
		t.Fatalf("activity = %q", out.Biometrics.ActivityLevel)
	}
	if out.Pricing.CigsPerPack != DefaultCigsPerPack {
		t.Fatalf("cigsPerPack = %d", out.Pricing.CigsPerPack)
	}
	if p.Biometrics.Age != 0 {
		t.Fatalf("receiver mutated: age = %d", p.Biometrics.Age)
	}

	// Explicit values survive the defaulting pass.
	p.Biometrics.Age = 44
	p.Pricing.PricePerPack = 550
	out = p.WithDefaults()
	if out.Biometrics.Age != 44 || out.Pricing.PricePerPack != 550 {
		t.Fatalf("explicit values lost: %+v", out)
	}
}

func TestPricePerCigarette(t *testing.T) {
	p := Profile{Pricing: Pricing{PricePerPack: 300, CigsPerPack: 20}}
	if got := p.PricePerCigarette(); got != 15 {
		t.Fatalf("price per cigarette = %v, want 15", got)
	}
	p.Pricing.CigsPerPack = 0
	if got := p.PricePerCigarette(); got != 0 {
		t.Fatalf("zero pack size must yield 0, got %v", got)
	}
}

func TestValidate(t *testing.T) {
	var p Profile
	if err := p.Validate(); err != ErrMethodologyUnset {
		t.Fatalf("err = %v, want ErrMethodologyUnset", err)
	}
	p.QuitMethodology = Tapering
	if err := p.Validate(); err != ErrCigsPerDay {
		t.Fatalf("err = %v, want ErrCigsPerDay", err)
	}
	p.SmokingProfile.CigsPerDay = 10
	if err := p.Validate(); err != nil {
		t.Fatalf("valid profile rejected: %v", err)
	}
}
