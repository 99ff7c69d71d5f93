package plangen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"breathefree/internal/llmclient"
	"breathefree/internal/profile"
)

func testProfile() profile.Profile {
	p := profile.Profile{
		Name:            "Alex",
		QuitMethodology: profile.Tapering,
	}
	p.SmokingProfile.CigsPerDay = 12
	p.SmokingProfile.YearsSmoking = 6
	p.Triggers.Emotional = []string{"Stress"}
	p.ReplacementHabits = []string{"Chew gum"}
	return p.WithDefaults()
}

func planJSON(methodology string, days int) json.RawMessage {
	var b strings.Builder
	b.WriteString(`{"methodology":"` + methodology + `","dailyPlans":[`)
	for i := 0; i < days; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		ceiling := 10 - i
		if methodology == string(profile.ColdTurkey) {
			ceiling = 0
		}
		fmt.Fprintf(&b, `{"day":%d,"goal":"Day %d goal","mindfulnessExercise":"Breathe",`+
			`"proactiveNudge":{"time":"Morning","message":"Keep going"},"cigaretteCeiling":%d}`,
			i+1, i+1, ceiling)
	}
	b.WriteString("]}")
	return json.RawMessage(b.String())
}

func TestGenerate(t *testing.T) {
	fake := llmclient.NewFakeClient()
	fake.JSONResponse = planJSON(string(profile.Tapering), 7)

	c := New(fake, 0)
	out, err := c.Generate(context.Background(), testProfile())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out.Horizon() != 7 {
		t.Fatalf("horizon = %d", out.Horizon())
	}
	if out.DailyPlans[0].CigaretteCeiling != 10 {
		t.Fatalf("day 1 ceiling = %d", out.DailyPlans[0].CigaretteCeiling)
	}
	if fake.Calls["json"] != 1 {
		t.Fatalf("json calls = %d", fake.Calls["json"])
	}
}

func TestGenerateInvalidProfile(t *testing.T) {
	c := New(llmclient.NewFakeClient(), 0)
	_, err := c.Generate(context.Background(), profile.Profile{})
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("err = %v, want GenerationError", err)
	}
	if !errors.Is(err, profile.ErrMethodologyUnset) {
		t.Fatalf("cause = %v", err)
	}
}

func TestGenerateLLMFailure(t *testing.T) {
	fake := llmclient.NewFakeClient()
	fake.Err = errors.New("backend down")

	c := New(fake, 0)
	_, err := c.Generate(context.Background(), testProfile())
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("err = %v, want GenerationError", err)
	}
}

func TestGenerateRejectsMalformedPlans(t *testing.T) {
	cases := []struct {
		name string
		raw  json.RawMessage
	}{
		{"methodology mismatch", planJSON(string(profile.ColdTurkey), 7)},
		{"short horizon", planJSON(string(profile.Tapering), 5)},
		{"unknown field", json.RawMessage(`{"methodology":"Tapering","dailyPlans":[],"extra":1}`)},
		{"empty days", json.RawMessage(`{"methodology":"Tapering","dailyPlans":[]}`)},
		{"not json", json.RawMessage(`the model apologizes`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := llmclient.NewFakeClient()
			fake.JSONResponse = tc.raw
			c := New(fake, 0)
			_, err := c.Generate(context.Background(), testProfile())
			var genErr *GenerationError
			if !errors.As(err, &genErr) {
				t.Fatalf("err = %v, want GenerationError", err)
			}
		})
	}
}

func TestPromptIsDeterministic(t *testing.T) {
	c := New(llmclient.NewFakeClient(), 0)
	p := testProfile()
	first := c.Prompt(p)
	if first != c.Prompt(p) {
		t.Fatal("prompt differs between calls for the same profile")
	}
	if !strings.Contains(first, "Tapering") {
		t.Fatalf("prompt missing methodology:\n%s", first)
	}
	if !strings.Contains(first, "cigaretteCeiling") {
		t.Fatalf("prompt missing ceiling instruction:\n%s", first)
	}
}
