package plangen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	genai "google.golang.org/genai"

	"breathefree/internal/llmclient"
	"breathefree/internal/plan"
	"breathefree/internal/profile"
)

// GenerationError reports a failed or non-conforming plan generation. The
// caller keeps the user on the onboarding step; the profile is preserved for
// retry and no partial plan is ever committed.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "plangen: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Client turns a Profile into a validated QuitPlan via the external
// generative service.
type Client struct {
	llm     llmclient.Client
	horizon int
}

func New(llm llmclient.Client, horizon int) *Client {
	if horizon <= 0 {
		horizon = plan.DefaultHorizon
	}
	return &Client{llm: llm, horizon: horizon}
}

// Generate builds the prompt from the profile, requests schema-constrained
// JSON, and returns the decoded, validated plan. The prompt is a pure
// function of the profile, so retries are idempotent.
func (c *Client) Generate(ctx context.Context, p profile.Profile) (plan.QuitPlan, error) {
	if err := p.Validate(); err != nil {
		return plan.QuitPlan{}, &GenerationError{Err: err}
	}

	raw, err := c.llm.GenerateJSON(ctx, c.Prompt(p), nil, quitPlanSchema(c.horizon))
	if err != nil {
		return plan.QuitPlan{}, &GenerationError{Err: err}
	}

	var out plan.QuitPlan
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return plan.QuitPlan{}, &GenerationError{Err: fmt.Errorf("decode plan: %w", err)}
	}
	if err := out.Validate(); err != nil {
		return plan.QuitPlan{}, &GenerationError{Err: err}
	}
	if out.Methodology != p.QuitMethodology {
		return plan.QuitPlan{}, &GenerationError{Err: fmt.Errorf("methodology mismatch: got %q, want %q", out.Methodology, p.QuitMethodology)}
	}
	if out.Horizon() != c.horizon {
		return plan.QuitPlan{}, &GenerationError{Err: fmt.Errorf("horizon mismatch: got %d days, want %d", out.Horizon(), c.horizon)}
	}
	return out, nil
}

// Prompt renders the coaching instruction for the given profile.
func (c *Client) Prompt(p profile.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an empathetic and expert AI smoking cessation coach named 'BreatheFree'.\n")
	fmt.Fprintf(&b, "Create a personalized %d-day quit plan for the user below.\n", c.horizon)
	fmt.Fprintf(&b, "The tone must be supportive, non-judgmental, and highly encouraging.\n\n")

	fmt.Fprintf(&b, "User Profile:\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.Name)
	fmt.Fprintf(&b, "- Chosen Quit Method: %s\n", p.QuitMethodology)
	fmt.Fprintf(&b, "- Smoking History: %d cigarettes/day for %.1f years\n",
		p.SmokingProfile.CigsPerDay, p.SmokingProfile.YearsSmoking)
	fmt.Fprintf(&b, "- Motivations: %s\n", strings.Join(p.SmokingProfile.Motivations, ", "))
	fmt.Fprintf(&b, "- Contextual Triggers: %s\n", strings.Join(p.Triggers.Contextual, ", "))
	fmt.Fprintf(&b, "- Emotional Triggers: %s\n", strings.Join(p.Triggers.Emotional, ", "))
	fmt.Fprintf(&b, "- Preferred Replacement Habits: %s\n\n", strings.Join(p.ReplacementHabits, ", "))

	fmt.Fprintf(&b, "Instructions:\n")
	fmt.Fprintf(&b, "1. Adhere to the chosen quit methodology (%s).\n", p.QuitMethodology)
	if p.QuitMethodology == profile.Tapering {
		fmt.Fprintf(&b, "2. Create a realistic daily reduction in the cigarette limit, starting slightly below %d per day, and set cigaretteCeiling to that limit on every day. The limits must never increase from one day to the next.\n",
			p.SmokingProfile.CigsPerDay)
	} else {
		fmt.Fprintf(&b, "2. The goal is always zero cigarettes; set cigaretteCeiling to 0 on every day and focus on coping mechanisms.\n")
	}
	fmt.Fprintf(&b, "3. Tailor each proactiveNudge message to one of the user's specific triggers.\n")
	fmt.Fprintf(&b, "4. Keep all text concise, positive, and easy to understand on a phone.\n")
	fmt.Fprintf(&b, "5. Number the days 1 through %d in order.\n", c.horizon)
	return b.String()
}

// quitPlanSchema constrains the generator output to the QuitPlan wire shape.
func quitPlanSchema(horizon int) *genai.Schema {
	return &genai.Schema{
		Type: "object",
		Properties: map[string]*genai.Schema{
			"methodology": {
				Type:        "string",
				Enum:        []string{string(profile.Tapering), string(profile.ColdTurkey)},
				Description: "The quitting methodology chosen by the user.",
			},
			"dailyPlans": {
				Type:        "array",
				Description: fmt.Sprintf("A %d-day plan to help the user quit smoking.", horizon),
				Items: &genai.Schema{
					Type: "object",
					Properties: map[string]*genai.Schema{
						"day": {
							Type:        "integer",
							Description: fmt.Sprintf("The day number (1-%d).", horizon),
						},
						"goal": {
							Type:        "string",
							Description: "The main goal for the day.",
						},
						"mindfulnessExercise": {
							Type:        "string",
							Description: "A short, actionable mindfulness exercise for the day.",
						},
						"proactiveNudge": {
							Type: "object",
							Properties: map[string]*genai.Schema{
								"time": {
									Type:        "string",
									Description: "A time of day to send a nudge (e.g., 'Morning', 'After Lunch').",
								},
								"message": {
									Type:        "string",
									Description: "A supportive, proactive message based on the user's triggers.",
								},
							},
							Required: []string{"time", "message"},
						},
						"cigaretteCeiling": {
							Type:        "integer",
							Description: "Maximum cigarettes permitted this day. 0 for cold turkey.",
						},
					},
					Required: []string{"day", "goal", "mindfulnessExercise", "proactiveNudge", "cigaretteCeiling"},
				},
			},
		},
		Required: []string{"methodology", "dailyPlans"},
	}
}
