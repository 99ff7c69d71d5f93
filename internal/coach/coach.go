// Package coach produces the supportive content the app surfaces at the
// moments that matter most: craving SOS interventions, post-relapse messages,
// and the ongoing chat with the BreatheFree persona. Every generation path
// degrades to a canned message rather than surfacing an error to the user.
package coach

import (
	"context"
	"log"
	"strings"

	"breathefree/internal/llmclient"
	"breathefree/internal/profile"
)

const (
	sosPrompt = "Generate a very short (2-3 sentences) 'urge surfing' mindfulness exercise " +
		"for someone experiencing an intense cigarette craving right now. " +
		"The tone should be calming and direct."

	sosFallback = "Take a deep breath. Inhale for 4 seconds, hold for 4, and exhale for 6. You've got this."

	relapseTaperingPrompt = "Generate a short, empathetic message for a user who exceeded their " +
		"daily cigarette limit. The tone is non-judgmental, focusing on getting back on track. " +
		"Acknowledge it's part of the journey."

	relapseColdTurkeyPrompt = "Generate a supportive but firm message for a user on a 'Cold Turkey' " +
		"plan who had a cigarette. Emphasize recommitting and starting the challenge again tomorrow. " +
		"Acknowledge the setback without dwelling on failure."

	relapseFallback = "It's okay. Quitting is a process with ups and downs. " +
		"The most important thing is to not give up. Let's get back on track."
)

// Coach wraps generation clients with the cessation prompts. SOS uses the
// lightest model for latency; relapse messages use the standard chat model.
type Coach struct {
	sosLLM     llmclient.Client
	messageLLM llmclient.Client
	logger     *log.Logger
}

func New(sosLLM, messageLLM llmclient.Client, logger *log.Logger) *Coach {
	return &Coach{sosLLM: sosLLM, messageLLM: messageLLM, logger: logger}
}

// SOSIntervention returns a brief urge-surfing exercise for an active craving.
func (c *Coach) SOSIntervention(ctx context.Context) string {
	text, err := c.sosLLM.GenerateText(ctx, sosPrompt)
	if err != nil || strings.TrimSpace(text) == "" {
		c.logf("coach: sos intervention fallback: %v", err)
		return sosFallback
	}
	return text
}

// RelapseMessage returns a supportive message tailored to the quit
// methodology. It satisfies progress.MessageSource.
func (c *Coach) RelapseMessage(ctx context.Context, m profile.Methodology) string {
	prompt := relapseColdTurkeyPrompt
	if m == profile.Tapering {
		prompt = relapseTaperingPrompt
	}
	text, err := c.messageLLM.GenerateText(ctx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		c.logf("coach: relapse message fallback: %v", err)
		return relapseFallback
	}
	return text
}

func (c *Coach) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
