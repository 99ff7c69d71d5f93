package coach

import (
	"context"
	"errors"
	"testing"

	"breathefree/internal/llmclient"
	"breathefree/internal/profile"
)

func TestSOSIntervention(t *testing.T) {
	fake := llmclient.NewFakeClient()
	fake.TextResponse = "Notice the urge. Breathe through it."
	c := New(fake, fake, nil)

	got := c.SOSIntervention(context.Background())
	if got != "Notice the urge. Breathe through it." {
		t.Fatalf("intervention = %q", got)
	}
}

func TestSOSInterventionFallback(t *testing.T) {
	fake := llmclient.NewFakeClient()
	fake.Err = errors.New("backend down")
	c := New(fake, fake, nil)

	got := c.SOSIntervention(context.Background())
	if got != sosFallback {
		t.Fatalf("fallback = %q", got)
	}
}

func TestRelapseMessageFallback(t *testing.T) {
	fake := llmclient.NewFakeClient()
	fake.Err = errors.New("backend down")
	c := New(fake, fake, nil)

	got := c.RelapseMessage(context.Background(), profile.ColdTurkey)
	if got != relapseFallback {
		t.Fatalf("fallback = %q", got)
	}
}

func TestRelapseMessage(t *testing.T) {
	fake := llmclient.NewFakeClient()
	fake.TextResponse = "Back on track tomorrow."
	c := New(fake, fake, nil)

	for _, m := range []profile.Methodology{profile.Tapering, profile.ColdTurkey} {
		if got := c.RelapseMessage(context.Background(), m); got != "Back on track tomorrow." {
			t.Fatalf("%s message = %q", m, got)
		}
	}
	if fake.Calls["text"] != 2 {
		t.Fatalf("text calls = %d", fake.Calls["text"])
	}
}
