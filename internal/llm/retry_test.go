package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	genai "google.golang.org/genai"

	"breathefree/internal/llmclient"
)

// flaky fails a fixed number of times before succeeding.
type flaky struct {
	failures int
	err      error
	calls    int
}

func (f *flaky) Name() string { return "flaky" }
func (f *flaky) Close() error { return nil }

func (f *flaky) step() error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return nil
}

func (f *flaky) GenerateJSON(_ context.Context, _ string, _ any, _ *genai.Schema) (json.RawMessage, error) {
	if err := f.step(); err != nil {
		return nil, err
	}
	return json.RawMessage(`{}`), nil
}

func (f *flaky) GenerateText(_ context.Context, _ string) (string, error) {
	if err := f.step(); err != nil {
		return "", err
	}
	return "ok", nil
}

func (f *flaky) Chat(_ context.Context, _ string, _ []llmclient.Turn, _ string) (string, error) {
	if err := f.step(); err != nil {
		return "", err
	}
	return "ok", nil
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	base := &flaky{failures: 2, err: errors.New("transient")}
	c := Retry(3, time.Millisecond)(base)

	out, err := c.GenerateText(context.Background(), "p")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "ok" {
		t.Fatalf("out = %q", out)
	}
	if base.calls != 3 {
		t.Fatalf("calls = %d, want 3", base.calls)
	}
}

func TestRetryGivesUp(t *testing.T) {
	base := &flaky{failures: 10, err: errors.New("transient")}
	c := Retry(3, time.Millisecond)(base)

	if _, err := c.GenerateText(context.Background(), "p"); err == nil {
		t.Fatal("exhausted retries must fail")
	}
	if base.calls != 3 {
		t.Fatalf("calls = %d, want 3", base.calls)
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	base := &flaky{failures: 10, err: llmclient.NewPermanentError(errors.New("bad request"))}
	c := Retry(5, time.Millisecond)(base)

	_, err := c.Chat(context.Background(), "", nil, "m")
	var pErr *llmclient.PermanentError
	if !errors.As(err, &pErr) {
		t.Fatalf("err = %v, want PermanentError", err)
	}
	if base.calls != 1 {
		t.Fatalf("calls = %d, want 1", base.calls)
	}
}

func TestRetryHonorsContext(t *testing.T) {
	base := &flaky{failures: 10, err: errors.New("transient")}
	c := Retry(5, time.Millisecond)(base)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.GenerateText(ctx, "p"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if base.calls != 1 {
		t.Fatalf("calls = %d, want 1", base.calls)
	}
}

func TestChainOrder(t *testing.T) {
	base := llmclient.NewFakeClient()
	var order []string
	mw := func(tag string) Middleware {
		return func(next llmclient.Client) llmclient.Client {
			return &tagging{next: next, tag: tag, order: &order}
		}
	}
	c := Chain(base, mw("outer"), mw("inner"))
	if _, err := c.GenerateText(context.Background(), "p"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Fatalf("order = %v", order)
	}
}

type tagging struct {
	next  llmclient.Client
	tag   string
	order *[]string
}

func (m *tagging) Name() string { return m.next.Name() }
func (m *tagging) Close() error { return m.next.Close() }

func (m *tagging) GenerateJSON(ctx context.Context, prompt string, input any, schema *genai.Schema) (json.RawMessage, error) {
	*m.order = append(*m.order, m.tag)
	return m.next.GenerateJSON(ctx, prompt, input, schema)
}

func (m *tagging) GenerateText(ctx context.Context, prompt string) (string, error) {
	*m.order = append(*m.order, m.tag)
	return m.next.GenerateText(ctx, prompt)
}

func (m *tagging) Chat(ctx context.Context, system string, history []llmclient.Turn, message string) (string, error) {
	*m.order = append(*m.order, m.tag)
	return m.next.Chat(ctx, system, history, message)
}
