package llm

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	genai "google.golang.org/genai"

	"breathefree/internal/llmclient"
)

// Retry retries generate calls up to maxAttempts with exponential backoff
// starting at baseDelay. If context is canceled, it stops immediately.
// Permanent errors are never retried.
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return func(next llmclient.Client) llmclient.Client {
		return &retrying{next: next, max: maxAttempts, base: baseDelay}
	}
}

type retrying struct {
	next llmclient.Client
	max  int
	base time.Duration
}

func (r *retrying) Name() string { return r.next.Name() }
func (r *retrying) Close() error { return r.next.Close() }

func (r *retrying) GenerateJSON(ctx context.Context, prompt string, input any, schema *genai.Schema) (json.RawMessage, error) {
	var out json.RawMessage
	err := r.attempt(ctx, func() error {
		var err error
		out, err = r.next.GenerateJSON(ctx, prompt, input, schema)
		return err
	})
	return out, err
}

func (r *retrying) GenerateText(ctx context.Context, prompt string) (string, error) {
	var out string
	err := r.attempt(ctx, func() error {
		var err error
		out, err = r.next.GenerateText(ctx, prompt)
		return err
	})
	return out, err
}

func (r *retrying) Chat(ctx context.Context, system string, history []llmclient.Turn, message string) (string, error) {
	var out string
	err := r.attempt(ctx, func() error {
		var err error
		out, err = r.next.Chat(ctx, system, history, message)
		return err
	})
	return out, err
}

func (r *retrying) attempt(ctx context.Context, call func() error) error {
	var last error
	for i := 0; i < r.max; i++ {
		err := call()
		if err == nil {
			return nil
		}
		var pErr *llmclient.PermanentError
		if errors.As(err, &pErr) {
			return err
		}
		last = err
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		time.Sleep(r.base * time.Duration(1<<i))
	}
	return last
}
