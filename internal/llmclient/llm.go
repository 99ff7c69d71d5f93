package llmclient

import (
	"context"
	"encoding/json"
	"errors"

	genai "google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("empty response from LLM")

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// Turn is one prior exchange in a chat history.
type Turn struct {
	Role string // "user" or "model"
	Text string
}

// Client is the contract against the external generative service. Cross-
// cutting concerns (retries, logging) are applied via llm.Middleware.
type Client interface {
	Name() string
	Close() error

	// GenerateJSON asks for application/json constrained to schema and
	// returns the raw JSON payload.
	GenerateJSON(ctx context.Context, prompt string, input any, schema *genai.Schema) (json.RawMessage, error)

	// GenerateText returns a short free-text completion.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// Chat sends message with the given system instruction and prior
	// history and returns the model reply.
	Chat(ctx context.Context, system string, history []Turn, message string) (string, error)
}
