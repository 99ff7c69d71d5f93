package llm

import (
	"context"
	"encoding/json"
	"log"

	genai "google.golang.org/genai"

	"breathefree/internal/llmclient"
)

// WithLogging logs request sizes and errors. Provide a custom logger or nil
// to use log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next llmclient.Client) llmclient.Client {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next llmclient.Client
	log  *log.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) GenerateJSON(ctx context.Context, prompt string, input any, schema *genai.Schema) (json.RawMessage, error) {
	in, _ := json.Marshal(input)
	l.log.Printf("LLM json request (%s): %d bytes", l.next.Name(), len(prompt)+len(in))
	raw, err := l.next.GenerateJSON(ctx, prompt, input, schema)
	if err != nil {
		l.log.Printf("LLM json error (%s): %v", l.next.Name(), err)
	}
	return raw, err
}

func (l *logging) GenerateText(ctx context.Context, prompt string) (string, error) {
	l.log.Printf("LLM text request (%s): %d bytes", l.next.Name(), len(prompt))
	out, err := l.next.GenerateText(ctx, prompt)
	if err != nil {
		l.log.Printf("LLM text error (%s): %v", l.next.Name(), err)
	}
	return out, err
}

func (l *logging) Chat(ctx context.Context, system string, history []llmclient.Turn, message string) (string, error) {
	l.log.Printf("LLM chat request (%s): %d turns", l.next.Name(), len(history))
	out, err := l.next.Chat(ctx, system, history, message)
	if err != nil {
		l.log.Printf("LLM chat error (%s): %v", l.next.Name(), err)
	}
	return out, err
}
