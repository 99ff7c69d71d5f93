package llmclient

import (
	"context"
	"encoding/json"
	"sync"

	genai "google.golang.org/genai"
)

// FakeClient returns deterministic payloads for offline use and tests.
type FakeClient struct {
	mu sync.Mutex

	// JSONResponse is returned verbatim by GenerateJSON when set.
	JSONResponse json.RawMessage
	// TextResponse is returned by GenerateText and Chat when set.
	TextResponse string
	// Err, when set, is returned by every generate call.
	Err error

	// Calls counts generate invocations by kind.
	Calls map[string]int
}

func NewFakeClient() *FakeClient {
	return &FakeClient{Calls: map[string]int{}}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) record(kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Calls == nil {
		f.Calls = map[string]int{}
	}
	f.Calls[kind]++
}

func (f *FakeClient) GenerateJSON(_ context.Context, _ string, _ any, _ *genai.Schema) (json.RawMessage, error) {
	f.record("json")
	if f.Err != nil {
		return nil, f.Err
	}
	if f.JSONResponse != nil {
		return f.JSONResponse, nil
	}
	return json.RawMessage(`{}`), nil
}

func (f *FakeClient) GenerateText(_ context.Context, _ string) (string, error) {
	f.record("text")
	if f.Err != nil {
		return "", f.Err
	}
	if f.TextResponse != "" {
		return f.TextResponse, nil
	}
	return "fake response", nil
}

func (f *FakeClient) Chat(_ context.Context, _ string, _ []Turn, _ string) (string, error) {
	f.record("chat")
	if f.Err != nil {
		return "", f.Err
	}
	if f.TextResponse != "" {
		return f.TextResponse, nil
	}
	return "fake reply", nil
}
