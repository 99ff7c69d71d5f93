package llmclient

import (
	"context"
	"encoding/json"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client. It only
// focuses on the API call itself; retries and logging are middleware.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

func NewGeminiClient(ctx context.Context, model string) (*GeminiClient, error) {
	// The genai client reads GEMINI_API_KEY from the environment.
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

// NewGeminiClientWith shares an existing genai client across model wrappers.
func NewGeminiClientWith(cli *genai.Client, model string) *GeminiClient {
	return &GeminiClient{cli: cli, model: model}
}

// WithModel returns a wrapper for another model on the same client.
func (g *GeminiClient) WithModel(model string) *GeminiClient {
	return &GeminiClient{cli: g.cli, model: model}
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string, input any, schema *genai.Schema) (json.RawMessage, error) {
	full := prompt
	if input != nil {
		in, err := json.MarshalIndent(input, "", "  ")
		if err != nil {
			return nil, NewPermanentError(err)
		}
		full = prompt + "\n\n[INPUT JSON]\n" + string(in)
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(full, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		},
	)
	if err != nil {
		return nil, err
	}
	txt, err := firstText(resp)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(txt), nil
}

func (g *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		nil,
	)
	if err != nil {
		return "", err
	}
	return firstText(resp)
}

func (g *GeminiClient) Chat(ctx context.Context, system string, history []Turn, message string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, t := range history {
		contents = append(contents, genai.NewContentFromText(t.Text, chatRole(t.Role)))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	var cfg *genai.GenerateContentConfig
	if strings.TrimSpace(system) != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleModel),
		}
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", err
	}
	return firstText(resp)
}

// chatRole maps a stored transcript role onto the wire role type.
func chatRole(role string) genai.Role {
	if role == "model" {
		return genai.RoleModel
	}
	return genai.RoleUser
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	txt := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if txt == "" {
		return "", ErrEmptyResponse
	}
	return txt, nil
}
