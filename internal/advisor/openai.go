package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultModel = "gpt-4o-mini"
	noReply      = "No hay respuesta"
)

// OpenAIProvider asks a chat completion model, passing the user's budget as
// a system message.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider returns ErrNotConfigured when apiKey is empty. baseURL
// overrides the API endpoint and may be empty.
func NewOpenAIProvider(apiKey, model, baseURL string) (*OpenAIProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("openai: %w", ErrNotConfigured)
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

func (p *OpenAIProvider) Chat(ctx context.Context, messages []Message, c *Context) (string, error) {
	sys, err := systemPrompt(c)
	if err != nil {
		return "", err
	}
	req := openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)+1),
	}
	req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: sys})
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return noReply, nil
	}
	return resp.Choices[0].Message.Content, nil
}

func systemPrompt(c *Context) (string, error) {
	if c == nil {
		c = &Context{}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode advisor context: %w", err)
	}
	return "Eres un asesor financiero. Contexto: " + string(b), nil
}
