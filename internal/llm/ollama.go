package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// OllamaClient talks to a local Ollama server through langchaingo.
// Ollama's JSON mode takes no schema, so structured replies get the schema
// as a trailing system message instead.
type OllamaClient struct {
	llm       *ollama.LLM
	model     string
	serverURL string
}

// NewOllamaClient creates a client for model served at serverURL.
func NewOllamaClient(model, serverURL string) (*OllamaClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("ollama model is required")
	}
	if serverURL == "" {
		serverURL = defaultOllamaBaseURL
	}

	llm, err := ollama.New(ollama.WithModel(model), ollama.WithServerURL(serverURL))
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}
	return &OllamaClient{llm: llm, model: model, serverURL: serverURL}, nil
}

// Chat sends messages and returns the reply text.
func (c *OllamaClient) Chat(ctx context.Context, messages []Message) (string, error) {
	return c.generate(ctx, messages)
}

// ChatJSON runs in JSON mode and decodes the reply into result.
func (c *OllamaClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	if s, ok := schemaOf(result); ok {
		messages = withSchemaHint(messages, s)
	}
	content, err := c.generate(ctx, messages, llms.WithJSONMode())
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}

func (c *OllamaClient) generate(ctx context.Context, messages []Message, opts ...llms.CallOption) (string, error) {
	opts = append(opts, llms.WithModel(c.model))
	resp, err := c.llm.GenerateContent(ctx, toLangChainMessages(messages), opts...)
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ollama: %w", errNoChoices)
	}
	return resp.Choices[0].Content, nil
}

// withSchemaHint returns a copy of messages ending with the reply schema.
func withSchemaHint(messages []Message, s ResponseSchema) []Message {
	data, err := json.Marshal(s.Schema)
	if err != nil {
		return messages
	}
	hint := Message{
		Role:    "system",
		Content: fmt.Sprintf("Reply with one JSON object (%s) matching this JSON schema:\n%s", s.Description, data),
	}
	out := make([]Message, 0, len(messages)+1)
	out = append(out, messages...)
	return append(out, hint)
}

var langChainRoles = map[string]llms.ChatMessageType{
	"system":    llms.ChatMessageTypeSystem,
	"assistant": llms.ChatMessageTypeAI,
	"user":      llms.ChatMessageTypeHuman,
}

func toLangChainMessages(messages []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, len(messages))
	for i, msg := range messages {
		role, ok := langChainRoles[strings.ToLower(msg.Role)]
		if !ok {
			role = llms.ChatMessageTypeHuman
		}
		out[i] = llms.TextParts(role, msg.Content)
	}
	return out
}
