// Package llm provides LLM clients and the course advisor built on them.
package llm

import (
	"context"
	"errors"
)

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client defines the interface for LLM providers.
type Client interface {
	// Chat sends messages to the LLM and returns the response.
	Chat(ctx context.Context, messages []Message) (string, error)

	// ChatJSON sends messages and parses the response as JSON into the provided type.
	ChatJSON(ctx context.Context, messages []Message, result any) error
}

// ResponseSchema describes the JSON document a caller expects back.
// Providers with structured output enforce it, the rest receive it as a hint.
type ResponseSchema struct {
	Name        string
	Description string
	Schema      map[string]any
}

// Structured is implemented by reply types that carry their own schema.
type Structured interface {
	ResponseSchema() ResponseSchema
}

var errNoChoices = errors.New("no response choices returned")

func schemaOf(result any) (ResponseSchema, bool) {
	s, ok := result.(Structured)
	if !ok {
		return ResponseSchema{}, false
	}
	return s.ResponseSchema(), true
}
