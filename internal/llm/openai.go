package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Endpoint configures an OpenAI-compatible chat completions backend.
type Endpoint struct {
	Provider string // label used in errors
	BaseURL  string
	APIKey   string
	Model    string
	Headers  map[string]string
	// JSONObject requests response_format json_object for replies without a
	// schema. LM Studio rejects it and only understands json_schema.
	JSONObject bool
}

// OpenAIClient talks to Copilot, LM Studio or any other server speaking the
// OpenAI chat completions protocol.
type OpenAIClient struct {
	endpoint Endpoint
	client   openai.Client
}

// NewOpenAIClient builds a client for ep. Extra request options are applied
// last, after the endpoint settings.
func NewOpenAIClient(ep Endpoint, opts ...option.RequestOption) (*OpenAIClient, error) {
	if strings.TrimSpace(ep.Model) == "" {
		return nil, fmt.Errorf("%s model is required", ep.Provider)
	}
	if ep.BaseURL == "" {
		return nil, fmt.Errorf("%s base url is required", ep.Provider)
	}

	reqOpts := []option.RequestOption{
		option.WithBaseURL(ep.BaseURL),
		option.WithAPIKey(ep.APIKey),
	}
	keys := make([]string, 0, len(ep.Headers))
	for k := range ep.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		reqOpts = append(reqOpts, option.WithHeader(k, ep.Headers[k]))
	}
	reqOpts = append(reqOpts, opts...)

	return &OpenAIClient{endpoint: ep, client: openai.NewClient(reqOpts...)}, nil
}

// Endpoint returns the settings the client was built with.
func (c *OpenAIClient) Endpoint() Endpoint {
	return c.endpoint
}

// Chat sends messages and returns the reply text.
func (c *OpenAIClient) Chat(ctx context.Context, messages []Message) (string, error) {
	return c.complete(ctx, messages, openai.ChatCompletionNewParamsResponseFormatUnion{})
}

// ChatJSON asks for a JSON reply and decodes it into result. Results that
// implement Structured are sent as a json_schema response format.
func (c *OpenAIClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.complete(ctx, messages, c.responseFormat(result))
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}

func (c *OpenAIClient) responseFormat(result any) openai.ChatCompletionNewParamsResponseFormatUnion {
	if s, ok := schemaOf(result); ok {
		return openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        s.Name,
					Description: openai.String(s.Description),
					Schema:      s.Schema,
				},
			},
		}
	}
	if c.endpoint.JSONObject {
		return openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{}
}

func (c *OpenAIClient) complete(ctx context.Context, messages []Message, format openai.ChatCompletionNewParamsResponseFormatUnion) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:          c.endpoint.Model,
		Messages:       toOpenAIMessages(messages),
		ResponseFormat: format,
	})
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", c.endpoint.Provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", c.endpoint.Provider, errNoChoices)
	}
	return resp.Choices[0].Message.Content, nil
}

// toOpenAIMessages converts chat messages. Unknown roles are sent as user
// messages.
func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case "system":
			out[i] = openai.SystemMessage(msg.Content)
		case "assistant":
			out[i] = openai.AssistantMessage(msg.Content)
		default:
			out[i] = openai.UserMessage(msg.Content)
		}
	}
	return out
}
