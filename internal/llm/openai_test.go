package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/openai/openai-go/option"
)

// chatServer answers chat completions with reply and records each request body.
type chatServer struct {
	*httptest.Server
	reply    string
	choices  bool
	mu       sync.Mutex
	requests []map[string]any
	headers  []http.Header
}

func (s *chatServer) request(i int) (map[string]any, http.Header) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[i], s.headers[i]
}

func newChatServer(t *testing.T, reply string) *chatServer {
	t.Helper()
	s := &chatServer{reply: reply, choices: true}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.requests = append(s.requests, body)
		s.headers = append(s.headers, r.Header.Clone())
		withChoices := s.choices
		s.mu.Unlock()

		choices := []map[string]any{}
		if withChoices {
			choices = append(choices, map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": s.reply},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": choices,
		})
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestOpenAIClient(t *testing.T, srv *chatServer, jsonObject bool) *OpenAIClient {
	t.Helper()
	c, err := NewOpenAIClient(Endpoint{
		Provider:   "test",
		BaseURL:    srv.URL + "/v1",
		APIKey:     "secret",
		Model:      "test-model",
		Headers:    map[string]string{"Editor-Version": "UniFlow/1.0"},
		JSONObject: jsonObject,
	}, option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("NewOpenAIClient() error = %v", err)
	}
	return c
}

func responseFormat(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	rf, ok := body["response_format"].(map[string]any)
	if !ok {
		t.Fatalf("request has no response_format: %v", body)
	}
	return rf
}

func TestOpenAIClient_AdviceUsesJSONSchema(t *testing.T) {
	srv := newChatServer(t, "```json\n{\"placements\":[{\"course_id\":\"c3\",\"day\":\"Thu\",\"start_hour\":14}],\"warnings\":[],\"suggestions\":[\"rest on friday\"]}\n```")
	client := newTestOpenAIClient(t, srv, true)

	var resp AdviceResponse
	err := client.ChatJSON(context.Background(), []Message{
		{Role: "system", Content: "plan"},
		{Role: "user", Content: "physics on thursday"},
	}, &resp)
	if err != nil {
		t.Fatalf("ChatJSON() error = %v", err)
	}
	if len(resp.Placements) != 1 || resp.Placements[0].CourseID != "c3" || resp.Placements[0].StartHour != 14 {
		t.Errorf("unexpected placements %+v", resp.Placements)
	}

	body, h := srv.request(0)
	if body["model"] != "test-model" {
		t.Errorf("model = %v", body["model"])
	}
	rf := responseFormat(t, body)
	if rf["type"] != "json_schema" {
		t.Fatalf("response_format type = %v, want json_schema", rf["type"])
	}
	schema, _ := rf["json_schema"].(map[string]any)
	if schema["name"] != "course_placements" {
		t.Errorf("schema name = %v", schema["name"])
	}
	messages, _ := body["messages"].([]any)
	if first, _ := messages[0].(map[string]any); len(messages) != 2 || first["role"] != "system" {
		t.Errorf("unexpected messages %v", messages)
	}

	if h.Get("Authorization") != "Bearer secret" || h.Get("Editor-Version") != "UniFlow/1.0" {
		t.Errorf("unexpected headers %v", h)
	}
}

func TestOpenAIClient_ResponseFormats(t *testing.T) {
	tests := []struct {
		name       string
		jsonObject bool
		json       bool
		want       string
	}{
		{name: "plain chat", jsonObject: true, want: ""},
		{name: "json object", jsonObject: true, json: true, want: "json_object"},
		{name: "json without object mode", json: true, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newChatServer(t, `{"ok": true}`)
			client := newTestOpenAIClient(t, srv, tt.jsonObject)

			ctx := context.Background()
			msgs := []Message{{Role: "user", Content: "hi"}}
			if tt.json {
				var out map[string]any
				if err := client.ChatJSON(ctx, msgs, &out); err != nil || out["ok"] != true {
					t.Fatalf("ChatJSON() = %v, %v", out, err)
				}
			} else if _, err := client.Chat(ctx, msgs); err != nil {
				t.Fatalf("Chat() error = %v", err)
			}

			body, _ := srv.request(0)
			rf, ok := body["response_format"].(map[string]any)
			if tt.want == "" {
				if ok {
					t.Errorf("expected no response_format, got %v", rf)
				}
				return
			}
			if rf["type"] != tt.want {
				t.Errorf("response_format type = %v, want %s", rf["type"], tt.want)
			}
		})
	}
}

func TestOpenAIClient_Errors(t *testing.T) {
	srv := newChatServer(t, "")
	srv.mu.Lock()
	srv.choices = false
	srv.mu.Unlock()
	client := newTestOpenAIClient(t, srv, false)

	if _, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}); !errors.Is(err, errNoChoices) {
		t.Errorf("expected errNoChoices, got %v", err)
	}

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer failing.Close()
	broken, err := NewOpenAIClient(Endpoint{Provider: "lmstudio", BaseURL: failing.URL + "/v1", APIKey: "k", Model: "m"}, option.WithMaxRetries(0))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := broken.Chat(context.Background(), nil); err == nil || !strings.Contains(err.Error(), "lmstudio chat completion") {
		t.Errorf("expected a provider-labelled error, got %v", err)
	}
}

func TestNewOpenAIClient_Validation(t *testing.T) {
	if _, err := NewOpenAIClient(Endpoint{Provider: "lmstudio", BaseURL: "http://x"}); err == nil {
		t.Error("expected error for empty model")
	}
	if _, err := NewOpenAIClient(Endpoint{Provider: "lmstudio", Model: "m"}); err == nil {
		t.Error("expected error for empty base url")
	}
}
