package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	copilotTokenURL = "https://api.github.com/copilot_internal/v2/token"
	copilotAPIURL   = "https://api.githubcopilot.com"
	copilotEditor   = "UniFlow/1.0"

	// DefaultModel is the default model used by the advisor.
	DefaultModel = "gpt-4o"
)

// copilotHeaders identify the caller to the Copilot chat API.
var copilotHeaders = map[string]string{
	"Editor-Version":         copilotEditor,
	"Editor-Plugin-Version":  copilotEditor,
	"Copilot-Integration-Id": "vscode-chat",
}

// copilotSession is the short-lived API token GitHub hands out in exchange
// for an OAuth token.
type copilotSession struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	Endpoints struct {
		API string `json:"api"`
	} `json:"endpoints"`
}

// NewCopilotClient exchanges the local GitHub token for a Copilot session and
// returns a chat client bound to it.
func NewCopilotClient(model string) (*OpenAIClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ep, err := copilotEndpoint(ctx, http.DefaultClient, copilotTokenURL, model)
	if err != nil {
		return nil, err
	}
	return NewOpenAIClient(ep)
}

// copilotEndpoint signs in at tokenURL and describes the chat API to use.
func copilotEndpoint(ctx context.Context, httpClient *http.Client, tokenURL, model string) (Endpoint, error) {
	if model == "" {
		model = DefaultModel
	}
	githubToken, err := LoadGitHubToken()
	if err != nil {
		return Endpoint{}, fmt.Errorf("loading GitHub token: %w", err)
	}
	session, err := fetchCopilotSession(ctx, httpClient, tokenURL, githubToken)
	if err != nil {
		return Endpoint{}, err
	}

	base := session.Endpoints.API
	if base == "" {
		base = copilotAPIURL
	}
	return Endpoint{
		Provider:   ProviderCopilot,
		BaseURL:    base,
		APIKey:     session.Token,
		Model:      model,
		Headers:    copilotHeaders,
		JSONObject: true,
	}, nil
}

func fetchCopilotSession(ctx context.Context, httpClient *http.Client, tokenURL, githubToken string) (copilotSession, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tokenURL, nil)
	if err != nil {
		return copilotSession{}, fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Authorization", "token "+githubToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", copilotEditor)

	resp, err := httpClient.Do(req)
	if err != nil {
		return copilotSession{}, fmt.Errorf("copilot token exchange: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return copilotSession{}, fmt.Errorf("copilot token exchange: status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var session copilotSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return copilotSession{}, fmt.Errorf("decoding copilot token: %w", err)
	}
	if session.Token == "" {
		return copilotSession{}, errors.New("copilot token exchange returned no token")
	}
	return session, nil
}
