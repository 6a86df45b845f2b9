package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func tokenServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "token gh-oauth" {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCopilotEndpoint(t *testing.T) {
	t.Setenv("UNIFLOW_GITHUB_TOKEN", "gh-oauth")

	tests := []struct {
		name     string
		body     string
		model    string
		wantBase string
		wantMdl  string
	}{
		{
			name:     "session endpoint",
			body:     `{"token":"tid=1","expires_at":1760000000,"endpoints":{"api":"https://api.individual.githubcopilot.com"}}`,
			model:    "gpt-4.1",
			wantBase: "https://api.individual.githubcopilot.com",
			wantMdl:  "gpt-4.1",
		},
		{
			name:     "default endpoint and model",
			body:     `{"token":"tid=1","expires_at":1760000000}`,
			wantBase: copilotAPIURL,
			wantMdl:  DefaultModel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := tokenServer(t, http.StatusOK, tt.body)
			ep, err := copilotEndpoint(context.Background(), srv.Client(), srv.URL, tt.model)
			if err != nil {
				t.Fatalf("copilotEndpoint() error = %v", err)
			}
			if ep.BaseURL != tt.wantBase || ep.Model != tt.wantMdl || ep.APIKey != "tid=1" {
				t.Errorf("unexpected endpoint %+v", ep)
			}
			if ep.Provider != ProviderCopilot || !ep.JSONObject || ep.Headers["Copilot-Integration-Id"] == "" {
				t.Errorf("copilot endpoint settings missing: %+v", ep)
			}
		})
	}
}

func TestFetchCopilotSession_Failures(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		status int
		body   string
		want   string
	}{
		{name: "rejected", token: "wrong", status: http.StatusOK, body: `{}`, want: "status 401"},
		{name: "server error", token: "gh-oauth", status: http.StatusBadGateway, body: "upstream", want: "status 502: upstream"},
		{name: "no token", token: "gh-oauth", status: http.StatusOK, body: `{"expires_at":1}`, want: "no token"},
		{name: "garbage", token: "gh-oauth", status: http.StatusOK, body: `<html>`, want: "decoding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := tokenServer(t, tt.status, tt.body)
			_, err := fetchCopilotSession(context.Background(), srv.Client(), srv.URL, tt.token)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
