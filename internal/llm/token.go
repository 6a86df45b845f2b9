package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// tokenEnvVars are read before any file, first match wins.
var tokenEnvVars = []string{"UNIFLOW_GITHUB_TOKEN", "GITHUB_TOKEN"}

// copilotFiles are the files IDE plugins write after signing in to Copilot.
var copilotFiles = []string{"hosts.json", "apps.json"}

// copilotHost is one entry of a Copilot hosts/apps file.
type copilotHost struct {
	OAuthToken string `json:"oauth_token"`
}

// errNoToken is returned when no source holds a GitHub token.
var errNoToken = errors.New("GitHub token not found: set GITHUB_TOKEN or sign in to GitHub Copilot in your IDE")

// LoadGitHubToken finds the GitHub OAuth token used to obtain Copilot
// session tokens: the environment first, then the Copilot config files.
func LoadGitHubToken() (string, error) {
	for _, name := range tokenEnvVars {
		if token := strings.TrimSpace(os.Getenv(name)); token != "" {
			return token, nil
		}
	}

	dir, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("getting config directory: %w", err)
	}
	for _, name := range copilotFiles {
		if token := tokenFromFile(filepath.Join(dir, "github-copilot", name)); token != "" {
			return token, nil
		}
	}
	return "", errNoToken
}

// userConfigDir honors XDG_CONFIG_HOME everywhere and LOCALAPPDATA on
// Windows, where Copilot keeps its files.
func userConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return dir, nil
		}
		return filepath.Join(home, "AppData", "Local"), nil
	}
	return filepath.Join(home, ".config"), nil
}

// tokenFromFile returns the token of the first github.com entry, or "" when
// the file is missing or unreadable.
func tokenFromFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var hosts map[string]copilotHost
	if err := json.Unmarshal(data, &hosts); err != nil {
		return ""
	}
	for host, entry := range hosts {
		if strings.Contains(host, "github.com") && entry.OAuthToken != "" {
			return entry.OAuthToken
		}
	}
	return ""
}
