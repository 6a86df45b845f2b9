package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/uniflow/internal/config"
	"github.com/javiermolinar/uniflow/internal/dateutil"
	"github.com/javiermolinar/uniflow/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var edit bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Show the configuration and what is stored in the database.

If no config file exists, creates one with default values.
With --edit, asks for each setting and saves the result.

Example:
  uniflow config
  uniflow config --edit`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runConfig(cmd.InOrStdin(), cmd.OutOrStdout(), edit)
		},
	}

	cmd.Flags().BoolVar(&edit, "edit", false, "Edit the configuration interactively")

	return cmd
}

func (a *App) runConfig(in io.Reader, w io.Writer, edit bool) error {
	configPath := a.configPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	fmt.Fprintf(w, "Config file: %s\n\n", configPath)
	cfg := a.config

	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Fprintln(w, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(w, "Created %s\n\n", configPath)
	}

	printConfig(w, cfg)
	if err := a.printEntries(w); err != nil {
		return err
	}

	if !edit {
		return nil
	}

	// Interactive editing
	reader := bufio.NewReader(in)
	fmt.Fprintln(w)

	var err error
	if cfg.Schedule.CloseHour, err = promptHour(reader, w, "Closing hour", cfg.Schedule.CloseHour); err != nil {
		return err
	}
	if cfg.Schedule.CreditGoal, err = promptInt(reader, w, "Credit goal", cfg.Schedule.CreditGoal); err != nil {
		return err
	}
	cfg.LLM.Provider = promptValue(reader, w, "LLM provider (copilot, ollama, lmstudio, none)", cfg.LLM.Provider)
	cfg.LLM.Model = promptValue(reader, w, "LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = promptValue(reader, w, "LLM base URL (Ollama/LM Studio)", cfg.LLM.BaseURL)
	cfg.Storage.DBPath = promptValue(reader, w, "Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = promptTheme(reader, w, cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(w, "\nConfiguration saved!")
	return nil
}

const maxThemeAttempts = 3

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[schedule]")
	fmt.Fprintf(w, "  open_hour        = %s\n", dateutil.ClockHour(cfg.Schedule.OpenHour))
	fmt.Fprintf(w, "  close_hour       = %s\n", dateutil.ClockHour(cfg.Schedule.CloseHour))
	fmt.Fprintf(w, "  preferred_hours  = %s\n", formatHourList(cfg.Schedule.PreferredHours))
	fmt.Fprintf(w, "  credit_goal      = %d\n", cfg.Schedule.CreditGoal)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Fprintf(w, "  key              = %s\n", cfg.Storage.Key)
	fmt.Fprintln(w, "\n[notifications]")
	fmt.Fprintf(w, "  max_visible      = %d\n", cfg.Notifications.MaxVisible)
	fmt.Fprintf(w, "  ttl              = %s\n", cfg.Notifications.TTL)
	fmt.Fprintln(w, "\n[llm]")
	fmt.Fprintf(w, "  provider         = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(w, "  model            = %s\n", cfg.LLM.Model)
	baseURL := cfg.LLM.BaseURL
	if baseURL == "" {
		baseURL = "(provider default)"
	}
	fmt.Fprintf(w, "  base_url         = %s\n", baseURL)
	fmt.Fprintf(w, "  max_retries      = %d\n", cfg.LLM.MaxRetries)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme            = %s\n", cfg.UI.Theme)
	fmt.Fprintln(w, "\n[log]")
	fmt.Fprintf(w, "  level            = %s\n", cfg.Log.Level)
	if cfg.Log.File != "" {
		fmt.Fprintf(w, "  file             = %s\n", cfg.Log.File)
	}
}

// printEntries lists the keys kept in the database.
func (a *App) printEntries(w io.Writer) error {
	if a.db == nil {
		return nil
	}
	entries, err := a.db.Entries(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "\nStored data:")
	fmt.Fprintln(w, "────────────")
	if len(entries) == 0 {
		fmt.Fprintln(w, formatMuted("  nothing saved yet"))
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "  %-16s %6d bytes  %s\n", e.Key, len(e.Value),
			formatMuted("updated "+e.UpdatedAt.Local().Format("2006-01-02 15:04")))
	}
	return nil
}

func formatHourList(hours []float64) string {
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = dateutil.FormatHour(h)
	}
	return strings.Join(parts, ", ")
}

func promptValue(reader *bufio.Reader, w io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(w, "  %s: ", label)
	} else {
		fmt.Fprintf(w, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptHour(reader *bufio.Reader, w io.Writer, label string, current float64) (float64, error) {
	value := promptValue(reader, w, label, dateutil.ClockHour(current))
	h, err := dateutil.ParseHour(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", strings.ToLower(label), err)
	}
	return h, nil
}

func promptInt(reader *bufio.Reader, w io.Writer, label string, current int) (int, error) {
	value := promptValue(reader, w, label, strconv.Itoa(current))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", strings.ToLower(label), err)
	}
	return n, nil
}

func promptTheme(reader *bufio.Reader, w io.Writer, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for range maxThemeAttempts {
		value := strings.ToLower(promptValue(reader, w, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(w, "  Invalid theme %q. Available: %s\n", value, options)
	}
	return theme.Available()[0]
}
