package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/uniflow/internal/config"
	"github.com/javiermolinar/uniflow/internal/db"
	"github.com/javiermolinar/uniflow/internal/llm"
	"github.com/javiermolinar/uniflow/internal/logging"
	"github.com/javiermolinar/uniflow/internal/notify"
	"github.com/javiermolinar/uniflow/internal/planner"
	"github.com/javiermolinar/uniflow/internal/schedule"
	"github.com/javiermolinar/uniflow/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// annotationNoStorage marks commands that run without opening the database.
const annotationNoStorage = "uniflow/no-storage"

// App holds the CLI application state.
type App struct {
	config     *config.Config
	configPath string
	root       *cobra.Command

	debug     bool // Enable debug logging
	noColor   bool
	ephemeral bool // keep the schedule in an in-memory database

	logger  *zap.Logger
	db      *db.SQLite
	planner *planner.Planner

	newClient func() (llm.Client, error)
	now       func() time.Time
}

// Option configures an App.
type Option func(*App)

// WithClientFactory replaces how plan and review reach the LLM.
func WithClientFactory(fn func() (llm.Client, error)) Option {
	return func(a *App) {
		a.newClient = fn
	}
}

// WithClock sets the time used by exports.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// NewApp creates a new CLI application with the given config. Storage and
// logging are opened lazily, once flags are parsed.
func NewApp(cfg *config.Config, opts ...Option) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{config: cfg, logger: zap.NewNop(), now: time.Now}
	a.newClient = func() (llm.Client, error) {
		return llm.NewClient(a.config.LLM.Provider, a.config.LLM.Model, a.config.LLM.BaseURL)
	}
	for _, opt := range opts {
		opt(a)
	}

	a.root = &cobra.Command{
		Use:   "uniflow",
		Short: "A terminal planner for your university week",
		Long: `UniFlow places courses from a fixed catalog onto a Monday to Friday grid.

Run without arguments to open the interactive planner. Pick a course from
the bench, move to a slot and drop it. Overlapping classes sit side by side.
Classes must end by the configured closing hour.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.Run(a.planner, a.config, a.logger)
		},
	}

	// Add global flags
	flags := a.root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default "+config.DefaultConfigPath()+")")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging (writes "+logging.DebugLogPath+")")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&a.ephemeral, "ephemeral", false, "Keep the schedule in memory for this run only")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.catalogCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.removeCmd())
	a.root.AddCommand(a.clearCmd())
	a.root.AddCommand(a.studyCmd())
	a.root.AddCommand(a.layoutCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.planCmd())
	a.root.AddCommand(a.reviewCmd())

	return a
}

// setup applies global flags, then opens logging, storage and the planner.
func (a *App) setup(cmd *cobra.Command) error {
	if a.noColor {
		DisableColor()
	}

	if a.configPath != "" {
		cfg, err := config.LoadFrom(a.configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		a.config = cfg
	}

	if cmd.Annotations[annotationNoStorage] == "true" {
		return nil
	}

	logger, err := a.openLogger()
	if err != nil {
		return err
	}
	a.logger = logger

	path := a.config.Storage.DBPath
	if a.ephemeral {
		path = db.MemoryPath
	}
	store, err := db.New(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.db = store

	events := schedule.NewStore(store,
		schedule.WithKey(a.config.Storage.Key),
		schedule.WithLogger(a.logger),
	)
	events.Load(context.Background())

	ttl, err := a.config.Notifications.TTLDuration()
	if err != nil {
		return err
	}
	queue := notify.NewQueue(
		notify.WithMaxVisible(a.config.Notifications.MaxVisible),
		notify.WithTTL(ttl),
		notify.WithManualExpiry(),
	)

	a.planner = planner.New(events, queue,
		planner.WithOpenHour(a.config.Schedule.OpenHour),
		planner.WithCloseHour(a.config.Schedule.CloseHour),
		planner.WithPreferredHours(a.config.Schedule.PreferredHours),
		planner.WithCreditGoal(a.config.Schedule.CreditGoal),
		planner.WithLogger(a.logger),
	)
	a.logger.Debug("app ready",
		zap.String("command", cmd.Name()),
		zap.String("db", path),
		zap.Int("events", events.Len()))
	return nil
}

func (a *App) openLogger() (*zap.Logger, error) {
	if a.debug {
		logger, err := logging.Debug()
		if err != nil {
			return nil, fmt.Errorf("opening debug log: %w", err)
		}
		return logger, nil
	}
	logger, err := logging.New(logging.Options{Level: a.config.Log.Level, File: a.config.Log.File})
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}
	return logger, nil
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the version number",
		Annotations: map[string]string{annotationNoStorage: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "uniflow %s (commit: %s)\n", Version, Commit)
		},
	}
}

// flushNotifications prints what the planner queued, oldest first, and
// empties the queue. The CLI has no timer to expire them.
func (a *App) flushNotifications(w io.Writer) {
	queue := a.planner.Notifications()
	items := queue.Items()
	for i := len(items) - 1; i >= 0; i-- {
		fmt.Fprintln(w, formatNotification(items[i]))
	}
	queue.Clear()
}

// SetArgs overrides os.Args, for tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// SetOutput redirects command output, for tests.
func (a *App) SetOutput(out io.Writer) {
	a.root.SetOut(out)
	a.root.SetErr(out)
}

// SetInput replaces stdin for confirmation prompts.
func (a *App) SetInput(in io.Reader) {
	a.root.SetIn(in)
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the database and flushes the log.
func (a *App) Close() error {
	_ = a.logger.Sync()
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}
