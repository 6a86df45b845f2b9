package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/uniflow/internal/config"
	"github.com/javiermolinar/uniflow/internal/export"
	"github.com/javiermolinar/uniflow/internal/llm"
	"github.com/javiermolinar/uniflow/internal/schedule"
)

// fakeClient answers advice requests with a fixed response and reviews with
// a fixed text.
type fakeClient struct {
	advice llm.AdviceResponse
	review string
}

func (c *fakeClient) Chat(context.Context, []llm.Message) (string, error) {
	return c.review, nil
}

func (c *fakeClient) ChatJSON(_ context.Context, _ []llm.Message, result any) error {
	data, err := json.Marshal(c.advice)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, result)
}

// testConfig keeps the database inside a temp dir so consecutive runs share it.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.DBPath = filepath.Join(t.TempDir(), "uniflow.db")
	return cfg
}

func run(t *testing.T, cfg *config.Config, stdin string, opts []Option, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := NewApp(cfg, opts...)
	app.SetOutput(&out)
	app.SetInput(strings.NewReader(stdin))
	app.SetArgs(append([]string{"--no-color"}, args...))
	err := app.Execute()
	if cerr := app.Close(); cerr != nil {
		t.Fatalf("closing app: %v", cerr)
	}
	return out.String(), err
}

func mustRun(t *testing.T, cfg *config.Config, args ...string) string {
	t.Helper()
	out, err := run(t, cfg, "", nil, args...)
	if err != nil {
		t.Fatalf("uniflow %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestVersion(t *testing.T) {
	out := mustRun(t, testConfig(t), "version")
	assertContains(t, out, "uniflow dev")
}

func TestCatalog(t *testing.T) {
	cfg := testConfig(t)

	out := mustRun(t, cfg, "catalog")
	assertContains(t, out, "CS-101", "STUDY", "Workshop-based writing course.")

	out = mustRun(t, cfg, "catalog", "PHYS")
	assertContains(t, out, "PHYS-101", "Dr. Brown")
	if strings.Contains(out, "CS-101") {
		t.Errorf("filter leaked other courses:\n%s", out)
	}

	out = mustRun(t, cfg, "catalog", "biology")
	assertContains(t, out, `No courses match "biology"`)
}

func TestListSeed(t *testing.T) {
	out := mustRun(t, testConfig(t), "list")
	assertContains(t, out, "=== Mon ===", "e1", "09:00-10:30", "CS-101", "11:00-12:00", "MATH-201", "2 classes, 7/18 credits")
}

func TestAddPersists(t *testing.T) {
	cfg := testConfig(t)

	out := mustRun(t, cfg, "add", "PHYS-101", "wednesday-13:30")
	assertContains(t, out, "Added PHYS-101 to Wed", "Wed 13:30-15:30")

	out = mustRun(t, cfg, "list", "--day", "wed")
	assertContains(t, out, "=== Wed ===", "13:30-15:30", "PHYS-101", "3 classes, 11/18 credits")
}

func TestAddRejections(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "past closing", args: []string{"add", "c3", "Mon-20"}, wantErr: schedule.ErrPastClosing},
		{name: "weekend", args: []string{"add", "c1", "Sat-9"}, wantErr: schedule.ErrInvalidDay},
		{name: "no hour", args: []string{"add", "c1", "Mon"}, wantErr: schedule.ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, cfg, "", nil, tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	out := mustRun(t, cfg, "list")
	assertContains(t, out, "2 classes")
}

func TestMoveAndRemove(t *testing.T) {
	cfg := testConfig(t)

	out := mustRun(t, cfg, "move", "e1", "Thu-14")
	assertContains(t, out, "Rescheduled successfully.", "CS-101 now Thu 14:00-15:30")

	if _, err := run(t, cfg, "", nil, "move", "e1", "Thu-20"); !errors.Is(err, schedule.ErrPastClosing) {
		t.Errorf("expected closing error, got %v", err)
	}

	out = mustRun(t, cfg, "remove", "e2")
	assertContains(t, out, "Event removed")

	if _, err := run(t, cfg, "", nil, "rm", "e2"); !errors.Is(err, schedule.ErrEventNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	out = mustRun(t, cfg, "list")
	assertContains(t, out, "=== Thu ===", "1 class,")
}

func TestClear(t *testing.T) {
	cfg := testConfig(t)

	out, err := run(t, cfg, "n\n", nil, "clear")
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, out, "Remove all 2 classes", "Clear cancelled.")

	out = mustRun(t, cfg, "clear", "--yes")
	assertContains(t, out, "Schedule cleared")

	// The cleared week stays empty instead of reseeding.
	out = mustRun(t, cfg, "list")
	assertContains(t, out, "No classes scheduled.")

	out = mustRun(t, cfg, "clear")
	assertContains(t, out, "already empty")
}

func TestStudy(t *testing.T) {
	cfg := testConfig(t)

	out := mustRun(t, cfg, "study")
	assertContains(t, out, "Added Study Session to Mon at 13:00")

	out = mustRun(t, cfg, "list", "--day", "mon")
	assertContains(t, out, "13:00-14:00", "STUDY")
}

func TestStudyNoFreeSlot(t *testing.T) {
	cfg := testConfig(t)
	cfg.Schedule.PreferredHours = []float64{9}
	for _, day := range []string{"Tue", "Wed", "Thu", "Fri"} {
		mustRun(t, cfg, "add", "c2", day+"-9")
	}

	if _, err := run(t, cfg, "", nil, "study"); err == nil || !strings.Contains(err.Error(), "no completely free slot") {
		t.Errorf("expected no free slot error, got %v", err)
	}
}

func TestLayout(t *testing.T) {
	cfg := testConfig(t)
	mustRun(t, cfg, "add", "c3", "Mon-10")

	out := mustRun(t, cfg, "layout", "mon")
	assertContains(t, out, "=== Mon ===", "width  32.0%  left   2.0%", "width  48.0%  left  50.0%")

	out = mustRun(t, cfg, "layout", "fri")
	assertContains(t, out, "No classes on Fri.")
}

func TestWeek(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })

	out := mustRun(t, testConfig(t), "week", "--copy")
	assertContains(t, out, "Week overview", "Mon  2 classes", "Credits 7/18 (11 to go)", "Copied to clipboard.")
	if !strings.HasPrefix(copied, "Week overview") {
		t.Errorf("clipboard got %q", copied)
	}
}

func TestExport(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	clock := WithClock(func() time.Time { return time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC) })

	xlsxPath := filepath.Join(dir, "week.xlsx")
	out, err := run(t, cfg, "", []Option{clock}, "export", "--out", xlsxPath)
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, out, "Exported 2 classes to "+xlsxPath)

	data, err := os.ReadFile(xlsxPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Error("xlsx export is not a zip archive")
	}

	pngPath := filepath.Join(dir, "grid")
	if _, err := run(t, cfg, "", []Option{clock}, "export", "--format", "png", "--out", pngPath); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("png export has no PNG signature")
	}

	if _, err := run(t, cfg, "", nil, "export", "--format", "pdf"); !errors.Is(err, export.ErrUnknownFormat) {
		t.Errorf("expected unknown format, got %v", err)
	}
}

func TestPlanApply(t *testing.T) {
	cfg := testConfig(t)
	client := &fakeClient{advice: llm.AdviceResponse{
		Placements:  []llm.Placement{{CourseID: "c3", Day: "Tue", StartHour: 14}},
		Suggestions: []string{"Keep Friday for the study group"},
	}}
	factory := WithClientFactory(func() (llm.Client, error) { return client, nil })

	out, err := run(t, cfg, "", []Option{factory}, "plan", "physics", "on", "tuesday", "--dry-run")
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, out, "Proposed placements", "Tue 14:00  PHYS-101", "Keep Friday", "Dry run")

	out, err = run(t, cfg, "", []Option{factory}, "plan", "physics", "--apply")
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, out, "Added PHYS-101 to Tue", "1 placements applied")

	out = mustRun(t, cfg, "list")
	assertContains(t, out, "3 classes")
}

func TestPlanInteractive(t *testing.T) {
	cfg := testConfig(t)
	client := &fakeClient{advice: llm.AdviceResponse{
		Placements: []llm.Placement{{CourseID: "ENG-102", Day: "Fri", StartHour: 9}},
	}}
	factory := WithClientFactory(func() (llm.Client, error) { return client, nil })

	out, err := run(t, cfg, "x\nc\n", []Option{factory}, "plan", "writing")
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, out, "Invalid choice", "Planning cancelled.")

	if _, err := run(t, cfg, "a\n", []Option{factory}, "plan", "writing"); err != nil {
		t.Fatal(err)
	}
	out = mustRun(t, cfg, "list", "--day", "fri")
	assertContains(t, out, "ENG-102")
}

func TestPlanDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLM.Provider = "none"

	if _, err := run(t, cfg, "", nil, "plan", "anything"); !errors.Is(err, llm.ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
}

func TestReview(t *testing.T) {
	client := &fakeClient{review: "LOAD: light week\n"}
	factory := WithClientFactory(func() (llm.Client, error) { return client, nil })

	out, err := run(t, testConfig(t), "", []Option{factory}, "review")
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, out, "Week overview", "LOAD: light week")
}

func TestConfigShowsStoredData(t *testing.T) {
	cfg := testConfig(t)
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatal(err)
	}

	mustRun(t, cfg, "--config", configPath, "study")
	out := mustRun(t, cfg, "--config", configPath, "config")
	assertContains(t, out, "Config file: "+configPath, "credit_goal      = 18", "Stored data:", "uniflow-events")
}

func TestConfigEdit(t *testing.T) {
	cfg := testConfig(t)
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatal(err)
	}

	// close hour, credit goal, provider, model, base url, db path, theme
	input := "20:00\n24\n\n\n\n\nlatte\n"
	out, err := run(t, cfg, input, nil, "--config", configPath, "config", "--edit")
	if err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	assertContains(t, out, "Configuration saved!")

	saved, err := config.LoadFiles(configPath, "")
	if err != nil {
		t.Fatal(err)
	}
	if saved.Schedule.CloseHour != 20 || saved.Schedule.CreditGoal != 24 || saved.UI.Theme != "latte" {
		t.Errorf("unexpected saved config %+v %+v", saved.Schedule, saved.UI)
	}
}

func TestParseSlot(t *testing.T) {
	tests := []struct {
		in      string
		day     schedule.Day
		hour    float64
		wantErr bool
	}{
		{in: "Wed-13", day: schedule.Wednesday, hour: 13},
		{in: "wednesday-13:30", day: schedule.Wednesday, hour: 13.5},
		{in: "fri-9.5", day: schedule.Friday, hour: 9.5},
		{in: "Sun-9", wantErr: true},
		{in: "Mon-noon", wantErr: true},
		{in: "Mon", wantErr: true},
		{in: "Mon-NaN", wantErr: true},
		{in: "Tue--Inf", wantErr: true},
		{in: "monkey-9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			day, hour, err := parseSlot(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSlot(%q) error = %v", tt.in, err)
			}
			if day != tt.day || hour != tt.hour {
				t.Errorf("parseSlot(%q) = %s %v", tt.in, day, hour)
			}
		})
	}
}
