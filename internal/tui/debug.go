package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/uniflow/internal/planner"
)

// debugLogger records keystrokes, mode changes and drops. It wraps the
// session logger, which is a no-op unless a log file or --debug is set.
type debugLogger struct {
	log *zap.Logger
}

func newDebugLogger(l *zap.Logger) debugLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return debugLogger{log: l.Named("tui")}
}

func (d debugLogger) KeyPress(msg tea.KeyMsg, mode Mode) {
	d.log.Debug("key",
		zap.String("key", msg.String()),
		zap.Stringer("mode", mode))
}

func (d debugLogger) ModeChange(from, to Mode, reason string) {
	if from == to {
		return
	}
	d.log.Debug("mode change",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.String("reason", reason))
}

func (d debugLogger) CursorMove(pos Position, reason string) {
	d.log.Debug("cursor",
		zap.Int("day", pos.Day),
		zap.Int("row", pos.Row),
		zap.String("reason", reason))
}

func (d debugLogger) Drop(active, target string, result planner.DropResult) {
	d.log.Debug("drop",
		zap.String("active", active),
		zap.String("target", target),
		zap.String("action", string(result.Action)),
		zap.String("event", result.Event.ID))
}

func (d debugLogger) Notification(id, message string) {
	d.log.Debug("notification", zap.String("id", id), zap.String("message", message))
}

func (d debugLogger) Error(context string, err error) {
	d.log.Warn(context, zap.Error(err))
}
