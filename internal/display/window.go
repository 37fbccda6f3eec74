package display

import (
	"log/slog"

	"lessond/internal/board"
)

// NoticeWindow is the automation confirmation window. Without a drawing
// surface it publishes into the render state, so a frontend polling the
// control socket shows it; every step is also logged.
type NoticeWindow struct {
	model  *Model
	logger *slog.Logger
}

// NewNoticeWindow creates the window backed by the render state.
func NewNoticeWindow(model *Model, logger *slog.Logger) *NoticeWindow {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoticeWindow{
		model:  model,
		logger: logger.With("component", "window"),
	}
}

// Show opens (or replaces) the window with a message.
func (w *NoticeWindow) Show(message string, mode board.Mode) {
	w.model.setWindow(true, message)
	w.logger.Info("window shown", "message", message, "mode", mode.String())
}

// UpdateText replaces the window's message.
func (w *NoticeWindow) UpdateText(message string) {
	w.model.setWindow(true, message)
}

// Close dismisses the window. Closing a window that is not open is a no-op.
func (w *NoticeWindow) Close() {
	w.model.setWindow(false, "")
	w.logger.Debug("window closed")
}
