package observability

import (
	"context"
	"log/slog"
)

var _ slog.Handler = (*NoopHandler)(nil)

type NoopHandler struct{}

func NewNoopHandler() slog.Handler {
	return &NoopHandler{}
}

// OrNoop returns log, or a logger that discards everything when log is
// nil.
func OrNoop(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(NewNoopHandler())
	}

	return log
}

func (h *NoopHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (h *NoopHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (h *NoopHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *NoopHandler) WithGroup(_ string) slog.Handler {
	return h
}
