package notification

import (
	"context"
	"log/slog"

	"github.com/nikolayk812/storefront/internal/domain"
)

// LogSink stands in when no broker is configured: events land in the log
// instead of disappearing.
type LogSink struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}

	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(_ context.Context, n domain.Notification) error {
	s.logger.Info("notification",
		"kind", string(n.Kind),
		"recipient", n.Recipient,
		"payload", n.Payload)

	return nil
}
