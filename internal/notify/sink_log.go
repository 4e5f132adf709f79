package notify

import (
	"context"
	"log/slog"
)

// LogSink writes notifications to the structured log.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Send(ctx context.Context, n Notification) error {
	s.logger.InfoContext(ctx, "verification notification",
		"type", string(n.Type),
		"verification_id", n.VerificationID.String(),
		"reference", n.Reference,
		"owner_id", n.OwnerID.String(),
		"status", n.Status,
	)
	return nil
}
