package mailer

import (
	"context"

	"go.uber.org/zap"

	"moneta.backend/pkg/logger"
)

// Mailer delivers account emails. Delivery is best effort; callers treat
// failures as non-fatal.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, resetURL string) error
}

// LogMailer is a Mailer that only logs the outgoing message. It stands in
// for a real provider in development and tests.
type LogMailer struct {
	from string
}

// NewLogMailer creates a log-only mailer
func NewLogMailer(from string) *LogMailer {
	return &LogMailer{from: from}
}

// SendPasswordReset logs the reset email instead of sending it
func (m *LogMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	logger.Info(ctx, "password reset email",
		zap.String("from", m.from),
		zap.String("to", to),
		zap.String("name", name),
		zap.String("resetUrl", resetURL),
	)
	return nil
}
