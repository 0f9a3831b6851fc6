package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/training-service/internal/utils"
)

// Mailer is the outbound transport boundary. Implementations may fail
// transiently; the caller decides whether to retry.
type Mailer interface {
	Send(ctx context.Context, address, subject, body string) error
}

// NotificationService delivers a single notification to one recipient.
// Bulk requests are fanned out upstream into one job per recipient, so a
// bad address never blocks the rest and each delivery retries on its own.
type NotificationService interface {
	Send(ctx context.Context, address, subject, body string) error
}

type notificationService struct {
	mailer    Mailer
	logger    *slog.Logger
	validator *utils.Validator
}

func NewNotificationService(mailer Mailer, logger *slog.Logger, validator *utils.Validator) NotificationService {
	return &notificationService{
		mailer:    mailer,
		logger:    logger,
		validator: validator,
	}
}

func (s *notificationService) Send(ctx context.Context, address, subject, body string) error {
	// Addresses are opaque transport identifiers; the external mail relay
	// resolves them to mailboxes.
	if err := s.validator.ValidateVar(address, "required"); err != nil {
		// A malformed address will never deliver; retrying is pointless.
		s.logger.Error("Dropping notification with invalid address",
			"address", address,
			"error", err)
		return ErrPreconditionFailed
	}

	if err := s.mailer.Send(ctx, address, subject, body); err != nil {
		s.logger.Error("Notification send failed",
			"address", address,
			"subject", subject,
			"error", err)
		return NewNotificationError(address, err.Error())
	}

	s.logger.Info("Notification sent",
		"address", address,
		"subject", subject)

	return nil
}

// LogMailer is the development transport: it logs instead of delivering.
type LogMailer struct {
	Logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{Logger: logger}
}

func (m *LogMailer) Send(_ context.Context, address, subject, body string) error {
	m.Logger.Info("Mail (log transport)",
		"address", address,
		"subject", subject,
		"body_length", len(body))
	return nil
}
