package services

import (
	"context"
	"fmt"
	"log/slog"

	"eventadmission/internal/domain"
)

const requestResolvedTemplate = "request_resolved"

type notificationService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewNotificationService returns a NotificationService that renders templates and sends them with mailer.
func NewNotificationService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.NotificationService {
	return &notificationService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendRequestResolved tells a requester whether the organizer confirmed or rejected their request.
func (s *notificationService) SendRequestResolved(ctx context.Context, data *domain.RequestResolvedEmailData) error {
	if data == nil {
		return fmt.Errorf("request resolved email data is nil")
	}
	if data.Email == "" {
		return fmt.Errorf("%w: recipient email is empty", domain.ErrInvalidInput)
	}
	subject, htmlBody, textBody, err := s.renderer.Render(requestResolvedTemplate, data)
	if err != nil {
		return fmt.Errorf("render %s template: %w", requestResolvedTemplate, err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send request resolved email: %w", err)
	}
	s.logger.InfoContext(ctx, "request resolution email sent", "to", data.Email, "status", string(data.Status))
	return nil
}
