package services

import (
	"context"
	"fmt"
	"log/slog"

	"passin/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendEventCreated sends the announcement using the "event_created" template.
func (s *emailService) SendEventCreated(ctx context.Context, data *domain.EventCreatedEmailData) error {
	if data == nil {
		return fmt.Errorf("event created email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("event_created", data)
	if err != nil {
		return fmt.Errorf("failed to render event_created template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send event created email: %w", err)
	}
	s.logger.InfoContext(ctx, "event created email sent", "to", data.Email, "event_id", data.EventID)
	return nil
}

type emailEventNotifier struct {
	emailService domain.EmailService
	recipients   []string
}

type nopEventNotifier struct{}

func (nopEventNotifier) EventCreated(context.Context, *domain.Event) error { return nil }

// NewEventNotifier returns a notifier that emails every recipient when an event is created.
// With no recipients it returns a notifier that does nothing.
func NewEventNotifier(emailService domain.EmailService, recipients []string) domain.EventNotifier {
	if len(recipients) == 0 {
		return nopEventNotifier{}
	}
	return &emailEventNotifier{emailService: emailService, recipients: recipients}
}

// EventCreated attempts every recipient and returns the first failure, if any.
func (n *emailEventNotifier) EventCreated(ctx context.Context, event *domain.Event) error {
	data := domain.EventCreatedEmailData{
		EventID: event.ID,
		Title:   event.Title,
		Slug:    event.Slug,
	}
	if event.Details != nil {
		data.Details = *event.Details
	}
	if event.MaximumAttendees != nil {
		data.MaximumAttendees = *event.MaximumAttendees
	}

	var firstErr error
	for _, to := range n.recipients {
		d := data
		d.Email = to
		if err := n.emailService.SendEventCreated(ctx, &d); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
