package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RequestResolvedEmailData holds data for the email sent when an organizer resolves a request.
type RequestResolvedEmailData struct {
	Email      string
	Name       string
	EventTitle string
	EventDate  string
	Status     RequestStatus
}

// Confirmed is a template helper.
func (d RequestResolvedEmailData) Confirmed() bool {
	return d.Status == RequestStatusConfirmed
}

// NotificationService defines the contract for sending participation emails.
type NotificationService interface {
	SendRequestResolved(ctx context.Context, data *RequestResolvedEmailData) error
}
