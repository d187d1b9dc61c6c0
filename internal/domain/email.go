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

// LoginCodeEmailData holds data for the passwordless login code email.
type LoginCodeEmailData struct {
	Email            string
	Code             string
	ExpiresInMinutes int
}

// ConferenceCreatedEmailData holds data for the conference creation
// confirmation sent to the organizer.
type ConferenceCreatedEmailData struct {
	Email          string
	DisplayName    string
	ConferenceName string
	City           string
	MaxAttendees   int
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendLoginCode(ctx context.Context, data *LoginCodeEmailData) error
	SendConferenceCreated(ctx context.Context, data *ConferenceCreatedEmailData) error
}
