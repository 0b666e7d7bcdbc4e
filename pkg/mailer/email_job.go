package mailer

import "context"

// Job types understood by the email worker.
const (
	JobPasswordReset     = "password_reset"
	JobOrderConfirmation = "order_confirmation"
	JobPlain             = "plain"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Subject and Text are set directly, or Template names a job type whose
// plain text body is composed from Data by the worker.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Publisher enqueues email jobs. *helpers.RabbitPublisher satisfies it.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}
