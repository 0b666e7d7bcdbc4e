package dto

import "github.com/oksasatya/storefront-api/pkg/mailer"

// SendEmailRequest carries either a template with data or a raw subject and body.
type SendEmailRequest struct {
	To       string         `json:"to" binding:"required,email"`
	Template string         `json:"template" binding:"omitempty,oneof=password_reset order_confirmation plain"`
	Data     map[string]any `json:"data"`
	Subject  string         `json:"subject" binding:"max=200"`
	Text     string         `json:"text"`
	HTML     string         `json:"html"`
}

// ToJob drops the raw body fields when a template composes the message.
func (r SendEmailRequest) ToJob() mailer.EmailJob {
	job := mailer.EmailJob{To: r.To, Template: r.Template}
	if r.Template != "" && r.Template != mailer.JobPlain {
		job.Data = r.Data
		return job
	}
	job.Subject = r.Subject
	job.Text = r.Text
	job.HTML = r.HTML
	return job
}

type EnqueueResponse struct {
	Enqueued bool   `json:"enqueued"`
	Message  string `json:"message"`
}
