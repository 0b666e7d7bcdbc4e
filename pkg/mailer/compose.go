package mailer

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownTemplate = errors.New("unknown email template")

// Compose resolves the subject and plain text body of a job.
func Compose(job EmailJob) (subject, text string, err error) {
	if job.Template == "" || job.Template == JobPlain {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", errors.New("subject and body are required")
		}
		return job.Subject, job.Text, nil
	}

	d := func(key string) string {
		if v, ok := job.Data[key]; ok && v != nil {
			return fmt.Sprint(v)
		}
		return ""
	}

	switch job.Template {
	case JobPasswordReset:
		var b strings.Builder
		fmt.Fprintf(&b, "Hello %s,\n\n", d("name"))
		b.WriteString("We received a request to reset your password.\n")
		fmt.Fprintf(&b, "Open the link below to choose a new one:\n\n%s\n\n", d("resetUrl"))
		fmt.Fprintf(&b, "The link expires at %s. If you did not ask for this, ignore this email.\n", d("expiresAt"))
		return "Reset your password", b.String(), nil

	case JobOrderConfirmation:
		var b strings.Builder
		fmt.Fprintf(&b, "Hello %s,\n\n", d("name"))
		fmt.Fprintf(&b, "Thank you for your order %s.\n\n", d("orderNumber"))
		fmt.Fprintf(&b, "Items:    %s\n", d("itemCount"))
		fmt.Fprintf(&b, "Total:    %s\n", d("totalAmount"))
		fmt.Fprintf(&b, "Payment:  %s\n", d("paymentMethod"))
		b.WriteString("\nWe will let you know when it ships.\n")
		return "Order confirmation " + d("orderNumber"), b.String(), nil
	}
	return "", "", fmt.Errorf("%w: %s", ErrUnknownTemplate, job.Template)
}
