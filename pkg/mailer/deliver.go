package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrBadPayload marks queued jobs that can never be delivered.
var ErrBadPayload = errors.New("bad email job")

// Sender delivers one composed email. *Mailgun satisfies it.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) (string, error)
}

// Deliver decodes a queued job, composes it and hands it to s. Errors
// wrapping ErrBadPayload should not be retried; other errors may be.
func Deliver(ctx context.Context, s Sender, body []byte) (string, error) {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if strings.TrimSpace(job.To) == "" {
		return "", fmt.Errorf("%w: missing recipient", ErrBadPayload)
	}
	subject, text, err := Compose(job)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return s.Send(ctx, job.To, subject, text, job.HTML)
}
