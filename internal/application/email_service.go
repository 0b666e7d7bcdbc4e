package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/pkg/apperror"
	"github.com/oksasatya/storefront-api/pkg/mailer"
)

// EmailService lets admins enqueue an arbitrary email for the worker.
type EmailService struct {
	Mail    mailer.Publisher
	Enabled bool
	Logger  *logrus.Logger
}

func NewEmailService(mail mailer.Publisher, enabled bool, logger *logrus.Logger) *EmailService {
	return &EmailService{Mail: mail, Enabled: enabled && mail != nil, Logger: logger}
}

// Enqueue validates the job the way the worker will compose it and publishes it.
// It reports false when sending is disabled.
func (s *EmailService) Enqueue(ctx context.Context, job mailer.EmailJob) (bool, error) {
	if _, _, err := mailer.Compose(job); err != nil {
		return false, apperror.BadRequest("%s", err.Error())
	}
	if !s.Enabled {
		return false, nil
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("to", job.To).Warn("failed to publish email job")
		return false, err
	}
	return true, nil
}
