package application

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/pkg/metrics"
)

// TokenCleanupJob periodically purges revoked, used and expired tokens.
type TokenCleanupJob struct {
	Auth    *AuthService
	Logger  *logrus.Logger
	Timeout time.Duration
}

func NewTokenCleanupJob(auth *AuthService, logger *logrus.Logger) *TokenCleanupJob {
	return &TokenCleanupJob{Auth: auth, Logger: logger, Timeout: time.Minute}
}

// Run satisfies cron.Job.
func (j *TokenCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.Timeout)
	defer cancel()

	refresh, reset, err := j.Auth.PurgeTokens(ctx)
	if err != nil {
		j.Logger.WithError(err).Error("token cleanup failed")
		return
	}
	metrics.TokensPurged("refresh", refresh)
	metrics.TokensPurged("password_reset", reset)
	j.Logger.WithFields(logrus.Fields{
		"refresh_tokens": refresh,
		"reset_tokens":   reset,
	}).Info("expired tokens purged")
}

// Schedule registers the job on a seconds-enabled cron and returns the
// started scheduler. Stop it on shutdown.
func (j *TokenCleanupJob) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if _, err := c.AddJob(spec, j); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
