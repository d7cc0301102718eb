package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ecodeclub/ekit/retry"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var ErrNotifierDisabled = errors.New("notifier is not configured")

// Notifier tells a shortlisted candidate about the result. The returned token
// identifies the notification.
type Notifier interface {
	Notify(ctx context.Context, email, name string) (string, error)
}

type RetryConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	MaxAttempts  int
}

type smtpNotifier struct {
	from     string
	sender   gomail.Sender
	retry    RetryConfig
	messages *MessageBuilder
	logger   *zap.Logger
}

// NewSMTPNotifier dials the SMTP server for every message.
func NewSMTPNotifier(host string, port int, username, password, from string, rc RetryConfig, logger *zap.Logger) Notifier {
	dialer := gomail.NewDialer(host, port, username, password)
	if from == "" {
		from = username
	}

	sender := gomail.SendFunc(func(from string, to []string, msg io.WriterTo) error {
		s, err := dialer.Dial()
		if err != nil {
			return err
		}
		defer s.Close()
		return s.Send(from, to, msg)
	})

	return NewNotifier(from, sender, rc, logger)
}

func NewNotifier(from string, sender gomail.Sender, rc RetryConfig, logger *zap.Logger) Notifier {
	return &smtpNotifier{
		from:     from,
		sender:   sender,
		retry:    rc,
		messages: NewMessageBuilder(),
		logger:   logger,
	}
}

// Notify implements Notifier. Delivery is retried with exponential backoff.
func (n *smtpNotifier) Notify(ctx context.Context, email, name string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("no recipient address")
	}

	token := uuid.NewString()

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", n.messages.BuildShortlistSubject())
	m.SetBody("text/html", n.messages.BuildShortlistBody(name, token))

	// ekit treats a non-positive retry count as unlimited.
	retries := n.retry.MaxAttempts - 1
	if retries <= 0 {
		if err := gomail.Send(n.sender, m); err != nil {
			return "", fmt.Errorf("failed to send notification: %w", err)
		}
		return token, nil
	}

	strategy, err := retry.NewExponentialBackoffRetryStrategy(n.retry.InitialDelay, n.retry.MaxDelay, int32(retries))
	if err != nil {
		return "", fmt.Errorf("failed to build retry strategy: %w", err)
	}

	for attempt := 1; ; attempt++ {
		err := gomail.Send(n.sender, m)
		if err == nil {
			return token, nil
		}

		wait, ok := strategy.Next()
		if !ok {
			return "", fmt.Errorf("failed to send notification after %d attempts: %w", attempt, err)
		}

		n.logger.Warn("notification attempt failed", zap.Int("attempt", attempt), zap.Duration("retry_in", wait), zap.Error(err))

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		case <-time.After(wait):
		}
	}
}

type noopNotifier struct{}

func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) Notify(context.Context, string, string) (string, error) {
	return "", ErrNotifierDisabled
}
