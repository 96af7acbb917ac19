package service

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/o-dots/backend/internal/config"
	"github.com/o-dots/backend/internal/logger"
)

// emailService sends the platform's transactional mail over an SMTP relay.
// The links it builds point at the frontend, which forwards the embedded
// token to the API.
type emailService struct {
	client    *mail.Client
	from      string
	clientURL string
	logger    *logger.Logger
}

// NewEmailService constructs an [EmailSender] over an SMTP relay described
// by cfg. clientURL is the public frontend base URL embedded in the mail
// links.
func NewEmailService(cfg config.Email, clientURL string, logger *logger.Logger) (EmailSender, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		logger.Err(err).Msg("creating smtp client failed")
		return nil, fmt.Errorf("creating smtp client failed: %w", err)
	}

	return &emailService{
		client:    client,
		from:      cfg.From,
		clientURL: clientURL,
		logger:    logger,
	}, nil
}

// SendVerificationEmail mails the account-confirmation link carrying the
// raw verify token.
func (e *emailService) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	subject := "Verify your email address"
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome! Please confirm your email address by opening the link below:\n\n%s/verify-email?token=%s\n\nIf you did not create an account, you can ignore this message.\n",
		name, e.clientURL, token)

	return e.send(ctx, to, subject, body)
}

// SendPasswordResetEmail mails the password-reset link carrying the raw
// reset token. The server only ever stores the token's digest.
func (e *emailService) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	subject := "Reset your password"
	body := fmt.Sprintf(
		"Hi %s,\n\nA password reset was requested for your account. Open the link below to choose a new password:\n\n%s/reset-password?token=%s\n\nThe link expires shortly. If you did not request a reset, you can ignore this message.\n",
		name, e.clientURL, token)

	return e.send(ctx, to, subject, body)
}

func (e *emailService) send(ctx context.Context, to, subject, body string) error {
	log := logger.FromContext(ctx)

	msg := mail.NewMsg()
	if err := msg.From(e.from); err != nil {
		return fmt.Errorf("setting mail sender failed: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting mail recipient failed: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := e.client.DialAndSendWithContext(ctx, msg); err != nil {
		log.Err(err).Str("to", to).Str("subject", subject).Msg("sending mail failed")
		return fmt.Errorf("sending mail failed: %w", err)
	}

	return nil
}
