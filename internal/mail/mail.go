package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// Sender delivers the password-reset mail. Stubbed in tests.
type Sender interface {
	SendPasswordReset(ctx context.Context, to, resetLink string) error
}

type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (s *SMTPSender) SendPasswordReset(ctx context.Context, to, resetLink string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject("Reset Your Password")
	msg.SetBodyString(gomail.TypeTextHTML, fmt.Sprintf(`
		<h2>Reset Your Password</h2>
		<p>Please click the link below to reset your password:</p>
		<a href=%q>Reset Password</a>
		<p>If you didn't request this, please ignore this email.</p>
		<p>This link will expire in 15 minutes.</p>`, resetLink))

	opts := []gomail.Option{gomail.WithPort(s.Port), gomail.WithTLSPolicy(gomail.TLSOpportunistic)}
	if s.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.Username),
			gomail.WithPassword(s.Password),
		)
	}

	client, err := gomail.NewClient(s.Host, opts...)
	if err != nil {
		return fmt.Errorf("mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail send: %w", err)
	}
	return nil
}
