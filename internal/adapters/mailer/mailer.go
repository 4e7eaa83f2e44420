// Package mailer delivers one-time codes, either over SMTP or to the log in
// development.
package mailer

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"

	"expedia_inspired/internal/adapters/observability"
	"expedia_inspired/internal/domain"
)

// DevSender writes codes to the log instead of sending mail.
type DevSender struct {
	log zerolog.Logger
}

func NewDevSender(l zerolog.Logger) *DevSender { return &DevSender{log: l} }

func (d *DevSender) SendOTP(ctx context.Context, to, code string, purpose domain.OTPPurpose) error {
	d.log.Info().Str("to", to).Str("purpose", string(purpose)).Str("otp", code).Msg("otp email (dev mode, not sent)")
	return nil
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	// CodeMinutes is the code lifetime quoted in the mail body.
	CodeMinutes int
}

type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.FromName == "" {
		cfg.FromName = "Expedia Inspired"
	}
	if cfg.CodeMinutes <= 0 {
		cfg.CodeMinutes = 10
	}
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) message(to, code string, purpose domain.OTPPurpose) (*gomail.Msg, error) {
	subject, body, err := render(code, purpose, s.cfg.CodeMinutes)
	if err != nil {
		return nil, err
	}
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.cfg.FromName, s.cfg.FromEmail); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, body)
	return msg, nil
}

func (s *SMTPSender) SendOTP(ctx context.Context, to, code string, purpose domain.OTPPurpose) error {
	msg, err := s.message(to, code, purpose)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	start := time.Now()
	err = client.DialAndSendWithContext(ctx, msg)
	status := 250
	if err != nil {
		status = 0
	}
	observability.ObserveExternal("smtp", string(purpose), status, time.Since(start))
	if err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
