// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds the relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers mail through an SMTP relay.
type SMTPMailer struct {
	client *mail.Client
	from   string
	logger *slog.Logger
}

// NewSMTPMailer configures a client for the relay. No connection is opened
// until the first message is sent.
func NewSMTPMailer(config SMTPConfig, logger *slog.Logger) (*SMTPMailer, error) {
	options := []mail.Option{
		mail.WithPort(config.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if config.Username != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(config.Username),
			mail.WithPassword(config.Password),
		)
	}

	client, err := mail.NewClient(config.Host, options...)
	if err != nil {
		return nil, fmt.Errorf("smtp_client_failed: %w", err)
	}

	return &SMTPMailer{client: client, from: config.From, logger: logger}, nil
}

// Send implements [Mailer].
func (mailer *SMTPMailer) Send(context context.Context, message Message) error {
	rendered, err := Render(message)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(mailer.from); err != nil {
		return fmt.Errorf("mail_from_invalid: %w", err)
	}
	if err := msg.AddToFormat(message.To.Name, message.To.Email); err != nil {
		return fmt.Errorf("mail_recipient_invalid: %w", err)
	}
	msg.Subject(rendered.Subject)
	msg.SetBodyString(mail.TypeTextPlain, rendered.Text)
	msg.AddAlternativeString(mail.TypeTextHTML, rendered.HTML)

	if err := mailer.client.DialAndSendWithContext(context, msg); err != nil {
		return fmt.Errorf("mail_send_failed: %w", err)
	}

	mailer.logger.InfoContext(context, "mail_sent",
		slog.String("kind", string(message.Kind)),
		slog.String("to", message.To.Email),
	)
	return nil
}

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a mailer for environments without a relay.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send implements [Mailer].
func (mailer *LogMailer) Send(context context.Context, message Message) error {
	rendered, err := Render(message)
	if err != nil {
		return err
	}

	mailer.logger.InfoContext(context, "mail_logged",
		slog.String("kind", string(message.Kind)),
		slog.String("to", message.To.Email),
		slog.String("subject", rendered.Subject),
		slog.String("url", message.URL),
	)
	return nil
}
