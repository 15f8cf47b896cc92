// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package notify delivers account mail: the welcome message sent on signup and
the password reset link.

Architecture:

  - Mailer: The delivery contract consumed by the auth service.
  - SMTPMailer: Production delivery over SMTP (go-mail).
  - LogMailer: Development delivery that only logs the message.
  - Observed: Decorator that records every delivery outcome in metrics.

Bodies are rendered from embedded templates, one HTML and one plain-text
file per [Kind].
*/
package notify

import (
	"context"
	"strings"
)

// Kind identifies the mail template.
type Kind string

const (
	KindWelcome       Kind = "welcome"
	KindPasswordReset Kind = "password_reset"
)

// Recipient is the addressee of a message.
type Recipient struct {
	Name  string
	Email string
}

// FirstName returns the first word of the recipient name.
func (recipient Recipient) FirstName() string {
	if fields := strings.Fields(recipient.Name); len(fields) > 0 {
		return fields[0]
	}
	return recipient.Name
}

// Message is one outbound mail.
type Message struct {
	Kind Kind
	To   Recipient

	// URL is the call to action: the account page or the reset link.
	URL string
}

// Mailer sends account mail.
type Mailer interface {
	Send(context context.Context, message Message) error
}

// # Instrumentation

// Recorder receives the outcome of each delivery.
type Recorder interface {
	MailSent(kind string, err error)
}

// Observed wraps a Mailer and reports every outcome to a Recorder.
type Observed struct {
	next     Mailer
	recorder Recorder
}

// Observe decorates mailer with recorder.
func Observe(mailer Mailer, recorder Recorder) *Observed {
	return &Observed{next: mailer, recorder: recorder}
}

// Send implements [Mailer].
func (observed *Observed) Send(context context.Context, message Message) error {
	err := observed.next.Send(context, message)
	observed.recorder.MailSent(string(message.Kind), err)
	return err
}
