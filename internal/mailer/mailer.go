// Package mailer delivers transactional email through a configured provider.
package mailer

import (
	"context"
	"errors"
)

// Message is a single outgoing email. HTML is required; Text is the
// plain-text alternative.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender hands a message to the mail provider and returns the provider's
// message id when it reports one.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

func (m Message) validate() error {
	switch {
	case m.To == "":
		return errors.New("recipient email address cannot be empty")
	case m.From == "":
		return errors.New("sender email address cannot be empty")
	case m.Subject == "":
		return errors.New("email subject cannot be empty")
	}
	return nil
}
