// Package mailer sends transactional email.
package mailer

import (
	"context"
	"fmt"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SendError describes a rejected send in enough detail to log and retry.
type SendError struct {
	To         string
	StatusCode int
	Body       string
	Err        error
}

func (e *SendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("send email to %s: %v", e.To, e.Err)
	}
	return fmt.Sprintf("send email to %s: status %d: %s", e.To, e.StatusCode, e.Body)
}

func (e *SendError) Unwrap() error { return e.Err }
