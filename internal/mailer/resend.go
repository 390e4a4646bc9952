package mailer

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/arnold/visionboard-api/internal/outbound"
	"github.com/gofiber/fiber/v2"
)

// Resend delivers mail through the Resend HTTP API.
type Resend struct {
	baseURL string
	apiKey  string
	from    string
	timeout time.Duration
}

func NewResend(baseURL, apiKey, from string, timeout time.Duration) *Resend {
	return &Resend{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		from:    from,
		timeout: timeout,
	}
}

type resendEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (r *Resend) Send(ctx context.Context, msg Message) error {
	a := fiber.Post(r.baseURL + "/emails")
	a.Set("Authorization", "Bearer "+r.apiKey)
	a.JSON(resendEmail{
		From:    r.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})

	code, body, err := outbound.Do(ctx, a, r.timeout)
	if err != nil {
		return &SendError{To: msg.To, Err: err}
	}
	if code < 200 || code > 299 {
		return &SendError{To: msg.To, StatusCode: code, Body: errorMessage(body)}
	}
	return nil
}

// errorMessage extracts Resend's {"message": ...} text when present.
func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return string(body)
}
