package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/arnold/visionboard-api/internal/outbound"
	"github.com/gofiber/fiber/v2"
)

// AbacatePay is the Abacate Pay billing API client.
type AbacatePay struct {
	baseURL string
	apiKey  string
	timeout time.Duration
}

func NewAbacatePay(baseURL, apiKey string, timeout time.Duration) *AbacatePay {
	return &AbacatePay{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
	}
}

type createPixRequest struct {
	Amount      int64    `json:"amount"`
	Description string   `json:"description,omitempty"`
	ExternalID  string   `json:"externalId,omitempty"`
	Methods     []string `json:"methods"`
}

type pixCharge struct {
	ID           string `json:"id"`
	BRCode       string `json:"brCode"`
	BRCodeBase64 string `json:"brCodeBase64"`
	QRCode       string `json:"qrCode"`
	QRCodeBase64 string `json:"qrCodeBase64"`
	ExpiresAt    string `json:"expiresAt"`
	Status       string `json:"status"`
}

// envelope matches responses that wrap the payload in {"data": ...}.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func (p *AbacatePay) CreateCharge(ctx context.Context, amountCents int64, description, externalID string) (*Charge, error) {
	a := fiber.Post(p.baseURL + "/billing/pix")
	a.Set("Authorization", "Bearer "+p.apiKey)
	a.JSON(createPixRequest{
		Amount:      amountCents,
		Description: description,
		ExternalID:  externalID,
		Methods:     []string{"PIX"},
	})

	body, err := p.do(ctx, a)
	if err != nil {
		return nil, err
	}

	var raw pixCharge
	if err := json.Unmarshal(unwrap(body), &raw); err != nil {
		return nil, fmt.Errorf("%w: decode charge: %v", ErrMalformedCharge, err)
	}
	return raw.charge()
}

func (p *AbacatePay) CheckStatus(ctx context.Context, chargeID string) (*Status, error) {
	a := fiber.Get(p.baseURL + "/billing/" + chargeID)
	a.Set("Authorization", "Bearer "+p.apiKey)

	body, err := p.do(ctx, a)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(unwrap(body), &raw); err != nil {
		return nil, fmt.Errorf("%w: decode status: %v", ErrUpstream, err)
	}
	if raw.Status == "" {
		return nil, fmt.Errorf("%w: status missing from response", ErrUpstream)
	}
	return &Status{Status: raw.Status, Paid: IsPaid(raw.Status)}, nil
}

func (p *AbacatePay) do(ctx context.Context, a *fiber.Agent) ([]byte, error) {
	code, body, err := outbound.Do(ctx, a, p.timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if code < 200 || code > 299 {
		log.Printf("Payment: Abacate Pay returned %d: %s", code, truncate(body, 512))
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, code)
	}
	return body, nil
}

func (c pixCharge) charge() (*Charge, error) {
	code := c.BRCode
	if code == "" {
		code = c.QRCode
	}
	image := c.BRCodeBase64
	if image == "" {
		image = c.QRCodeBase64
	}

	var missing []string
	if c.ID == "" {
		missing = append(missing, "id")
	}
	if code == "" {
		missing = append(missing, "brCode")
	}
	if image == "" {
		missing = append(missing, "brCodeBase64")
	}
	if c.ExpiresAt == "" {
		missing = append(missing, "expiresAt")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedCharge, strings.Join(missing, ", "))
	}

	expires, err := time.Parse(time.RFC3339, c.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("%w: expiresAt: %v", ErrMalformedCharge, err)
	}

	return &Charge{
		ID:           c.ID,
		BRCode:       code,
		BRCodeBase64: image,
		ExpiresAt:    expires,
		Status:       c.Status,
	}, nil
}

func unwrap(body []byte) []byte {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		return env.Data
	}
	return body
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
