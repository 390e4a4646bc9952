package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/arnold/visionboard-api/internal/blobstore"
	"github.com/arnold/visionboard-api/internal/exporter"
	"github.com/arnold/visionboard-api/internal/handlers"
	"github.com/arnold/visionboard-api/internal/mailer"
	"github.com/arnold/visionboard-api/internal/payment"
	"github.com/arnold/visionboard-api/internal/services"
	"github.com/arnold/visionboard-api/internal/store"
	"github.com/arnold/visionboard-api/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const (
	cronSecret    = "cron-secret"
	webhookSecret = "hook-secret"
)

type stubProvider struct {
	mu     sync.Mutex
	seq    int
	err    error
	status map[string]string
}

func (p *stubProvider) CreateCharge(_ context.Context, amountCents int64, _, externalID string) (*payment.Charge, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	p.seq++
	id := fmt.Sprintf("pix_char_%d", p.seq)
	p.status[id] = "PENDING"
	return &payment.Charge{
		ID:           id,
		BRCode:       "00020101" + externalID,
		BRCodeBase64: "data:image/png;base64,AAA",
		ExpiresAt:    time.Now().Add(time.Hour),
		Status:       "PENDING",
	}, nil
}

func (p *stubProvider) CheckStatus(_ context.Context, id string) (*payment.Status, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.status[id]
	if !ok {
		return nil, fmt.Errorf("%w: status 404", payment.ErrUpstream)
	}
	return &payment.Status{Status: st, Paid: payment.IsPaid(st)}, nil
}

func (p *stubProvider) set(id, status string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status[id] = status
}

type stubMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *stubMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

type testEnv struct {
	app      *fiber.App
	subs     *store.Submissions
	provider *stubProvider
	mail     *stubMailer
	hub      *handlers.PaymentHub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	subs := store.NewSubmissions(db)
	charges := store.NewCharges(db)
	drafts := store.NewDrafts(db)

	provider := &stubProvider{status: map[string]string{}}
	mail := &stubMailer{}
	hub := handlers.NewPaymentHub()
	dir := t.TempDir()
	blobs := blobstore.NewLocal(dir, "http://localhost:8080")

	h := handlers.New(handlers.Deps{
		Drafts:      services.NewDraftService(drafts),
		Submissions: services.NewSubmissionService(subs, drafts, time.Now),
		Payments: services.NewPaymentService(subs, charges, provider, hub, services.PaymentConfig{
			AmountCents: 499,
			Description: "Vision Board - 1 Year Email Reminder",
			Timeout:     time.Second,
		}),
		Sweeper: services.NewSweeper(subs, exporter.NewPNG(exporter.HTTPFetcher{Timeout: time.Second}), blobs, mail, nil, services.SweepConfig{
			Timeout: 5 * time.Second,
		}),
		Blobs: blobs,
		Hub:   hub,
	})

	app := fiber.New(fiber.Config{BodyLimit: handlers.MaxUploadSize + 1<<20})
	Setup(app, h, Options{
		CronSecret:    cronSecret,
		WebhookSecret: webhookSecret,
		UploadsDir:    dir,
	})
	return &testEnv{app: app, subs: subs, provider: provider, mail: mail, hub: hub}
}

type response struct {
	status int
	body   map[string]any
	raw    []byte
}

func (e *testEnv) do(t *testing.T, req *http.Request) response {
	t.Helper()
	resp, err := e.app.Test(req, 10_000)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := response{status: resp.StatusCode, raw: raw}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out.body))
	}
	return out
}

func (e *testEnv) request(t *testing.T, method, target string, body any, headers ...string) response {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return e.do(t, req)
}
