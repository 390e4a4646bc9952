package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/arnold/visionboard-api/internal/mailer"
	"github.com/arnold/visionboard-api/internal/models"
	"github.com/arnold/visionboard-api/internal/payment"
	"github.com/arnold/visionboard-api/internal/store"
	"github.com/arnold/visionboard-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	subs    *store.Submissions
	charges *store.Charges
	drafts  *store.Drafts
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewTestDB(t)
	return &fixture{
		subs:    store.NewSubmissions(db),
		charges: store.NewCharges(db),
		drafts:  store.NewDrafts(db),
	}
}

// seed stores a submission in the given state.
func (f *fixture) seed(t *testing.T, email, sendDate string, status models.PaymentStatus) *models.Submission {
	t.Helper()
	sub := &models.Submission{
		Email:             email,
		GoalsData:         []byte(`{"version":"2.0","goals":[{"id":"g1","title":"Run a marathon","category":"health","order":0}]}`),
		PaymentStatus:     status,
		ScheduledSendDate: sendDate,
	}
	require.NoError(t, f.subs.Insert(context.Background(), sub))
	return sub
}

type fakeProvider struct {
	mu      sync.Mutex
	seq     int
	calls   int
	err     error
	expires time.Time
	status  map[string]string
	missing bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{expires: time.Now().Add(time.Hour), status: map[string]string{}}
}

func (p *fakeProvider) CreateCharge(_ context.Context, amountCents int64, _, externalID string) (*payment.Charge, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	if p.missing {
		return nil, fmt.Errorf("%w: missing brCode", payment.ErrMalformedCharge)
	}
	p.seq++
	id := fmt.Sprintf("pix_char_%d", p.seq)
	p.status[id] = "PENDING"
	return &payment.Charge{
		ID:           id,
		BRCode:       "00020101" + externalID,
		BRCodeBase64: "data:image/png;base64,AAA",
		ExpiresAt:    p.expires,
		Status:       "PENDING",
	}, nil
}

func (p *fakeProvider) CheckStatus(_ context.Context, id string) (*payment.Status, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.status[id]
	if !ok {
		return nil, fmt.Errorf("%w: status 404", payment.ErrUpstream)
	}
	return &payment.Status{Status: st, Paid: payment.IsPaid(st)}, nil
}

func (p *fakeProvider) set(id, status string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status[id] = status
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type recordedEvents struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (r *recordedEvents) PaymentCompleted(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

func (r *recordedEvents) completed() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID(nil), r.ids...)
}

type fakeExporter struct {
	err error
}

func (e fakeExporter) Render(ctx context.Context, snap models.Snapshot) ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return []byte("png:" + snap.FormatVersion()), nil
}

type fakeBlobs struct {
	mu      sync.Mutex
	uploads []string
}

func (b *fakeBlobs) Upload(_ context.Context, data []byte, filename, contentType string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploads = append(b.uploads, filename)
	return "https://cdn.example.com/goals/" + filename, nil
}

type fakeMailer struct {
	mu    sync.Mutex
	sent  []mailer.Message
	fail  map[string]bool
	block chan struct{}
}

func (m *fakeMailer) Send(ctx context.Context, msg mailer.Message) error {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[msg.To] {
		return &mailer.SendError{To: msg.To, StatusCode: 500, Body: "boom"}
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, msg := range m.sent {
		out = append(out, msg.To)
	}
	return out
}

type recordingNotifier struct {
	results []*SweepResult
}

func (n *recordingNotifier) SweepFinished(_ context.Context, r *SweepResult) {
	n.results = append(n.results, r)
}

var errRender = errors.New("render failed")
