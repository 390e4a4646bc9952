package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arnold/visionboard-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCharge(t *testing.T) {
	var got createPixRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/billing/pix", r.URL.Path)
		assert.Equal(t, "Bearer key_123", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":"pix_char_1","brCode":"00020101","brCodeBase64":"data:image/png;base64,AAA","expiresAt":"2026-01-02T15:04:05Z","status":"PENDING"},"error":null}`))
	}))
	defer srv.Close()

	p := NewAbacatePay(srv.URL+"/", "key_123", 5*time.Second)
	ch, err := p.CreateCharge(context.Background(), 499, "reminder", "sub-1")
	require.NoError(t, err)

	assert.Equal(t, int64(499), got.Amount)
	assert.Equal(t, "sub-1", got.ExternalID)
	assert.Equal(t, []string{"PIX"}, got.Methods)

	assert.Equal(t, "pix_char_1", ch.ID)
	assert.Equal(t, "00020101", ch.BRCode)
	assert.Equal(t, "data:image/png;base64,AAA", ch.BRCodeBase64)
	assert.Equal(t, time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), ch.ExpiresAt.UTC())
	assert.Equal(t, "PENDING", ch.Status)
}

func TestCreateChargeAcceptsBarePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"pix_2","qrCode":"0002","qrCodeBase64":"BBB","expiresAt":"2026-01-02T15:04:05Z"}`))
	}))
	defer srv.Close()

	ch, err := NewAbacatePay(srv.URL, "k", time.Second).CreateCharge(context.Background(), 499, "d", "x")
	require.NoError(t, err)
	assert.Equal(t, "0002", ch.BRCode)
	assert.Equal(t, "BBB", ch.BRCodeBase64)
}

func TestCreateChargeRejectsIncompleteResponse(t *testing.T) {
	bodies := map[string]string{
		"missing id":       `{"data":{"brCode":"x","brCodeBase64":"y","expiresAt":"2026-01-02T15:04:05Z"}}`,
		"missing code":     `{"data":{"id":"a","brCodeBase64":"y","expiresAt":"2026-01-02T15:04:05Z"}}`,
		"missing image":    `{"data":{"id":"a","brCode":"x","expiresAt":"2026-01-02T15:04:05Z"}}`,
		"missing expiry":   `{"data":{"id":"a","brCode":"x","brCodeBase64":"y"}}`,
		"bad expiry":       `{"data":{"id":"a","brCode":"x","brCodeBase64":"y","expiresAt":"tomorrow"}}`,
		"not json":         `<html>oops</html>`,
		"data is an array": `{"data":[]}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			ch, err := NewAbacatePay(srv.URL, "k", time.Second).CreateCharge(context.Background(), 499, "d", "x")
			assert.ErrorIs(t, err, ErrMalformedCharge)
			assert.Nil(t, ch)
		})
	}
}

func TestCreateChargeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewAbacatePay(srv.URL, "bad", time.Second).CreateCharge(context.Background(), 499, "d", "x")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestCreateChargeHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAbacatePay("http://127.0.0.1:1", "k", time.Second).CreateCharge(ctx, 499, "d", "x")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestCheckStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/billing/paid":
			_, _ = w.Write([]byte(`{"data":{"id":"paid","status":"PAID"}}`))
		case "/billing/pending":
			_, _ = w.Write([]byte(`{"id":"pending","status":"PENDING"}`))
		case "/billing/blank":
			_, _ = w.Write([]byte(`{}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	p := NewAbacatePay(srv.URL, "k", time.Second)

	st, err := p.CheckStatus(context.Background(), "paid")
	require.NoError(t, err)
	assert.Equal(t, &Status{Status: "PAID", Paid: true}, st)

	st, err = p.CheckStatus(context.Background(), "pending")
	require.NoError(t, err)
	assert.False(t, st.Paid)

	_, err = p.CheckStatus(context.Background(), "blank")
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = p.CheckStatus(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestTarget(t *testing.T) {
	tests := map[string]struct {
		want models.PaymentStatus
		ok   bool
	}{
		"PAID":      {models.PaymentCompleted, true},
		"completed": {models.PaymentCompleted, true},
		"FAILED":    {models.PaymentFailed, true},
		"CANCELLED": {models.PaymentFailed, true},
		"EXPIRED":   {models.PaymentExpired, true},
		"PENDING":   {"", false},
		"":          {"", false},
	}
	for in, tt := range tests {
		got, ok := Target(in)
		assert.Equal(t, tt.ok, ok, in)
		assert.Equal(t, tt.want, got, in)
	}
	assert.True(t, IsPaid("paid"))
	assert.False(t, IsPaid("FAILED"))
}
