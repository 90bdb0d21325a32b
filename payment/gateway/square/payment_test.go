package square

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"rent-hub/payment/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutParams() *types.CheckoutParams {
	return &types.CheckoutParams{
		LeaseID:      "lease-42",
		CompanyID:    7,
		TenantUserID: "user-9",
		Amount:       decimal.NewFromFloat(1250.5),
		Description:  "Rent for September 2026",
		DueDate:      "2026-09-01",
		SuccessURL:   "https://example.com/success",
		CancelURL:    "https://example.com/cancel",
	}
}

func withSandbox(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	old := sandboxAPIBase
	sandboxAPIBase = ts.URL
	t.Cleanup(func() {
		sandboxAPIBase = old
		ts.Close()
	})
	return ts
}

const testConfig = `{"secret_key": "sq-token", "webhook_secret": "sq-webhook-secret", "sandbox": true}`

func squareSign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestName(t *testing.T) {
	assert.Equal(t, "square", (&Square{}).Name())
}

func TestCreateCheckoutSessionMissingSecretKey(t *testing.T) {
	var calls int32
	withSandbox(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))

	assert.Nil(t, (&Square{}).CreateCheckoutSession(`{"sandbox": true}`, checkoutParams()))
	assert.EqualValues(t, 0, atomic.LoadInt32(&calls))
}

func TestCreateCheckoutSession(t *testing.T) {
	var gotLink map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/locations", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer sq-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"locations": [{"id": "LOC-1"}, {"id": "LOC-2"}]}`)
	})
	mux.HandleFunc("/v2/online-checkout/payment-links", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotLink))
		fmt.Fprint(w, `{"payment_link": {"id": "PL-1", "url": "https://square.link/u/abc", "order_id": "ORD-1"}}`)
	})
	withSandbox(t, mux)

	session := (&Square{}).CreateCheckoutSession(testConfig, checkoutParams())
	require.NotNil(t, session)
	assert.Equal(t, "square", session.Provider)
	assert.Equal(t, "PL-1", session.SessionID)
	assert.Equal(t, "https://square.link/u/abc", session.URL)

	assert.Equal(t, "rent-lease-42-2026-09-01", gotLink["idempotency_key"])
	order := gotLink["order"].(map[string]any)
	assert.Equal(t, "LOC-1", order["location_id"])
	items := order["line_items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	price := item["base_price_money"].(map[string]any)
	assert.EqualValues(t, 125050, price["amount"])
	assert.Equal(t, "USD", price["currency"])
	metadata := item["metadata"].(map[string]any)
	assert.Equal(t, "rent", metadata["payment_type"])
	assert.Equal(t, "square", metadata["gateway_provider"])
}

func TestCreateCheckoutSessionNoLocations(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/locations", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"locations": []}`)
	})
	withSandbox(t, mux)

	assert.Nil(t, (&Square{}).CreateCheckoutSession(testConfig, checkoutParams()))
}

func TestValidateCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/merchants/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sq-token" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"errors": [{"category": "AUTHENTICATION_ERROR", "code": "UNAUTHORIZED"}]}`)
			return
		}
		fmt.Fprint(w, `{"merchant": {"id": "M-1", "business_name": "Pinnacle Pacific Properties"}}`)
	})
	withSandbox(t, mux)

	result := (&Square{}).ValidateCredentials(testConfig)
	require.NotNil(t, result)
	assert.True(t, result.Valid)
	assert.Equal(t, "Pinnacle Pacific Properties", result.AccountName)

	result = (&Square{}).ValidateCredentials(`{"secret_key": "wrong", "sandbox": true}`)
	require.NotNil(t, result)
	assert.False(t, result.Valid)

	result = (&Square{}).ValidateCredentials(`{"sandbox": true}`)
	require.NotNil(t, result)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Error, "secret_key")
}

func TestVerifyWebhook(t *testing.T) {
	s := &Square{}
	body := []byte(`{"merchant_id": "M-1", "type": "payment.updated", "data": {"id": "PAY-1"}}`)

	t.Run("valid signature", func(t *testing.T) {
		event := s.VerifyWebhook(testConfig, body, squareSign("sq-webhook-secret", body), nil)
		require.NotNil(t, event)
		assert.Equal(t, "square", event.Provider)
		assert.Equal(t, "payment.updated", event.Type)
	})

	t.Run("wrong signature", func(t *testing.T) {
		assert.Nil(t, s.VerifyWebhook(testConfig, body, squareSign("other-secret", body), nil))
	})

	t.Run("tampered body", func(t *testing.T) {
		sig := squareSign("sq-webhook-secret", body)
		assert.Nil(t, s.VerifyWebhook(testConfig, []byte(`{"type": "payment.updated"}`), sig, nil))
	})

	t.Run("no webhook secret", func(t *testing.T) {
		assert.Nil(t, s.VerifyWebhook(`{"secret_key": "sq-token"}`, body, squareSign("sq-webhook-secret", body), nil))
	})
}
