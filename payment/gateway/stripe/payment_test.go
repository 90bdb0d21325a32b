package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rent-hub/payment/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripeapi "github.com/stripe/stripe-go/v80"
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

func withTestBackend(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	backend := stripeapi.GetBackendWithConfig(stripeapi.APIBackend, &stripeapi.BackendConfig{
		URL: stripeapi.String(ts.URL),
	})
	testBackends = &stripeapi.Backends{API: backend, Connect: backend, Uploads: backend}
	t.Cleanup(func() {
		testBackends = nil
		ts.Close()
	})
	return ts
}

func signWebhook(secret string, body []byte, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", at.Unix())
	mac.Write(body)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestName(t *testing.T) {
	assert.Equal(t, "stripe", (&Stripe{}).Name())
}

func TestCreateCheckoutSessionMissingSecretKey(t *testing.T) {
	s := &Stripe{}
	assert.Nil(t, s.CreateCheckoutSession(`{}`, checkoutParams()))
	assert.Nil(t, s.CreateCheckoutSession(`not json`, checkoutParams()))
}

func TestCreateCheckoutSession(t *testing.T) {
	var gotIdempotencyKey string
	var gotForm map[string][]string

	withTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		gotIdempotencyKey = r.Header.Get("Idempotency-Key")
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "cs_test_123", "url": "https://checkout.stripe.com/c/pay/cs_test_123"}`)
	})

	s := &Stripe{}
	session := s.CreateCheckoutSession(`{"secret_key": "sk_test_ok"}`, checkoutParams())
	require.NotNil(t, session)

	assert.Equal(t, "stripe", session.Provider)
	assert.Equal(t, "cs_test_123", session.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_123", session.URL)

	assert.Equal(t, "rent-lease-42-2026-09-01", gotIdempotencyKey)
	assert.Equal(t, []string{"125050"}, gotForm["line_items[0][price_data][unit_amount]"])
	assert.Equal(t, []string{"rent"}, gotForm["metadata[payment_type]"])
	assert.Equal(t, []string{"stripe"}, gotForm["metadata[gateway_provider]"])
	assert.Equal(t, []string{"rent"}, gotForm["payment_intent_data[metadata][payment_type]"])
	assert.Equal(t, []string{"lease-42"}, gotForm["payment_intent_data[metadata][lease_id]"])
}

func TestValidateCredentialsInvalidKey(t *testing.T) {
	withTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"type": "invalid_request_error", "message": "Invalid API Key provided: sk_test_bad"}}`)
	})

	s := &Stripe{}
	result := s.ValidateCredentials(`{"secret_key": "sk_test_bad"}`)
	require.NotNil(t, result)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Error, "Invalid API Key")
}

func TestValidateCredentialsDisplayNameFallbacks(t *testing.T) {
	withTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/account", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "acct_1", "business_profile": {"name": "Edgewater Properties"}}`)
	})

	s := &Stripe{}
	result := s.ValidateCredentials(`{"secret_key": "sk_test_ok"}`)
	require.NotNil(t, result)
	assert.True(t, result.Valid)
	assert.Equal(t, "Edgewater Properties", result.AccountName)
}

func TestGetAccountStatusMissingSecret(t *testing.T) {
	s := &Stripe{}
	status := s.GetAccountStatus(`{}`)
	require.NotNil(t, status)
	assert.False(t, status.Connected)
	assert.NotEmpty(t, status.Error)
}

func TestVerifyWebhook(t *testing.T) {
	s := &Stripe{}
	secret := "whsec_test_secret"
	config := `{"secret_key": "sk_test_ok", "webhook_secret": "whsec_test_secret"}`
	body := []byte(`{"id": "evt_1", "type": "checkout.session.completed", "data": {"object": {"id": "cs_test_123"}}}`)

	t.Run("valid signature", func(t *testing.T) {
		event := s.VerifyWebhook(config, body, signWebhook(secret, body, time.Now()), nil)
		require.NotNil(t, event)
		assert.Equal(t, "stripe", event.Provider)
		assert.Equal(t, "checkout.session.completed", event.Type)
		assert.Equal(t, "cs_test_123", event.Data["id"])
	})

	t.Run("wrong secret", func(t *testing.T) {
		event := s.VerifyWebhook(config, body, signWebhook("whsec_other", body, time.Now()), nil)
		assert.Nil(t, event)
	})

	t.Run("tampered body", func(t *testing.T) {
		sig := signWebhook(secret, body, time.Now())
		event := s.VerifyWebhook(config, []byte(`{"id": "evt_2"}`), sig, nil)
		assert.Nil(t, event)
	})

	t.Run("stale timestamp", func(t *testing.T) {
		sig := signWebhook(secret, body, time.Now().Add(-time.Hour))
		event := s.VerifyWebhook(config, body, sig, nil)
		assert.Nil(t, event)
	})

	t.Run("no webhook secret configured", func(t *testing.T) {
		event := s.VerifyWebhook(`{"secret_key": "sk_test_ok"}`, body, signWebhook(secret, body, time.Now()), nil)
		assert.Nil(t, event)
	})
}
