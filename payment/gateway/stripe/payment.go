package stripe

import (
	"encoding/json"
	"errors"
	"net/http"

	"rent-hub/common/logger"
	"rent-hub/payment/types"

	stripeapi "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
	"github.com/stripe/stripe-go/v80/webhook"
)

type Stripe struct{}

type StripeConfig struct {
	SecretKey     string `json:"secret_key"`
	WebhookSecret string `json:"webhook_secret"`
}

// SignatureHeader carries Stripe's timestamped HMAC signature.
const SignatureHeader = "Stripe-Signature"

const currency = "usd"

// testBackends lets tests point the SDK at a local server. nil in production.
var testBackends *stripeapi.Backends

func (s *Stripe) Name() string {
	return "stripe"
}

// newClient builds a fresh SDK client per call. Keys can be rotated between
// calls, so nothing is cached.
func (s *Stripe) newClient(config *StripeConfig) *client.API {
	sc := &client.API{}
	sc.Init(config.SecretKey, testBackends)
	return sc
}

func getStripeConfig(gatewayConfig string) (*StripeConfig, error) {
	var config StripeConfig
	if err := json.Unmarshal([]byte(gatewayConfig), &config); err != nil {
		return nil, errors.New("config error")
	}
	return &config, nil
}

func (s *Stripe) ValidateCredentials(gatewayConfig string) *types.ValidationResult {
	config, err := getStripeConfig(gatewayConfig)
	if err != nil {
		return &types.ValidationResult{Valid: false, Error: err.Error()}
	}
	if config.SecretKey == "" {
		return &types.ValidationResult{Valid: false, Error: "missing secret_key"}
	}

	account, err := s.newClient(config).Accounts.Get()
	if err != nil {
		return &types.ValidationResult{Valid: false, Error: err.Error()}
	}

	return &types.ValidationResult{
		Valid:       true,
		AccountName: accountDisplayName(account),
	}
}

func (s *Stripe) GetAccountStatus(gatewayConfig string) *types.AccountStatus {
	result := s.ValidateCredentials(gatewayConfig)
	return &types.AccountStatus{
		Connected:   result.Valid,
		AccountName: result.AccountName,
		Error:       result.Error,
	}
}

// accountDisplayName digs the human-readable name out of Stripe's nested
// account shape, falling back through the dashboard display name and the
// business profile.
func accountDisplayName(account *stripeapi.Account) string {
	if account.Settings != nil && account.Settings.Dashboard != nil && account.Settings.Dashboard.DisplayName != "" {
		return account.Settings.Dashboard.DisplayName
	}
	if account.BusinessProfile != nil && account.BusinessProfile.Name != "" {
		return account.BusinessProfile.Name
	}
	return "Stripe account"
}

func (s *Stripe) CreateCheckoutSession(gatewayConfig string, params *types.CheckoutParams) *types.CheckoutSession {
	config, err := getStripeConfig(gatewayConfig)
	if err != nil || config.SecretKey == "" {
		return nil
	}

	metadata := params.Metadata(s.Name())

	sessionParams := &stripeapi.CheckoutSessionParams{
		Mode:       stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		SuccessURL: stripeapi.String(params.SuccessURL),
		CancelURL:  stripeapi.String(params.CancelURL),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{
				PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripeapi.String(currency),
					UnitAmount: stripeapi.Int64(params.AmountCents()),
					ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripeapi.String(params.Description),
					},
				},
				Quantity: stripeapi.Int64(1),
			},
		},
		// Metadata goes on the payment intent as well, so the charge can be
		// reconciled even when only the intent survives downstream.
		PaymentIntentData: &stripeapi.CheckoutSessionPaymentIntentDataParams{
			Metadata: metadata,
		},
	}
	for k, v := range metadata {
		sessionParams.AddMetadata(k, v)
	}
	sessionParams.IdempotencyKey = stripeapi.String(params.IdempotencyKey())

	session, err := s.newClient(config).CheckoutSessions.New(sessionParams)
	if err != nil {
		logger.SysError("stripe checkout session failed: " + err.Error())
		return nil
	}

	return &types.CheckoutSession{
		Provider:  s.Name(),
		SessionID: session.ID,
		URL:       session.URL,
	}
}

func (s *Stripe) VerifyWebhook(gatewayConfig string, body []byte, signature string, _ http.Header) *types.WebhookEvent {
	config, err := getStripeConfig(gatewayConfig)
	if err != nil || config.WebhookSecret == "" {
		return nil
	}

	// ConstructEvent does timestamp-tolerant HMAC verification internally.
	// Tenant accounts pin their own API versions, so a version mismatch is
	// not a verification failure.
	event, err := webhook.ConstructEventWithOptions(body, signature, config.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		logger.SysError("stripe webhook verification failed: " + err.Error())
		return nil
	}

	return &types.WebhookEvent{
		Provider: s.Name(),
		Type:     string(event.Type),
		Data:     event.Data.Object,
		Raw:      body,
	}
}
