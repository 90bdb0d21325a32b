package payment

import (
	"net/http"

	"rent-hub/payment/gateway/gocardless"
	"rent-hub/payment/gateway/paypal"
	"rent-hub/payment/gateway/square"
	"rent-hub/payment/gateway/stripe"
	"rent-hub/payment/types"
)

// PaymentGateway is the capability set every payment provider implements.
// Every method is side-effect-free with respect to our own storage; config
// persistence belongs to the factory and the model layer, never to a
// provider. Failures surface as nil / Valid:false sentinels so route
// handlers can use plain falsy checks — no provider error type crosses this
// boundary.
type PaymentGateway interface {
	Name() string
	ValidateCredentials(gatewayConfig string) *types.ValidationResult
	GetAccountStatus(gatewayConfig string) *types.AccountStatus
	CreateCheckoutSession(gatewayConfig string, params *types.CheckoutParams) *types.CheckoutSession
	// VerifyWebhook authenticates an inbound callback. body must be the raw
	// request bytes — re-serializing breaks HMAC verification. A nil return
	// is a hard rejection.
	VerifyWebhook(gatewayConfig string, body []byte, signature string, headers http.Header) *types.WebhookEvent
}

var Gateways = make(map[string]PaymentGateway)

func init() {
	Gateways["stripe"] = &stripe.Stripe{}
	Gateways["paypal"] = &paypal.PayPal{}
	Gateways["square"] = &square.Square{}
	Gateways["gocardless"] = &gocardless.GoCardless{}
}

// GetGateway resolves a provider key. Unknown keys yield nil so callers can
// treat "not supported" the same as "not configured".
func GetGateway(provider string) PaymentGateway {
	return Gateways[provider]
}
