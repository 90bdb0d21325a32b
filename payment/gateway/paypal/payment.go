package paypal

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"rent-hub/common/logger"
	"rent-hub/common/requester"
	"rent-hub/payment/types"
)

// PayPal talks to the REST API directly — no SDK. Every operation is two
// calls: a short-lived OAuth2 bearer token first, then the actual request.
type PayPal struct{}

type PayPalConfig struct {
	ClientID  string `json:"client_id"`
	SecretKey string `json:"secret_key"`
	WebhookID string `json:"webhook_id"`
	Sandbox   bool   `json:"sandbox"`
}

const SignatureHeader = "Paypal-Transmission-Sig"

const currency = "USD"

var (
	liveAPIBase    = "https://api-m.paypal.com"
	sandboxAPIBase = "https://api-m.sandbox.paypal.com"
)

func (p *PayPal) Name() string {
	return "paypal"
}

func getPayPalConfig(gatewayConfig string) (*PayPalConfig, error) {
	var config PayPalConfig
	if err := json.Unmarshal([]byte(gatewayConfig), &config); err != nil {
		return nil, errors.New("config error")
	}
	return &config, nil
}

func apiBase(config *PayPalConfig) string {
	if config.Sandbox {
		return sandboxAPIBase
	}
	return liveAPIBase
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// getAccessToken exchanges the client credentials for a bearer token via
// HTTP Basic auth. Tokens are not cached — credentials can rotate between
// calls and the exchange doubles as the liveness check.
func getAccessToken(config *PayPalConfig) (string, error) {
	auth := base64.StdEncoding.EncodeToString([]byte(config.ClientID + ":" + config.SecretKey))

	client := requester.NewHTTPRequester()
	req, err := client.NewRequest(http.MethodPost, apiBase(config)+"/v1/oauth2/token",
		requester.WithBody("grant_type=client_credentials"),
		requester.WithHeader(map[string]string{
			"Authorization": "Basic " + auth,
			"Content-Type":  "application/x-www-form-urlencoded",
		}))
	if err != nil {
		return "", err
	}

	var token tokenResponse
	if _, err = client.SendRequest(req, &token); err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", errors.New("empty access token")
	}
	return token.AccessToken, nil
}

func (p *PayPal) ValidateCredentials(gatewayConfig string) *types.ValidationResult {
	config, err := getPayPalConfig(gatewayConfig)
	if err != nil {
		return &types.ValidationResult{Valid: false, Error: err.Error()}
	}
	if config.ClientID == "" || config.SecretKey == "" {
		return &types.ValidationResult{Valid: false, Error: "missing client_id or secret_key"}
	}

	if _, err = getAccessToken(config); err != nil {
		return &types.ValidationResult{Valid: false, Error: err.Error()}
	}

	// A successful token exchange proves the credentials authenticate; the
	// token response itself carries no account display name.
	return &types.ValidationResult{Valid: true}
}

func (p *PayPal) GetAccountStatus(gatewayConfig string) *types.AccountStatus {
	result := p.ValidateCredentials(gatewayConfig)
	return &types.AccountStatus{
		Connected:   result.Valid,
		AccountName: result.AccountName,
		Error:       result.Error,
	}
}

type orderAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type purchaseUnit struct {
	Amount      orderAmount `json:"amount"`
	Description string      `json:"description,omitempty"`
	CustomID    string      `json:"custom_id,omitempty"`
}

type experienceContext struct {
	ReturnURL  string `json:"return_url"`
	CancelURL  string `json:"cancel_url"`
	UserAction string `json:"user_action"`
}

type orderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
	PaymentSource map[string]any `json:"payment_source"`
}

type orderLink struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

type orderResponse struct {
	ID     string      `json:"id"`
	Status string      `json:"status"`
	Links  []orderLink `json:"links"`
}

func (p *PayPal) CreateCheckoutSession(gatewayConfig string, params *types.CheckoutParams) *types.CheckoutSession {
	config, err := getPayPalConfig(gatewayConfig)
	if err != nil || config.ClientID == "" || config.SecretKey == "" {
		return nil
	}

	token, err := getAccessToken(config)
	if err != nil {
		logger.SysError("paypal token exchange failed: " + err.Error())
		return nil
	}

	// PayPal has no generic metadata map at the checkout-experience level,
	// so the reconciliation contract rides in custom_id as JSON.
	customID, err := json.Marshal(params.Metadata(p.Name()))
	if err != nil {
		return nil
	}

	order := orderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{
			{
				Amount: orderAmount{
					CurrencyCode: currency,
					Value:        params.AmountDollars(),
				},
				Description: params.Description,
				CustomID:    string(customID),
			},
		},
		PaymentSource: map[string]any{
			"paypal": map[string]any{
				"experience_context": experienceContext{
					ReturnURL:  params.SuccessURL,
					CancelURL:  params.CancelURL,
					UserAction: "PAY_NOW",
				},
			},
		},
	}

	client := requester.NewHTTPRequester()
	req, err := client.NewRequest(http.MethodPost, apiBase(config)+"/v2/checkout/orders",
		requester.WithBody(order),
		requester.WithHeader(map[string]string{
			"Authorization":     "Bearer " + token,
			"PayPal-Request-Id": params.IdempotencyKey(),
		}))
	if err != nil {
		return nil
	}

	var created orderResponse
	if _, err = client.SendRequest(req, &created); err != nil {
		logger.SysError("paypal order creation failed: " + err.Error())
		return nil
	}

	// HATEOAS link-relation lookup; the payer-action link may be absent and
	// that must not panic the call path.
	for _, link := range created.Links {
		if link.Rel == "payer-action" {
			return &types.CheckoutSession{
				Provider:  p.Name(),
				SessionID: created.ID,
				URL:       link.Href,
			}
		}
	}

	logger.SysError("paypal order response has no payer-action link")
	return nil
}

type verifyWebhookRequest struct {
	AuthAlgo         string          `json:"auth_algo"`
	CertURL          string          `json:"cert_url"`
	TransmissionID   string          `json:"transmission_id"`
	TransmissionSig  string          `json:"transmission_sig"`
	TransmissionTime string          `json:"transmission_time"`
	WebhookID        string          `json:"webhook_id"`
	WebhookEvent     json.RawMessage `json:"webhook_event"`
}

type verifyWebhookResponse struct {
	VerificationStatus string `json:"verification_status"`
}

// VerifyWebhook delegates to PayPal's own verification endpoint — PayPal does
// not support local HMAC verification. All five transmission headers plus the
// stored webhook id are required.
func (p *PayPal) VerifyWebhook(gatewayConfig string, body []byte, signature string, headers http.Header) *types.WebhookEvent {
	config, err := getPayPalConfig(gatewayConfig)
	if err != nil || config.WebhookID == "" {
		return nil
	}
	if config.ClientID == "" || config.SecretKey == "" {
		return nil
	}

	if signature == "" {
		signature = headers.Get(SignatureHeader)
	}

	token, err := getAccessToken(config)
	if err != nil {
		logger.SysError("paypal token exchange failed: " + err.Error())
		return nil
	}

	verify := verifyWebhookRequest{
		AuthAlgo:         headers.Get("Paypal-Auth-Algo"),
		CertURL:          headers.Get("Paypal-Cert-Url"),
		TransmissionID:   headers.Get("Paypal-Transmission-Id"),
		TransmissionSig:  signature,
		TransmissionTime: headers.Get("Paypal-Transmission-Time"),
		WebhookID:        config.WebhookID,
		WebhookEvent:     json.RawMessage(body),
	}

	client := requester.NewHTTPRequester()
	req, err := client.NewRequest(http.MethodPost, apiBase(config)+"/v1/notifications/verify-webhook-signature",
		requester.WithBody(verify),
		requester.WithHeader(map[string]string{
			"Authorization": "Bearer " + token,
		}))
	if err != nil {
		return nil
	}

	var result verifyWebhookResponse
	if _, err = client.SendRequest(req, &result); err != nil {
		logger.SysError("paypal webhook verification failed: " + err.Error())
		return nil
	}
	if result.VerificationStatus != "SUCCESS" {
		logger.SysError("paypal webhook verification status: " + result.VerificationStatus)
		return nil
	}

	var event map[string]any
	if err := json.Unmarshal(body, &event); err != nil {
		return nil
	}

	eventType, _ := event["event_type"].(string)
	return &types.WebhookEvent{
		Provider: p.Name(),
		Type:     eventType,
		Data:     event,
		Raw:      body,
	}
}
