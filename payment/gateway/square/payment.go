package square

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"rent-hub/common/logger"
	"rent-hub/common/requester"
	"rent-hub/payment/types"
)

type Square struct{}

type SquareConfig struct {
	SecretKey     string `json:"secret_key"`
	WebhookSecret string `json:"webhook_secret"`
	Sandbox       bool   `json:"sandbox"`
}

const SignatureHeader = "X-Square-Hmacsha256-Signature"

const (
	currency   = "USD"
	apiVersion = "2024-06-04"
)

var (
	productionAPIBase = "https://connect.squareup.com"
	sandboxAPIBase    = "https://connect.squareupsandbox.com"
)

func (s *Square) Name() string {
	return "square"
}

func getSquareConfig(gatewayConfig string) (*SquareConfig, error) {
	var config SquareConfig
	if err := json.Unmarshal([]byte(gatewayConfig), &config); err != nil {
		return nil, errors.New("config error")
	}
	return &config, nil
}

func apiBase(config *SquareConfig) string {
	if config.Sandbox {
		return sandboxAPIBase
	}
	return productionAPIBase
}

func commonHeaders(config *SquareConfig) map[string]string {
	return map[string]string{
		"Authorization":  "Bearer " + config.SecretKey,
		"Square-Version": apiVersion,
	}
}

type merchantResponse struct {
	Merchant struct {
		ID           string `json:"id"`
		BusinessName string `json:"business_name"`
	} `json:"merchant"`
}

func (s *Square) ValidateCredentials(gatewayConfig string) *types.ValidationResult {
	config, err := getSquareConfig(gatewayConfig)
	if err != nil {
		return &types.ValidationResult{Valid: false, Error: err.Error()}
	}
	if config.SecretKey == "" {
		return &types.ValidationResult{Valid: false, Error: "missing secret_key"}
	}

	client := requester.NewHTTPRequester()
	req, err := client.NewRequest(http.MethodGet, apiBase(config)+"/v2/merchants/me",
		requester.WithHeader(commonHeaders(config)))
	if err != nil {
		return &types.ValidationResult{Valid: false, Error: err.Error()}
	}

	var merchant merchantResponse
	if _, err = client.SendRequest(req, &merchant); err != nil {
		return &types.ValidationResult{Valid: false, Error: err.Error()}
	}

	name := merchant.Merchant.BusinessName
	if name == "" {
		name = "Square account"
	}
	return &types.ValidationResult{Valid: true, AccountName: name}
}

func (s *Square) GetAccountStatus(gatewayConfig string) *types.AccountStatus {
	result := s.ValidateCredentials(gatewayConfig)
	return &types.AccountStatus{
		Connected:   result.Valid,
		AccountName: result.AccountName,
		Error:       result.Error,
	}
}

type locationsResponse struct {
	Locations []struct {
		ID string `json:"id"`
	} `json:"locations"`
}

type money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type lineItem struct {
	Name           string            `json:"name"`
	Quantity       string            `json:"quantity"`
	BasePriceMoney money             `json:"base_price_money"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type paymentLinkRequest struct {
	IdempotencyKey  string `json:"idempotency_key"`
	Order           order  `json:"order"`
	CheckoutOptions struct {
		RedirectURL string `json:"redirect_url,omitempty"`
	} `json:"checkout_options"`
}

type order struct {
	LocationID string     `json:"location_id"`
	LineItems  []lineItem `json:"line_items"`
}

type paymentLinkResponse struct {
	PaymentLink struct {
		ID      string `json:"id"`
		URL     string `json:"url"`
		OrderID string `json:"order_id"`
	} `json:"payment_link"`
}

// CreateCheckoutSession creates a Payment Link against the company's first
// Location. Square bills in integer cents on the line item.
func (s *Square) CreateCheckoutSession(gatewayConfig string, params *types.CheckoutParams) *types.CheckoutSession {
	config, err := getSquareConfig(gatewayConfig)
	if err != nil || config.SecretKey == "" {
		return nil
	}

	locationID, err := s.firstLocation(config)
	if err != nil {
		logger.SysError("square location lookup failed: " + err.Error())
		return nil
	}

	request := paymentLinkRequest{
		IdempotencyKey: params.IdempotencyKey(),
		Order: order{
			LocationID: locationID,
			LineItems: []lineItem{
				{
					Name:     params.Description,
					Quantity: "1",
					BasePriceMoney: money{
						Amount:   params.AmountCents(),
						Currency: currency,
					},
					Metadata: params.Metadata(s.Name()),
				},
			},
		},
	}
	request.CheckoutOptions.RedirectURL = params.SuccessURL

	client := requester.NewHTTPRequester()
	req, err := client.NewRequest(http.MethodPost, apiBase(config)+"/v2/online-checkout/payment-links",
		requester.WithBody(request),
		requester.WithHeader(commonHeaders(config)))
	if err != nil {
		return nil
	}

	var created paymentLinkResponse
	if _, err = client.SendRequest(req, &created); err != nil {
		logger.SysError("square payment link creation failed: " + err.Error())
		return nil
	}
	if created.PaymentLink.URL == "" {
		return nil
	}

	return &types.CheckoutSession{
		Provider:  s.Name(),
		SessionID: created.PaymentLink.ID,
		URL:       created.PaymentLink.URL,
	}
}

func (s *Square) firstLocation(config *SquareConfig) (string, error) {
	client := requester.NewHTTPRequester()
	req, err := client.NewRequest(http.MethodGet, apiBase(config)+"/v2/locations",
		requester.WithHeader(commonHeaders(config)))
	if err != nil {
		return "", err
	}

	var locations locationsResponse
	if _, err = client.SendRequest(req, &locations); err != nil {
		return "", err
	}
	if len(locations.Locations) == 0 {
		return "", errors.New("no locations on account")
	}
	return locations.Locations[0].ID, nil
}

// VerifyWebhook checks the HMAC-SHA256 signature Square computes over the raw
// body, base64-encoded. The comparison is constant-time.
func (s *Square) VerifyWebhook(gatewayConfig string, body []byte, signature string, _ http.Header) *types.WebhookEvent {
	config, err := getSquareConfig(gatewayConfig)
	if err != nil || config.WebhookSecret == "" {
		return nil
	}

	mac := hmac.New(sha256.New, []byte(config.WebhookSecret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		logger.SysError("square webhook signature mismatch")
		return nil
	}

	var event map[string]any
	if err := json.Unmarshal(body, &event); err != nil {
		return nil
	}

	eventType, _ := event["type"].(string)
	return &types.WebhookEvent{
		Provider: s.Name(),
		Type:     eventType,
		Data:     event,
		Raw:      body,
	}
}
