package gocardless

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"rent-hub/common/logger"
	"rent-hub/common/requester"
	"rent-hub/payment/types"
)

type GoCardless struct{}

type GoCardlessConfig struct {
	SecretKey     string `json:"secret_key"`
	WebhookSecret string `json:"webhook_secret"`
	Sandbox       bool   `json:"sandbox"`
}

const SignatureHeader = "Webhook-Signature"

const (
	currency   = "USD"
	apiVersion = "2015-07-06"
	achScheme  = "ach"
)

var (
	liveAPIBase    = "https://api.gocardless.com"
	sandboxAPIBase = "https://api-sandbox.gocardless.com"
)

func (g *GoCardless) Name() string {
	return "gocardless"
}

func getGoCardlessConfig(gatewayConfig string) (*GoCardlessConfig, error) {
	var config GoCardlessConfig
	if err := json.Unmarshal([]byte(gatewayConfig), &config); err != nil {
		return nil, errors.New("config error")
	}
	return &config, nil
}

func apiBase(config *GoCardlessConfig) string {
	if config.Sandbox {
		return sandboxAPIBase
	}
	return liveAPIBase
}

func commonHeaders(config *GoCardlessConfig) map[string]string {
	return map[string]string{
		"Authorization":      "Bearer " + config.SecretKey,
		"GoCardless-Version": apiVersion,
	}
}

type creditorsResponse struct {
	Creditors []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"creditors"`
}

func (g *GoCardless) ValidateCredentials(gatewayConfig string) *types.ValidationResult {
	config, err := getGoCardlessConfig(gatewayConfig)
	if err != nil {
		return &types.ValidationResult{Valid: false, Error: err.Error()}
	}
	if config.SecretKey == "" {
		return &types.ValidationResult{Valid: false, Error: "missing secret_key"}
	}

	client := requester.NewHTTPRequester()
	req, err := client.NewRequest(http.MethodGet, apiBase(config)+"/creditors",
		requester.WithHeader(commonHeaders(config)))
	if err != nil {
		return &types.ValidationResult{Valid: false, Error: err.Error()}
	}

	var creditors creditorsResponse
	if _, err = client.SendRequest(req, &creditors); err != nil {
		return &types.ValidationResult{Valid: false, Error: err.Error()}
	}

	name := "GoCardless account"
	if len(creditors.Creditors) > 0 && creditors.Creditors[0].Name != "" {
		name = creditors.Creditors[0].Name
	}
	return &types.ValidationResult{Valid: true, AccountName: name}
}

func (g *GoCardless) GetAccountStatus(gatewayConfig string) *types.AccountStatus {
	result := g.ValidateCredentials(gatewayConfig)
	return &types.AccountStatus{
		Connected:   result.Valid,
		AccountName: result.AccountName,
		Error:       result.Error,
	}
}

type billingRequestBody struct {
	BillingRequests struct {
		PaymentRequest struct {
			Amount      int64  `json:"amount"`
			Currency    string `json:"currency"`
			Description string `json:"description"`
		} `json:"payment_request"`
		MandateRequest struct {
			Scheme string `json:"scheme"`
		} `json:"mandate_request"`
		Metadata map[string]string `json:"metadata"`
	} `json:"billing_requests"`
}

type billingRequestResponse struct {
	BillingRequests struct {
		ID string `json:"id"`
	} `json:"billing_requests"`
}

type billingRequestFlowBody struct {
	BillingRequestFlows struct {
		RedirectURI string `json:"redirect_uri"`
		ExitURI     string `json:"exit_uri"`
		Links       struct {
			BillingRequest string `json:"billing_request"`
		} `json:"links"`
	} `json:"billing_request_flows"`
}

type billingRequestFlowResponse struct {
	BillingRequestFlows struct {
		ID               string `json:"id"`
		AuthorisationURL string `json:"authorisation_url"`
	} `json:"billing_request_flows"`
}

// CreateCheckoutSession is a two-step flow: a Billing Request carrying the
// payment and ACH mandate intent, then a Billing Request Flow that yields the
// hosted authorisation URL. A billing request without an id short-circuits —
// no flow call is attempted.
func (g *GoCardless) CreateCheckoutSession(gatewayConfig string, params *types.CheckoutParams) *types.CheckoutSession {
	config, err := getGoCardlessConfig(gatewayConfig)
	if err != nil || config.SecretKey == "" {
		return nil
	}

	var request billingRequestBody
	request.BillingRequests.PaymentRequest.Amount = params.AmountCents()
	request.BillingRequests.PaymentRequest.Currency = currency
	request.BillingRequests.PaymentRequest.Description = params.Description
	request.BillingRequests.MandateRequest.Scheme = achScheme
	request.BillingRequests.Metadata = params.Metadata(g.Name())

	headers := commonHeaders(config)
	headers["Idempotency-Key"] = params.IdempotencyKey()

	client := requester.NewHTTPRequester()
	req, err := client.NewRequest(http.MethodPost, apiBase(config)+"/billing_requests",
		requester.WithBody(request),
		requester.WithHeader(headers))
	if err != nil {
		return nil
	}

	var created billingRequestResponse
	if _, err = client.SendRequest(req, &created); err != nil {
		logger.SysError("gocardless billing request failed: " + err.Error())
		return nil
	}
	if created.BillingRequests.ID == "" {
		logger.SysError("gocardless billing request response has no id")
		return nil
	}

	var flow billingRequestFlowBody
	flow.BillingRequestFlows.RedirectURI = params.SuccessURL
	flow.BillingRequestFlows.ExitURI = params.CancelURL
	flow.BillingRequestFlows.Links.BillingRequest = created.BillingRequests.ID

	req, err = client.NewRequest(http.MethodPost, apiBase(config)+"/billing_request_flows",
		requester.WithBody(flow),
		requester.WithHeader(commonHeaders(config)))
	if err != nil {
		return nil
	}

	var createdFlow billingRequestFlowResponse
	if _, err = client.SendRequest(req, &createdFlow); err != nil {
		logger.SysError("gocardless billing request flow failed: " + err.Error())
		return nil
	}
	if createdFlow.BillingRequestFlows.AuthorisationURL == "" {
		return nil
	}

	return &types.CheckoutSession{
		Provider:  g.Name(),
		SessionID: created.BillingRequests.ID,
		URL:       createdFlow.BillingRequestFlows.AuthorisationURL,
	}
}

// VerifyWebhook checks the hex-encoded HMAC-SHA256 GoCardless computes over
// the raw body. The comparison is constant-time.
func (g *GoCardless) VerifyWebhook(gatewayConfig string, body []byte, signature string, _ http.Header) *types.WebhookEvent {
	config, err := getGoCardlessConfig(gatewayConfig)
	if err != nil || config.WebhookSecret == "" {
		return nil
	}

	mac := hmac.New(sha256.New, []byte(config.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		logger.SysError("gocardless webhook signature mismatch")
		return nil
	}

	var event map[string]any
	if err := json.Unmarshal(body, &event); err != nil {
		return nil
	}

	// GoCardless delivers a batch of events per webhook; the envelope is the
	// verified payload.
	return &types.WebhookEvent{
		Provider: g.Name(),
		Type:     "events",
		Data:     event,
		Raw:      body,
	}
}
