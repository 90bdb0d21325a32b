package payment

import (
	"encoding/json"

	"rent-hub/common/logger"
	"rent-hub/model"
)

// primaryCredentialField names the credential a provider cannot operate
// without. Everything else in the bag is provider-specific and validated by
// the gateway itself.
var primaryCredentialField = map[string]string{
	"paypal": "client_id",
}

const defaultPrimaryCredential = "secret_key"

// CompanyGateway bundles a resolved gateway with the stored configuration it
// was resolved from. Credentials is the opaque JSON bag as persisted.
type CompanyGateway struct {
	Gateway     PaymentGateway
	Config      *model.PaymentGatewayConfig
	Credentials string
}

// GetCompanyGateway loads the company's single active gateway configuration
// and resolves its provider. Returns nil when no active row exists, the
// provider key is unknown, or the credentials bag lacks the provider's
// primary auth field — "payment collection unavailable" is always
// representable without an error value.
func GetCompanyGateway(companyID int) *CompanyGateway {
	cfg, err := model.GetCompanyActiveGatewayConfig(companyID)
	if err != nil {
		logger.SysError("failed to load gateway config: " + err.Error())
		return nil
	}
	if cfg == nil {
		return nil
	}

	gateway := GetGateway(cfg.Provider)
	if gateway == nil {
		return nil
	}

	if !hasPrimaryCredential(cfg.Provider, cfg.Config) {
		return nil
	}

	return &CompanyGateway{
		Gateway:     gateway,
		Config:      cfg,
		Credentials: cfg.Config,
	}
}

// GetCompanyGatewayConfig is the raw lookup used by administrative flows and
// the webhook route; it also returns inactive rows.
func GetCompanyGatewayConfig(companyID int, provider string) *model.PaymentGatewayConfig {
	cfg, err := model.GetCompanyGatewayConfig(companyID, provider)
	if err != nil {
		logger.SysError("failed to load gateway config: " + err.Error())
		return nil
	}
	return cfg
}

func hasPrimaryCredential(provider, rawConfig string) bool {
	field, ok := primaryCredentialField[provider]
	if !ok {
		field = defaultPrimaryCredential
	}

	var bag map[string]any
	if err := json.Unmarshal([]byte(rawConfig), &bag); err != nil {
		return false
	}

	value, ok := bag[field].(string)
	return ok && value != ""
}
