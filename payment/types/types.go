package types

import (
	"fmt"
	"strconv"

	"rent-hub/common"

	"github.com/shopspring/decimal"
)

// PaymentType tags every checkout session this service creates. Downstream
// reconciliation filters on it, so it is a fixed literal across providers.
const PaymentType = "rent"

// CheckoutParams describes a single rent payment request. It is input to one
// checkout-session creation call and carries no persistent identity.
type CheckoutParams struct {
	LeaseID      string          `json:"lease_id" validate:"required"`
	CompanyID    int             `json:"company_id" validate:"required"`
	TenantUserID string          `json:"tenant_user_id" validate:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description" validate:"required"`
	DueDate      string          `json:"due_date" validate:"required"`
	SuccessURL   string          `json:"success_url" validate:"required,url"`
	CancelURL    string          `json:"cancel_url" validate:"required,url"`
}

func (p *CheckoutParams) Validate() error {
	if err := common.Validate.Struct(p); err != nil {
		return err
	}
	if !p.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", p.Amount.String())
	}
	return nil
}

// AmountCents converts the dollar amount to integer cents, rounding to the
// nearest cent. Stripe/Square/GoCardless all bill in minor units.
func (p *CheckoutParams) AmountCents() int64 {
	return p.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// AmountDollars renders the amount as a two-decimal string for APIs that take
// decimal values (PayPal).
func (p *CheckoutParams) AmountDollars() string {
	return p.Amount.StringFixed(2)
}

// Metadata is the reconciliation contract embedded in every provider's
// checkout call. Keys and values must be identical across providers.
func (p *CheckoutParams) Metadata(provider string) map[string]string {
	return map[string]string{
		"company_id":       strconv.Itoa(p.CompanyID),
		"lease_id":         p.LeaseID,
		"tenant_user_id":   p.TenantUserID,
		"payment_type":     PaymentType,
		"due_date":         p.DueDate,
		"gateway_provider": provider,
	}
}

// IdempotencyKey derives a stable key from the lease and due date so a
// double-submitted request cannot open two checkout sessions for the same
// rent period.
func (p *CheckoutParams) IdempotencyKey() string {
	return fmt.Sprintf("rent-%s-%s", p.LeaseID, p.DueDate)
}

// ValidationResult is the outcome of a live credential check.
type ValidationResult struct {
	Valid       bool   `json:"valid"`
	AccountName string `json:"account_name,omitempty"`
	Error       string `json:"error,omitempty"`
}

// AccountStatus is the transient result of a gateway liveness check. It is
// recomputed on demand and never persisted.
type AccountStatus struct {
	Connected   bool   `json:"connected"`
	AccountName string `json:"account_name,omitempty"`
	Error       string `json:"error,omitempty"`
}

// CheckoutSession is a successfully created provider-hosted payment page.
type CheckoutSession struct {
	Provider  string `json:"provider"`
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// WebhookEvent is a provider callback whose signature has been verified.
// Callers must never construct one from an unverified body.
type WebhookEvent struct {
	Provider string         `json:"provider"`
	Type     string         `json:"type"`
	Data     map[string]any `json:"data"`
	Raw      []byte         `json:"-"`
}
