package model

import (
	"time"
)

// PaymentSession records every checkout session handed to a tenant so the
// webhook side can be reconciled against the originating lease regardless of
// which provider processed the payment.
type PaymentSession struct {
	ID                int       `json:"id" gorm:"primaryKey"`
	PublicID          string    `json:"public_id" gorm:"type:varchar(64);uniqueIndex"`
	CompanyID         int       `json:"company_id" gorm:"index"`
	LeaseID           string    `json:"lease_id" gorm:"type:varchar(191);index"`
	TenantUserID      string    `json:"tenant_user_id" gorm:"type:varchar(191)"`
	Provider          string    `json:"provider" gorm:"type:varchar(32)"`
	ProviderSessionID string    `json:"provider_session_id" gorm:"type:varchar(191);index"`
	AmountCents       int64     `json:"amount_cents"`
	Currency          string    `json:"currency" gorm:"type:varchar(8)"`
	URL               string    `json:"url" gorm:"type:text"`
	DueDate           string    `json:"due_date" gorm:"type:varchar(32)"`
	CreatedAt         time.Time `json:"created_at"`
}

func (s *PaymentSession) Insert() error {
	return DB.Create(s).Error
}

func GetPaymentSessionByProviderID(provider, providerSessionID string) (*PaymentSession, error) {
	var session PaymentSession
	err := DB.Where("provider = ? AND provider_session_id = ?", provider, providerSessionID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}
