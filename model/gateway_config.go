package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// PaymentGatewayConfig is the per-(company, provider) credential record. The
// Config column is the opaque credentials bag as submitted by the company
// admin; each gateway decodes it into its own shape. At most one row per
// company may be active at a time — ActivateGatewayConfig enforces this at
// write time, readers rely on it.
type PaymentGatewayConfig struct {
	ID          int        `json:"id" gorm:"primaryKey"`
	CompanyID   int        `json:"company_id" gorm:"index;not null"`
	Provider    string     `json:"provider" gorm:"type:varchar(32);index;not null"`
	IsActive    bool       `json:"is_active" gorm:"index"`
	AccountID   *string    `json:"account_id" gorm:"type:varchar(191)"`
	Config      string     `json:"config" gorm:"type:text"`
	OnboardedAt *time.Time `json:"onboarded_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (c *PaymentGatewayConfig) Insert() error {
	return DB.Create(c).Error
}

func (c *PaymentGatewayConfig) Update() error {
	return DB.Model(c).Updates(map[string]interface{}{
		"config":     c.Config,
		"account_id": c.AccountID,
		"is_active":  c.IsActive,
	}).Error
}

// GetCompanyActiveGatewayConfig returns the single active row for a company,
// or nil when payment collection is not set up.
func GetCompanyActiveGatewayConfig(companyID int) (*PaymentGatewayConfig, error) {
	var cfg PaymentGatewayConfig
	err := DB.Where("company_id = ? AND is_active = ?", companyID, true).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

// GetCompanyGatewayConfig is the raw lookup used by administrative flows,
// optionally filtered by provider. Inactive rows are returned as well so the
// admin UI can show configuration state after deactivation.
func GetCompanyGatewayConfig(companyID int, provider string) (*PaymentGatewayConfig, error) {
	query := DB.Where("company_id = ?", companyID)
	if provider != "" {
		query = query.Where("provider = ?", provider)
	}

	var cfg PaymentGatewayConfig
	err := query.Order("is_active DESC, id DESC").First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func GetGatewayConfigByID(id int) (*PaymentGatewayConfig, error) {
	var cfg PaymentGatewayConfig
	err := DB.First(&cfg, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func GetCompanyGatewayConfigs(companyID int, params *PaginationParams) (*DataResult[PaymentGatewayConfig], error) {
	var configs []*PaymentGatewayConfig
	db := DB.Model(&PaymentGatewayConfig{}).Where("company_id = ?", companyID)

	allowedOrderFields := map[string]bool{
		"id":         true,
		"provider":   true,
		"is_active":  true,
		"created_at": true,
	}

	return PaginateAndOrder(db, params, &configs, allowedOrderFields)
}

// ActivateGatewayConfig marks one row active and deactivates every other row
// the company owns, keeping the at-most-one-active invariant.
func ActivateGatewayConfig(id int, companyID int) error {
	now := time.Now()
	return DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&PaymentGatewayConfig{}).
			Where("company_id = ? AND id != ?", companyID, id).
			Update("is_active", false).Error
		if err != nil {
			return err
		}

		return tx.Model(&PaymentGatewayConfig{}).
			Where("id = ? AND company_id = ?", id, companyID).
			Updates(map[string]interface{}{
				"is_active":    true,
				"onboarded_at": &now,
			}).Error
	})
}

// DeactivateGatewayConfig disables a gateway without deleting the row. The
// credential bag and account id are cleared so rotated-out secrets do not
// linger in storage.
func DeactivateGatewayConfig(id int) error {
	return DB.Model(&PaymentGatewayConfig{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"config":     "",
			"account_id": nil,
		}).Error
}
