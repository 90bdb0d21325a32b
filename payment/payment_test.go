package payment

import (
	"testing"

	"rent-hub/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func TestGetGateway(t *testing.T) {
	for _, provider := range []string{"stripe", "paypal", "square", "gocardless"} {
		gateway := GetGateway(provider)
		require.NotNil(t, gateway, provider)
		assert.Equal(t, provider, gateway.Name())
	}

	assert.Nil(t, GetGateway("venmo"))
	assert.Nil(t, GetGateway(""))
}

func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.PaymentGatewayConfig{}))

	old := model.DB
	model.DB = db
	t.Cleanup(func() {
		model.DB = old
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
}

func TestGetCompanyGatewayNoConfig(t *testing.T) {
	setupTestDB(t)
	assert.Nil(t, GetCompanyGateway(1))
}

func TestGetCompanyGatewayInactiveOnly(t *testing.T) {
	setupTestDB(t)
	// Two rows for the same provider, neither activated.
	for i := 0; i < 2; i++ {
		cfg := &model.PaymentGatewayConfig{
			CompanyID: 1,
			Provider:  "stripe",
			Config:    `{"secret_key": "sk"}`,
		}
		require.NoError(t, cfg.Insert())
	}

	assert.Nil(t, GetCompanyGateway(1))
}

func TestGetCompanyGatewayActive(t *testing.T) {
	setupTestDB(t)
	cfg := &model.PaymentGatewayConfig{
		CompanyID: 1,
		Provider:  "stripe",
		Config:    `{"secret_key": "sk_test", "webhook_secret": "whsec"}`,
	}
	require.NoError(t, cfg.Insert())
	require.NoError(t, model.ActivateGatewayConfig(cfg.ID, 1))

	companyGateway := GetCompanyGateway(1)
	require.NotNil(t, companyGateway)
	assert.Equal(t, "stripe", companyGateway.Gateway.Name())
	assert.Equal(t, cfg.Config, companyGateway.Credentials)

	// Another company's rows stay invisible.
	assert.Nil(t, GetCompanyGateway(2))
}

func TestGetCompanyGatewayUnknownProvider(t *testing.T) {
	setupTestDB(t)
	cfg := &model.PaymentGatewayConfig{
		CompanyID: 1,
		Provider:  "venmo",
		IsActive:  true,
		Config:    `{"secret_key": "sk"}`,
	}
	require.NoError(t, cfg.Insert())

	assert.Nil(t, GetCompanyGateway(1))
}

func TestGetCompanyGatewayMissingPrimaryCredential(t *testing.T) {
	setupTestDB(t)

	// PayPal's primary credential is client_id, not secret_key.
	cfg := &model.PaymentGatewayConfig{
		CompanyID: 1,
		Provider:  "paypal",
		IsActive:  true,
		Config:    `{"secret_key": "sk", "sandbox": true}`,
	}
	require.NoError(t, cfg.Insert())
	assert.Nil(t, GetCompanyGateway(1))

	require.NoError(t, model.DB.Model(cfg).Update("config", `{"client_id": "c1", "secret_key": "sk"}`).Error)
	companyGateway := GetCompanyGateway(1)
	require.NotNil(t, companyGateway)
	assert.Equal(t, "paypal", companyGateway.Gateway.Name())
}

func TestHasPrimaryCredential(t *testing.T) {
	assert.True(t, hasPrimaryCredential("stripe", `{"secret_key": "sk"}`))
	assert.False(t, hasPrimaryCredential("stripe", `{"secret_key": ""}`))
	assert.False(t, hasPrimaryCredential("stripe", `{}`))
	assert.False(t, hasPrimaryCredential("stripe", `not json`))
	assert.True(t, hasPrimaryCredential("paypal", `{"client_id": "c1"}`))
	assert.False(t, hasPrimaryCredential("paypal", `{"secret_key": "sk"}`))
	assert.False(t, hasPrimaryCredential("stripe", `{"secret_key": 42}`))
}
