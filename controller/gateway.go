package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"rent-hub/common/logger"
	"rent-hub/common/metrics"
	"rent-hub/model"
	"rent-hub/payment"
	"rent-hub/payment/gateway/gocardless"
	"rent-hub/payment/gateway/paypal"
	"rent-hub/payment/gateway/square"
	"rent-hub/payment/gateway/stripe"
	"rent-hub/payment/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateCheckout starts a provider-hosted checkout session for one rent
// payment and returns the redirect URL.
func CreateCheckout(c *gin.Context) {
	var params types.CheckoutParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid request: " + err.Error(),
		})
		return
	}
	if err := params.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	companyGateway := payment.GetCompanyGateway(params.CompanyID)
	if companyGateway == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"message": "payment collection is not set up for this company",
		})
		return
	}

	provider := companyGateway.Gateway.Name()
	session := companyGateway.Gateway.CreateCheckoutSession(companyGateway.Credentials, &params)
	if session == nil {
		metrics.CheckoutSessionsFailed.WithLabelValues(provider).Inc()
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"message": "could not start checkout",
		})
		return
	}
	metrics.CheckoutSessionsCreated.WithLabelValues(provider).Inc()

	record := &model.PaymentSession{
		PublicID:          uuid.NewString(),
		CompanyID:         params.CompanyID,
		LeaseID:           params.LeaseID,
		TenantUserID:      params.TenantUserID,
		Provider:          provider,
		ProviderSessionID: session.SessionID,
		AmountCents:       params.AmountCents(),
		Currency:          "USD",
		URL:               session.URL,
		DueDate:           params.DueDate,
	}
	if err := record.Insert(); err != nil {
		// The tenant already has a usable checkout URL at this point; a
		// failed bookkeeping insert is logged, not surfaced.
		logger.LogError(c.Request.Context(), "failed to record payment session: "+err.Error())
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"url":        session.URL,
			"session_id": session.SessionID,
			"provider":   provider,
		},
	})
}

// Webhook receives a provider payment callback. The raw body bytes go to the
// gateway untouched — parsing them first would break HMAC verification.
func Webhook(c *gin.Context) {
	provider := c.Param("provider")
	companyID, err := strconv.Atoi(c.Param("company_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid company id"})
		return
	}

	gateway := payment.GetGateway(provider)
	if gateway == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "unknown provider"})
		return
	}

	config := payment.GetCompanyGatewayConfig(companyID, provider)
	if config == nil || config.Config == "" {
		metrics.WebhookEvents.WithLabelValues(provider, "rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "gateway not configured"})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "unreadable body"})
		return
	}

	signature := c.GetHeader(signatureHeader(provider))
	event := gateway.VerifyWebhook(config.Config, body, signature, c.Request.Header)
	if event == nil {
		metrics.WebhookEvents.WithLabelValues(provider, "rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "webhook verification failed"})
		return
	}
	metrics.WebhookEvents.WithLabelValues(provider, "verified").Inc()

	logger.LogInfo(c.Request.Context(), fmt.Sprintf("verified %s webhook event %s for company %d", provider, event.Type, companyID))

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func signatureHeader(provider string) string {
	switch provider {
	case "stripe":
		return stripe.SignatureHeader
	case "paypal":
		return paypal.SignatureHeader
	case "square":
		return square.SignatureHeader
	case "gocardless":
		return gocardless.SignatureHeader
	default:
		return ""
	}
}

// GatewayStatus reports the connected/disconnected state of a company's
// active gateway for the admin dashboard.
func GatewayStatus(c *gin.Context) {
	companyID, err := strconv.Atoi(c.Query("company_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid company id"})
		return
	}

	companyGateway := payment.GetCompanyGateway(companyID)
	if companyGateway == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": types.AccountStatus{
				Connected: false,
				Error:     "no active payment gateway",
			},
		})
		return
	}

	status := companyGateway.Gateway.GetAccountStatus(companyGateway.Credentials)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    status,
	})
}
