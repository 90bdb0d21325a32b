package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"rent-hub/model"
	"rent-hub/payment"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type gatewayConfigRequest struct {
	CompanyID int            `json:"company_id" binding:"required"`
	Provider  string         `json:"provider" binding:"required"`
	AccountID string         `json:"account_id"`
	Config    map[string]any `json:"config" binding:"required"`
}

// CreateGatewayConfig validates submitted credentials against the provider's
// live API and persists them as the company's active gateway.
func CreateGatewayConfig(c *gin.Context) {
	var req gatewayConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request: " + err.Error()})
		return
	}

	gateway := payment.GetGateway(req.Provider)
	if gateway == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "unsupported provider"})
		return
	}

	rawConfig, err := json.Marshal(req.Config)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid config"})
		return
	}

	result := gateway.ValidateCredentials(string(rawConfig))
	if !result.Valid {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "credential validation failed: " + result.Error,
		})
		return
	}

	config := &model.PaymentGatewayConfig{
		CompanyID: req.CompanyID,
		Provider:  req.Provider,
		Config:    string(rawConfig),
	}
	if req.AccountID != "" {
		config.AccountID = &req.AccountID
	} else if result.AccountName != "" {
		config.AccountID = &result.AccountName
	}

	if err := config.Insert(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	if err := model.ActivateGatewayConfig(config.ID, config.CompanyID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":           config.ID,
			"provider":     config.Provider,
			"account_name": result.AccountName,
		},
	})
}

// GetGatewayConfigs lists a company's gateway configurations with the
// credential bag redacted.
func GetGatewayConfigs(c *gin.Context) {
	companyID, err := strconv.Atoi(c.Query("company_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid company id"})
		return
	}

	var params model.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	result, err := model.GetCompanyGatewayConfigs(companyID, &params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	redacted := lo.Map(*result.Data, func(cfg *model.PaymentGatewayConfig, _ int) *model.PaymentGatewayConfig {
		clean := *cfg
		if clean.Config != "" {
			clean.Config = "[redacted]"
		}
		return &clean
	})
	result.Data = &redacted

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// DeleteGatewayConfig deactivates a gateway and clears its stored
// credentials. Rows are never hard-deleted.
func DeleteGatewayConfig(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid id"})
		return
	}

	config, err := model.GetGatewayConfigByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	if config == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "config not found"})
		return
	}

	if err := model.DeactivateGatewayConfig(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
