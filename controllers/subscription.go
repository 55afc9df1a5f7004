package controllers

import (
	"errors"
	"net/http"
	"time"

	"stockpro-backend/config"
	"stockpro-backend/models"
	"stockpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscribeInput struct {
	PlanID      uuid.UUID `json:"planId" binding:"required"`
	AutoRenewal *bool     `json:"autoRenewal"`
}

type SubscriptionPaymentInput struct {
	Amount        *float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod string   `json:"paymentMethod" binding:"required,max=100"`
	TransactionID string   `json:"transactionId"`
}

// GetPlans lists active plans. Public endpoint, no tenant scope.
func GetPlans(c *gin.Context) {
	var plans []models.Plan
	if err := config.DB.Where("status = ?", models.PlanStatusActive).
		Order("price").Find(&plans).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve plans")
		return
	}

	c.JSON(http.StatusOK, plans)
}

// GetSubscription returns the business's most recent subscription
func GetSubscription(c *gin.Context) {
	businessID, exists := c.Get("businessId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Business ID not found in context")
		return
	}

	businessUUID, err := uuid.Parse(businessID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid business ID format")
		return
	}

	if !utils.Allowed(currentRole(c), utils.OpRead, utils.ResourceSubscription) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	var subscription models.Subscription
	if err := config.DB.Preload("Payments").
		Where("business_id = ?", businessUUID).
		Order("created_at DESC").First(&subscription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "No subscription found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var plan models.Plan
	if err := config.DB.First(&plan, "id = ?", subscription.PlanID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscription": subscription,
		"plan":         plan,
	})
}

// Subscribe creates a subscription to a plan. A business can hold only one
// active subscription at a time.
func Subscribe(c *gin.Context) {
	businessID, exists := c.Get("businessId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Business ID not found in context")
		return
	}

	businessUUID, err := uuid.Parse(businessID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid business ID format")
		return
	}

	if !utils.Allowed(currentRole(c), utils.OpWrite, utils.ResourceSubscription) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	var input SubscribeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationErrors(c, err)
		return
	}

	var plan models.Plan
	if err := config.DB.Where("id = ? AND status = ?", input.PlanID, models.PlanStatusActive).
		First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Plan not found or inactive")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var active models.Subscription
	err = config.DB.Where("business_id = ? AND status = ? AND end_date > ?",
		businessUUID, models.SubscriptionStatusActive, time.Now()).
		First(&active).Error
	if err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Business already has an active subscription")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	autoRenewal := true
	if input.AutoRenewal != nil {
		autoRenewal = *input.AutoRenewal
	}

	now := time.Now()
	subscription := models.Subscription{
		ID:          uuid.New(),
		BusinessID:  businessUUID,
		PlanID:      plan.ID,
		StartDate:   now,
		EndDate:     now.AddDate(0, plan.Duration, 0),
		Status:      models.SubscriptionStatusActive,
		AutoRenewal: autoRenewal,
	}

	if err := config.DB.Create(&subscription).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create subscription")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"subscription": subscription,
		"plan":         plan,
	})
}

// CancelSubscription marks the active subscription as cancelled
func CancelSubscription(c *gin.Context) {
	businessID, exists := c.Get("businessId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Business ID not found in context")
		return
	}

	businessUUID, err := uuid.Parse(businessID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid business ID format")
		return
	}

	if !utils.Allowed(currentRole(c), utils.OpWrite, utils.ResourceSubscription) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	result := config.DB.Model(&models.Subscription{}).
		Where("business_id = ? AND status = ?", businessUUID, models.SubscriptionStatusActive).
		Updates(map[string]interface{}{
			"status":       models.SubscriptionStatusCancelled,
			"auto_renewal": false,
		})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel subscription")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "No active subscription found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription cancelled"})
}

// AddSubscriptionPayment records a payment for the current subscription
func AddSubscriptionPayment(c *gin.Context) {
	businessID, exists := c.Get("businessId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Business ID not found in context")
		return
	}

	businessUUID, err := uuid.Parse(businessID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid business ID format")
		return
	}

	if !utils.Allowed(currentRole(c), utils.OpWrite, utils.ResourceSubscription) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	var input SubscriptionPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationErrors(c, err)
		return
	}

	var subscription models.Subscription
	if err := config.DB.Where("business_id = ?", businessUUID).
		Order("created_at DESC").First(&subscription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "No subscription found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	payment := models.Payment{
		ID:             uuid.New(),
		SubscriptionID: subscription.ID,
		Amount:         *input.Amount,
		TransactionID:  input.TransactionID,
		PaymentMethod:  input.PaymentMethod,
		PaymentDate:    time.Now(),
		Status:         models.PaymentStatusCompleted,
	}

	if err := config.DB.Create(&payment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	c.JSON(http.StatusCreated, payment)
}
