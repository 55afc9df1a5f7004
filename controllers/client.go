package controllers

import (
	"errors"
	"net/http"

	"stockpro-backend/config"
	"stockpro-backend/models"
	"stockpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientInput struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Phone       string  `json:"phone" binding:"max=50"`
	Email       string  `json:"email" binding:"omitempty,email"`
	Address     string  `json:"address"`
	CreditLimit float64 `json:"creditLimit" binding:"gte=0"`
	Status      string  `json:"status" binding:"omitempty,oneof=active inactive suspended"`
}

type CreditTransactionInput struct {
	TransactionType string     `json:"transactionType" binding:"required,oneof=credit_sale payment adjustment"`
	Amount          *float64   `json:"amount" binding:"required"`
	ReferenceID     *uuid.UUID `json:"referenceId"`
	Notes           string     `json:"notes"`
}

// CreateClient creates a new client for the business
func CreateClient(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpWrite, utils.ResourceClient) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	var input ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationErrors(c, err)
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	status := input.Status
	if status == "" {
		status = models.ClientStatusActive
	}

	client := models.Client{
		ID:          uuid.New(),
		BusinessID:  businessUUID,
		Name:        input.Name,
		Phone:       input.Phone,
		Email:       input.Email,
		Address:     input.Address,
		CreditLimit: input.CreditLimit,
		Status:      status,
	}

	if err := config.DB.Create(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create client")
		return
	}

	c.JSON(http.StatusCreated, client)
}

// GetClients retrieves all clients for the business
func GetClients(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpRead, utils.ResourceClient) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	var clients []models.Client
	if err := config.DB.Where("business_id = ?", businessUUID).
		Order("created_at").Find(&clients).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}

	c.JSON(http.StatusOK, clients)
}

// GetClient retrieves a specific client by ID
func GetClient(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpRead, utils.ResourceClient) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	clientUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	var client models.Client
	if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, clientUUID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, client)
}

// UpdateClient replaces all client fields from a fully validated payload.
// CreditBalance is not writable here; it only moves through transactions.
func UpdateClient(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpWrite, utils.ResourceClient) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	clientUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	var input ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationErrors(c, err)
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	var client models.Client
	if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, clientUUID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	client.Name = input.Name
	client.Phone = input.Phone
	client.Email = input.Email
	client.Address = input.Address
	client.CreditLimit = input.CreditLimit
	if input.Status != "" {
		client.Status = input.Status
	}

	if err := config.DB.Save(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client")
		return
	}

	c.JSON(http.StatusOK, client)
}

// DeleteClient removes a client
func DeleteClient(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpWrite, utils.ResourceClient) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	clientUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	result := config.DB.Where("business_id = ? AND id = ?", businessUUID, clientUUID).
		Delete(&models.Client{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete client")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		return
	}

	// Sales keep their history with the client reference cleared
	config.DB.Model(&models.Sale{}).Where("client_id = ?", clientUUID).Update("client_id", nil)

	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}

// creditDelta converts a transaction into the signed change applied to
// credit_balance. Payments reduce what the client owes.
func creditDelta(transactionType string, amount float64) (float64, error) {
	switch transactionType {
	case models.CreditTxCreditSale:
		if amount <= 0 {
			return 0, errors.New("amount must be positive")
		}
		return amount, nil
	case models.CreditTxPayment:
		if amount <= 0 {
			return 0, errors.New("amount must be positive")
		}
		return -amount, nil
	case models.CreditTxAdjustment:
		if amount == 0 {
			return 0, errors.New("amount must be non-zero")
		}
		return amount, nil
	}
	return 0, errors.New("unknown transaction type")
}

// CreateCreditTransaction appends a credit ledger entry and moves the
// client balance in one transaction. credit_sale entries respect the credit
// limit; adjustment entries may override it.
func CreateCreditTransaction(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpWrite, utils.ResourceCreditTransaction) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	clientUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	var input CreditTransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationErrors(c, err)
		return
	}

	delta, err := creditDelta(input.TransactionType, *input.Amount)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"message": "Validation failed",
			"errors":  gin.H{"amount": err.Error()},
		})
		return
	}

	var client models.Client
	if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, clientUUID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	transaction := models.CreditTransaction{
		ID:              uuid.New(),
		ClientID:        client.ID,
		TransactionType: input.TransactionType,
		Amount:          *input.Amount,
		ReferenceID:     input.ReferenceID,
		Notes:           input.Notes,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	balanceUpdate := tx.Model(&models.Client{}).Where("id = ?", client.ID)
	if input.TransactionType == models.CreditTxCreditSale {
		// Limit guard in the WHERE clause keeps concurrent sales from
		// pushing the balance past the limit.
		balanceUpdate = balanceUpdate.Where("credit_balance + ? <= credit_limit", delta)
	}

	result := balanceUpdate.UpdateColumn("credit_balance", gorm.Expr("credit_balance + ?", delta))
	if result.Error != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update credit balance")
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusConflict, "Credit limit exceeded")
		return
	}

	if err := tx.Create(&transaction).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record credit transaction")
		return
	}

	tx.Commit()

	config.DB.First(&client, "id = ?", client.ID)

	c.JSON(http.StatusCreated, gin.H{
		"transaction":   transaction,
		"creditBalance": client.CreditBalance,
	})
}

// GetCreditTransactions lists the credit ledger for one client, newest first
func GetCreditTransactions(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpRead, utils.ResourceCreditTransaction) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	clientUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	var client models.Client
	if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, clientUUID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var transactions []models.CreditTransaction
	if err := config.DB.Where("client_id = ?", client.ID).
		Order("created_at DESC").Find(&transactions).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve credit transactions")
		return
	}

	c.JSON(http.StatusOK, transactions)
}
