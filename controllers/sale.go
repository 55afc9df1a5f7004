package controllers

import (
	"errors"
	"math"
	"net/http"
	"time"

	"stockpro-backend/config"
	"stockpro-backend/models"
	"stockpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleItemInput struct {
	ProductID      uuid.UUID `json:"productId" binding:"required"`
	Quantity       int       `json:"quantity" binding:"required,min=1"`
	DiscountAmount float64   `json:"discountAmount" binding:"gte=0"`
}

type CreateSaleInput struct {
	ClientID       *uuid.UUID      `json:"clientId"`
	SaleDate       *time.Time      `json:"saleDate"`
	Items          []SaleItemInput `json:"items" binding:"required,min=1,dive"`
	TaxAmount      float64         `json:"taxAmount" binding:"gte=0"`
	DiscountAmount float64         `json:"discountAmount" binding:"gte=0"`
	// TotalAmount is optional and only ever checked against the derived
	// total, never stored as-is.
	TotalAmount   *float64 `json:"totalAmount"`
	PaymentMethod string   `json:"paymentMethod" binding:"required,oneof=cash credit card mobile_money"`
}

// CreateSale records a sale. Unit prices come from the stored products, the
// total is re-derived server-side, and stock decrements, stock_out ledger
// rows and any credit transaction are committed atomically with the sale.
func CreateSale(c *gin.Context) {
	businessID, exists := c.Get("businessId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Business ID not found in context")
		return
	}
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	businessUUID, err := uuid.Parse(businessID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid business ID format")
		return
	}
	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	if !utils.Allowed(currentRole(c), utils.OpWrite, utils.ResourceSale) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	var input CreateSaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationErrors(c, err)
		return
	}

	if input.PaymentMethod == models.PaymentMethodCredit && input.ClientID == nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"message": "Validation failed",
			"errors":  gin.H{"client_id": "this field is required for credit sales"},
		})
		return
	}

	var client models.Client
	if input.ClientID != nil {
		if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, *input.ClientID).
			First(&client).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Client not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
	}

	// Build items from stored prices
	var subtotal float64
	var saleItems []models.SaleItem
	saleID := uuid.New()

	for _, item := range input.Items {
		var product models.Product
		if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, item.ProductID).
			First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Product not found: "+item.ProductID.String())
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}

		itemTotal := product.UnitPrice*float64(item.Quantity) - item.DiscountAmount
		subtotal += itemTotal

		saleItems = append(saleItems, models.SaleItem{
			ID:             uuid.New(),
			SaleID:         saleID,
			ProductID:      product.ID,
			Quantity:       item.Quantity,
			UnitPrice:      product.UnitPrice,
			TotalPrice:     itemTotal,
			DiscountAmount: item.DiscountAmount,
		})
	}

	total := subtotal + input.TaxAmount - input.DiscountAmount
	if input.TotalAmount != nil && math.Abs(*input.TotalAmount-total) > 0.009 {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"message": "Validation failed",
			"errors":  gin.H{"total_amount": "does not match subtotal + tax - discount"},
		})
		return
	}

	saleDate := time.Now()
	if input.SaleDate != nil {
		saleDate = *input.SaleDate
	}

	sale := models.Sale{
		ID:             saleID,
		BusinessID:     businessUUID,
		ClientID:       input.ClientID,
		UserID:         userUUID,
		SaleDate:       saleDate,
		Subtotal:       subtotal,
		TaxAmount:      input.TaxAmount,
		DiscountAmount: input.DiscountAmount,
		TotalAmount:    total,
		PaymentMethod:  input.PaymentMethod,
		Status:         models.SaleStatusCompleted,
		Items:          saleItems,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&sale).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create sale")
		return
	}

	// Decrement stock and append the outbound ledger rows
	for _, item := range saleItems {
		result := tx.Model(&models.Product{}).
			Where("id = ? AND quantity_in_stock >= ?", item.ProductID, item.Quantity).
			UpdateColumn("quantity_in_stock", gorm.Expr("quantity_in_stock - ?", item.Quantity))
		if result.Error != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update stock")
			return
		}
		if result.RowsAffected == 0 {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusConflict, "Insufficient stock for product "+item.ProductID.String())
			return
		}

		movement := models.StockMovement{
			ID:           uuid.New(),
			ProductID:    item.ProductID,
			UserID:       userUUID,
			MovementType: models.MovementStockOut,
			Quantity:     item.Quantity,
			ReferenceID:  &sale.ID,
		}
		if err := tx.Create(&movement).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record stock movement")
			return
		}
	}

	// Credit sales also move the client's balance, guarded by the limit
	if input.PaymentMethod == models.PaymentMethodCredit {
		result := tx.Model(&models.Client{}).
			Where("id = ? AND credit_balance + ? <= credit_limit", client.ID, total).
			UpdateColumn("credit_balance", gorm.Expr("credit_balance + ?", total))
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

		transaction := models.CreditTransaction{
			ID:              uuid.New(),
			ClientID:        client.ID,
			TransactionType: models.CreditTxCreditSale,
			Amount:          total,
			ReferenceID:     &sale.ID,
		}
		if err := tx.Create(&transaction).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record credit transaction")
			return
		}
	}

	tx.Commit()

	c.JSON(http.StatusCreated, sale)
}

// GetSales retrieves all sales for the business
func GetSales(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpRead, utils.ResourceSale) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	var sales []models.Sale
	if err := config.DB.Preload("Items").
		Where("business_id = ?", businessUUID).
		Order("created_at").Find(&sales).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve sales")
		return
	}

	c.JSON(http.StatusOK, sales)
}

// GetSale retrieves a specific sale by ID
func GetSale(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpRead, utils.ResourceSale) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	saleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid sale ID format")
		return
	}

	var sale models.Sale
	if err := config.DB.Preload("Items").
		Where("business_id = ? AND id = ?", businessUUID, saleUUID).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Sale not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, sale)
}
