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

type StockMovementInput struct {
	ProductID    uuid.UUID  `json:"productId" binding:"required"`
	MovementType string     `json:"movementType" binding:"required,oneof=stock_in stock_out adjustment damaged expired"`
	Quantity     *int       `json:"quantity" binding:"required"`
	ReferenceID  *uuid.UUID `json:"referenceId"`
	Notes        string     `json:"notes"`
}

// stockDelta converts a movement into the signed change applied to
// quantity_in_stock. Outbound types carry positive quantities; adjustment
// quantities are already signed.
func stockDelta(movementType string, quantity int) (int, error) {
	switch movementType {
	case models.MovementStockIn:
		if quantity <= 0 {
			return 0, errors.New("quantity must be positive")
		}
		return quantity, nil
	case models.MovementStockOut, models.MovementDamaged, models.MovementExpired:
		if quantity <= 0 {
			return 0, errors.New("quantity must be positive")
		}
		return -quantity, nil
	case models.MovementAdjustment:
		if quantity == 0 {
			return 0, errors.New("quantity must be non-zero")
		}
		return quantity, nil
	}
	return 0, errors.New("unknown movement type")
}

// CreateStockMovement appends a ledger entry and applies it to the product
// balance in one transaction. A movement that would drive the stock negative
// is rejected entirely: neither the ledger row nor the balance change is
// applied.
func CreateStockMovement(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpWrite, utils.ResourceStockMovement) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	var input StockMovementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationErrors(c, err)
		return
	}

	delta, err := stockDelta(input.MovementType, *input.Quantity)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"message": "Validation failed",
			"errors":  gin.H{"quantity": err.Error()},
		})
		return
	}

	var product models.Product
	if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, input.ProductID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	movement := models.StockMovement{
		ID:           uuid.New(),
		ProductID:    product.ID,
		UserID:       userUUID,
		MovementType: input.MovementType,
		Quantity:     *input.Quantity,
		ReferenceID:  input.ReferenceID,
		Notes:        input.Notes,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// The quantity guard lives in the WHERE clause so concurrent movements
	// cannot race the balance below zero.
	result := tx.Model(&models.Product{}).
		Where("id = ? AND quantity_in_stock + ? >= 0", product.ID, delta).
		UpdateColumn("quantity_in_stock", gorm.Expr("quantity_in_stock + ?", delta))
	if result.Error != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update stock")
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusConflict, "Insufficient stock for this movement")
		return
	}

	if err := tx.Create(&movement).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record stock movement")
		return
	}

	tx.Commit()

	config.DB.First(&product, "id = ?", product.ID)

	c.JSON(http.StatusCreated, gin.H{
		"movement":        movement,
		"quantityInStock": product.QuantityInStock,
	})
}

// GetStockMovements lists the ledger for the business, newest first.
// Optional productId query narrows it to one product.
func GetStockMovements(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpRead, utils.ResourceStockMovement) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	// Unscoped: movements of deleted products stay on the audit trail
	ownProducts := config.DB.Unscoped().Model(&models.Product{}).
		Select("id").Where("business_id = ?", businessUUID)
	query := config.DB.Where("product_id IN (?)", ownProducts)

	if productID := c.Query("productId"); productID != "" {
		productUUID, err := uuid.Parse(productID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID format")
			return
		}
		query = query.Where("product_id = ?", productUUID)
	}

	var movements []models.StockMovement
	if err := query.Order("created_at DESC").Find(&movements).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve stock movements")
		return
	}

	c.JSON(http.StatusOK, movements)
}
