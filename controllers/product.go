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

// ProductInput is the full payload for both create and update. Updates are
// full replacements, so the whole payload is re-validated every time.
type ProductInput struct {
	Name                  string     `json:"name" binding:"required,max=255"`
	Description           string     `json:"description"`
	Price                 *float64   `json:"price" binding:"required,gte=0"`
	CostPrice             float64    `json:"costPrice" binding:"gte=0"`
	Barcode               string     `json:"barcode" binding:"max=100"`
	CategoryID            *uuid.UUID `json:"categoryId"`
	SupplierID            *uuid.UUID `json:"supplierId"`
	ExpirationDate        *time.Time `json:"expirationDate"`
	MinimumStockThreshold int        `json:"minimumStockThreshold" binding:"gte=0"`
	TaxRate               float64    `json:"taxRate" binding:"gte=0"`
	Status                string     `json:"status" binding:"omitempty,oneof=active inactive discontinued"`
}

// barcodeOrNil stores an absent barcode as NULL so the composite unique
// index ignores barcode-less products
func barcodeOrNil(barcode string) *string {
	if barcode == "" {
		return nil
	}
	return &barcode
}

// validateProductRefs checks category/supplier ownership and barcode
// uniqueness within the tenant. Returns false after writing the response.
func validateProductRefs(c *gin.Context, businessUUID uuid.UUID, input *ProductInput, exclude *uuid.UUID) bool {
	if input.CategoryID != nil {
		var category models.Category
		if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, *input.CategoryID).
			First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Category not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return false
		}
	}

	if input.SupplierID != nil {
		var supplier models.Supplier
		if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, *input.SupplierID).
			First(&supplier).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Supplier not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return false
		}
	}

	if input.Barcode != "" {
		query := config.DB.Where("business_id = ? AND barcode = ?", businessUUID, input.Barcode)
		if exclude != nil {
			query = query.Where("id <> ?", *exclude)
		}
		var existing models.Product
		if err := query.First(&existing).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "Product with this barcode already exists (unique_barcode_per_business)")
			return false
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return false
		}
	}

	return true
}

// CreateProduct creates a new product for the business
func CreateProduct(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpWrite, utils.ResourceProduct) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationErrors(c, err)
		return
	}

	if !validateProductRefs(c, businessUUID, &input, nil) {
		return
	}

	status := input.Status
	if status == "" {
		status = models.ProductStatusActive
	}

	// Stock always starts at zero; quantity only moves through the
	// stock movement ledger.
	product := models.Product{
		ID:                    uuid.New(),
		BusinessID:            businessUUID,
		CategoryID:            input.CategoryID,
		SupplierID:            input.SupplierID,
		Name:                  input.Name,
		Barcode:               barcodeOrNil(input.Barcode),
		UnitPrice:             *input.Price,
		CostPrice:             input.CostPrice,
		Description:           input.Description,
		ExpirationDate:        input.ExpirationDate,
		MinimumStockThreshold: input.MinimumStockThreshold,
		TaxRate:               input.TaxRate,
		Status:                status,
	}

	if err := config.DB.Create(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, http.StatusConflict, "Product with this barcode already exists (unique_barcode_per_business)")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProducts retrieves all products for the business, in insertion order
func GetProducts(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpRead, utils.ResourceProduct) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	var products []models.Product
	if err := config.DB.Where("business_id = ?", businessUUID).
		Order("created_at").Find(&products).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct retrieves a specific product by ID
func GetProduct(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpRead, utils.ResourceProduct) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	productUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	// Cross-tenant lookups fall into the same not-found branch so record
	// existence never leaks across businesses.
	var product models.Product
	if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, productUUID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProduct replaces all product fields from a fully validated payload
func UpdateProduct(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpWrite, utils.ResourceProduct) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	productUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationErrors(c, err)
		return
	}

	var product models.Product
	if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, productUUID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !validateProductRefs(c, businessUUID, &input, &product.ID) {
		return
	}

	product.Name = input.Name
	product.Description = input.Description
	product.UnitPrice = *input.Price
	product.CostPrice = input.CostPrice
	product.Barcode = barcodeOrNil(input.Barcode)
	product.CategoryID = input.CategoryID
	product.SupplierID = input.SupplierID
	product.ExpirationDate = input.ExpirationDate
	product.MinimumStockThreshold = input.MinimumStockThreshold
	product.TaxRate = input.TaxRate
	if input.Status != "" {
		product.Status = input.Status
	}

	if err := config.DB.Save(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, http.StatusConflict, "Product with this barcode already exists (unique_barcode_per_business)")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product
func DeleteProduct(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpWrite, utils.ResourceProduct) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	productUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	result := config.DB.Where("business_id = ? AND id = ?", businessUUID, productUUID).
		Delete(&models.Product{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
