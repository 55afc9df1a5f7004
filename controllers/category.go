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

type CategoryInput struct {
	Name        string     `json:"name" binding:"required,max=255"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parentId"`
}

// CreateCategory creates a new category for the business
func CreateCategory(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpWrite, utils.ResourceCategory) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationErrors(c, err)
		return
	}

	// Parent must belong to the same business
	if input.ParentID != nil {
		var parent models.Category
		if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, *input.ParentID).
			First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Parent category not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
	}

	category := models.Category{
		ID:          uuid.New(),
		BusinessID:  businessUUID,
		Name:        input.Name,
		Description: input.Description,
		ParentID:    input.ParentID,
	}

	if err := config.DB.Create(&category).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

// GetCategories retrieves all categories for the business
func GetCategories(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpRead, utils.ResourceCategory) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	var categories []models.Category
	if err := config.DB.Where("business_id = ?", businessUUID).
		Order("created_at").Find(&categories).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	c.JSON(http.StatusOK, categories)
}

// GetCategory retrieves a specific category by ID
func GetCategory(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpRead, utils.ResourceCategory) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	categoryUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	var category models.Category
	if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, categoryUUID).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, category)
}

// UpdateCategory replaces all category fields from a fully validated payload
func UpdateCategory(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpWrite, utils.ResourceCategory) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	categoryUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationErrors(c, err)
		return
	}

	var category models.Category
	if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, categoryUUID).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.ParentID != nil {
		if *input.ParentID == category.ID {
			utils.RespondWithError(c, http.StatusBadRequest, "Category cannot be its own parent")
			return
		}
		var parent models.Category
		if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, *input.ParentID).
			First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Parent category not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
	}

	category.Name = input.Name
	category.Description = input.Description
	category.ParentID = input.ParentID

	if err := config.DB.Save(&category).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update category")
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category. Deletion is rejected while products
// still reference it (restrict policy).
func DeleteCategory(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpWrite, utils.ResourceCategory) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	categoryUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	var category models.Category
	if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, categoryUUID).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Restrict check, child detach and delete share one transaction so a
	// concurrent product create cannot slip between check and delete.
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var productCount int64
	if err := tx.Model(&models.Product{}).Where("category_id = ?", category.ID).
		Count(&productCount).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if productCount > 0 {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusConflict, "Category has products and cannot be deleted (fk_product_category)")
		return
	}

	// Detach child categories rather than deleting them (set null policy)
	if err := tx.Model(&models.Category{}).Where("parent_id = ?", category.ID).
		Update("parent_id", nil).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to detach child categories")
		return
	}

	if err := tx.Delete(&category).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete category")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
