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

type BusinessInput struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// GetBusiness returns the caller's own business profile
func GetBusiness(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpRead, utils.ResourceBusiness) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	var business models.Business
	if err := config.DB.First(&business, "id = ?", businessUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Business not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, business)
}

// UpdateBusiness replaces the business profile from a fully validated payload
func UpdateBusiness(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpWrite, utils.ResourceBusiness) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	var input BusinessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationErrors(c, err)
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	var business models.Business
	if err := config.DB.First(&business, "id = ?", businessUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Business not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Email != business.Email {
		var clash models.Business
		err := config.DB.Where("email = ? AND id <> ?", input.Email, business.ID).First(&clash).Error
		if err == nil {
			utils.RespondWithError(c, http.StatusConflict, "Business email already in use")
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
	}

	business.Name = input.Name
	business.Email = input.Email
	business.Phone = input.Phone
	business.Address = input.Address

	if err := config.DB.Save(&business).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update business")
		return
	}

	c.JSON(http.StatusOK, business)
}
