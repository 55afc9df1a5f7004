package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"stockpro-backend/config"
	"stockpro-backend/models"
	"stockpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegisterInput struct {
	BusinessName    string `json:"businessName" binding:"required,max=255"`
	BusinessEmail   string `json:"businessEmail" binding:"required,email"`
	BusinessPhone   string `json:"businessPhone"`
	BusinessAddress string `json:"businessAddress"`
	Username        string `json:"username" binding:"required,max=255"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	FirstName       string `json:"firstName" binding:"max=100"`
	LastName        string `json:"lastName" binding:"max=100"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"` // username or email
	Password   string `json:"password" binding:"required"`
}

// Register creates a business together with its business_admin user. Both
// rows are written in one transaction so a half-registered tenant can never
// exist.
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationErrors(c, err)
		return
	}

	// Check business email and username are free
	var existingBusiness models.Business
	if err := config.DB.Where("email = ?", input.BusinessEmail).First(&existingBusiness).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Business email already registered")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var existingUser models.User
	if err := config.DB.Where("username = ?", input.Username).First(&existingUser).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Username already taken")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	business := models.Business{
		ID:               uuid.New(),
		Name:             input.BusinessName,
		Email:            input.BusinessEmail,
		Phone:            input.BusinessPhone,
		Address:          input.BusinessAddress,
		RegistrationDate: time.Now(),
		Status:           models.BusinessStatusActive,
	}

	user := models.User{
		ID:           uuid.New(),
		BusinessID:   business.ID,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashed,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         models.RoleBusinessAdmin,
		Status:       models.UserStatusActive,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&business).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create business")
		return
	}
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}
	if err := createDefaultAlertRules(tx, business.ID); err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create alert rules")
		return
	}
	tx.Commit()

	token, err := utils.GenerateToken(user.ID.String(), business.ID.String(), string(user.Role))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"role":       user.Role,
			"businessId": business.ID,
		},
	})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationErrors(c, err)
		return
	}

	identifier := strings.TrimSpace(input.Identifier)

	var user models.User
	result := config.DB.Where("username = ? OR email = ?", identifier, identifier).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if user.Status != models.UserStatusActive {
		utils.RespondWithError(c, http.StatusUnauthorized, "Account is not active")
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), user.BusinessID.String(), string(user.Role))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	// Update last login
	now := time.Now()
	config.DB.Model(&user).Update("last_login", &now)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"role":       user.Role,
			"businessId": user.BusinessID,
		},
	})
}

func Me(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	var business models.Business
	if err := config.DB.First(&business, "id = ?", user.BusinessID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Business not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"firstName": user.FirstName,
			"lastName":  user.LastName,
			"role":      user.Role,
		},
		"business": gin.H{
			"id":     business.ID,
			"name":   business.Name,
			"email":  business.Email,
			"status": business.Status,
		},
	})
}

func createDefaultAlertRules(tx *gorm.DB, businessID uuid.UUID) error {
	defaults := []models.AlertRule{
		{BusinessID: businessID, Type: models.NotificationLowStock, ThresholdValue: 10, IsActive: true},
		{BusinessID: businessID, Type: models.NotificationExpiration, ThresholdValue: 30, IsActive: true},
		{BusinessID: businessID, Type: models.NotificationOverduePayment, ThresholdValue: 7, IsActive: true},
	}

	for _, rule := range defaults {
		rule.ID = uuid.New()
		if err := tx.Create(&rule).Error; err != nil {
			return err
		}
	}
	return nil
}
