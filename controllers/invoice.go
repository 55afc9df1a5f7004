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

type InvoiceItemInput struct {
	ProductID      uuid.UUID `json:"productId" binding:"required"`
	Quantity       int       `json:"quantity" binding:"required,min=1"`
	DiscountAmount float64   `json:"discountAmount" binding:"gte=0"`
}

type InvoiceInput struct {
	ClientID       uuid.UUID          `json:"clientId" binding:"required"`
	InvoiceNumber  string             `json:"invoiceNumber" binding:"max=100"`
	InvoiceDate    *time.Time         `json:"invoiceDate"`
	DueDate        *time.Time         `json:"dueDate"`
	Items          []InvoiceItemInput `json:"items" binding:"required,min=1,dive"`
	TaxAmount      float64            `json:"taxAmount" binding:"gte=0"`
	DiscountAmount float64            `json:"discountAmount" binding:"gte=0"`
	Status         string             `json:"status" binding:"omitempty,oneof=draft sent cancelled"`
}

type InvoicePaymentInput struct {
	Amount        *float64   `json:"amount" binding:"required,gt=0"`
	PaymentMethod string     `json:"paymentMethod" binding:"required,oneof=cash credit card mobile_money"`
	PaymentDate   *time.Time `json:"paymentDate"`
	Reference     string     `json:"reference"`
}

// buildInvoiceItems derives items and the subtotal from stored product
// prices. Returns false after writing the response.
func buildInvoiceItems(c *gin.Context, businessUUID, invoiceID uuid.UUID, inputs []InvoiceItemInput) ([]models.InvoiceItem, float64, bool) {
	var subtotal float64
	var items []models.InvoiceItem

	for _, item := range inputs {
		var product models.Product
		if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, item.ProductID).
			First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Product not found: "+item.ProductID.String())
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return nil, 0, false
		}

		itemTotal := product.UnitPrice*float64(item.Quantity) - item.DiscountAmount
		subtotal += itemTotal

		items = append(items, models.InvoiceItem{
			ID:             uuid.New(),
			InvoiceID:      invoiceID,
			ProductID:      product.ID,
			Quantity:       item.Quantity,
			UnitPrice:      product.UnitPrice,
			TotalPrice:     itemTotal,
			DiscountAmount: item.DiscountAmount,
		})
	}

	return items, subtotal, true
}

// invoiceNumberTaken checks tenant-scoped invoice number uniqueness
func invoiceNumberTaken(businessUUID uuid.UUID, number string, exclude *uuid.UUID) (bool, error) {
	query := config.DB.Where("business_id = ? AND invoice_number = ?", businessUUID, number)
	if exclude != nil {
		query = query.Where("id <> ?", *exclude)
	}
	var existing models.Invoice
	err := query.First(&existing).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// CreateInvoice creates a new invoice for the business
func CreateInvoice(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpWrite, utils.ResourceInvoice) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	var input InvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationErrors(c, err)
		return
	}

	var client models.Client
	if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, input.ClientID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	invoiceNumber := input.InvoiceNumber
	if invoiceNumber == "" {
		invoiceNumber = "INV-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6)
	}
	taken, err := invoiceNumberTaken(businessUUID, invoiceNumber, nil)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if taken {
		utils.RespondWithError(c, http.StatusConflict, "Invoice number already exists (unique_invoice_number_per_business)")
		return
	}

	invoiceID := uuid.New()
	items, subtotal, ok := buildInvoiceItems(c, businessUUID, invoiceID, input.Items)
	if !ok {
		return
	}

	invoiceDate := time.Now()
	if input.InvoiceDate != nil {
		invoiceDate = *input.InvoiceDate
	}
	dueDate := invoiceDate.AddDate(0, 0, 30)
	if input.DueDate != nil {
		dueDate = *input.DueDate
	}

	status := input.Status
	if status == "" {
		status = models.InvoiceStatusDraft
	}

	invoice := models.Invoice{
		ID:             invoiceID,
		BusinessID:     businessUUID,
		ClientID:       client.ID,
		UserID:         userUUID,
		InvoiceNumber:  invoiceNumber,
		InvoiceDate:    invoiceDate,
		DueDate:        dueDate,
		Subtotal:       subtotal,
		TaxAmount:      input.TaxAmount,
		DiscountAmount: input.DiscountAmount,
		TotalAmount:    subtotal + input.TaxAmount - input.DiscountAmount,
		PaymentStatus:  models.InvoicePaymentPending,
		Status:         status,
		Items:          items,
	}

	if err := config.DB.Create(&invoice).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// GetInvoices retrieves all invoices for the business
func GetInvoices(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpRead, utils.ResourceInvoice) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	var invoices []models.Invoice
	if err := config.DB.Preload("Items").
		Where("business_id = ?", businessUUID).
		Order("created_at").Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// GetInvoice retrieves a specific invoice by ID
func GetInvoice(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpRead, utils.ResourceInvoice) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var invoice models.Invoice
	if err := config.DB.Preload("Items").Preload("Payments").
		Where("business_id = ? AND id = ?", businessUUID, invoiceUUID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// UpdateInvoice replaces the invoice from a fully validated payload,
// rebuilding its items and re-deriving the totals
func UpdateInvoice(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpWrite, utils.ResourceInvoice) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var input InvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationErrors(c, err)
		return
	}

	var invoice models.Invoice
	if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, invoiceUUID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var client models.Client
	if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, input.ClientID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	invoiceNumber := input.InvoiceNumber
	if invoiceNumber == "" {
		invoiceNumber = invoice.InvoiceNumber
	}
	taken, err := invoiceNumberTaken(businessUUID, invoiceNumber, &invoice.ID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if taken {
		utils.RespondWithError(c, http.StatusConflict, "Invoice number already exists (unique_invoice_number_per_business)")
		return
	}

	items, subtotal, ok := buildInvoiceItems(c, businessUUID, invoice.ID, input.Items)
	if !ok {
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to replace invoice items")
		return
	}

	invoice.ClientID = client.ID
	invoice.InvoiceNumber = invoiceNumber
	if input.InvoiceDate != nil {
		invoice.InvoiceDate = *input.InvoiceDate
	}
	if input.DueDate != nil {
		invoice.DueDate = *input.DueDate
	}
	invoice.Subtotal = subtotal
	invoice.TaxAmount = input.TaxAmount
	invoice.DiscountAmount = input.DiscountAmount
	invoice.TotalAmount = subtotal + input.TaxAmount - input.DiscountAmount
	if input.Status != "" {
		invoice.Status = input.Status
	}
	invoice.Items = items

	if err := tx.Save(&invoice).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice")
		return
	}

	if err := derivePaymentStatus(tx, &invoice); err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to derive payment status")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice removes an invoice together with its items and payments
func DeleteInvoice(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpWrite, utils.ResourceInvoice) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	result := config.DB.Where("business_id = ? AND id = ?", businessUUID, invoiceUUID).
		Delete(&models.Invoice{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}

// derivePaymentStatus recomputes the invoice payment status from the sum of
// its payments. It never trusts a client-provided status.
func derivePaymentStatus(tx *gorm.DB, invoice *models.Invoice) error {
	var paid float64
	if err := tx.Model(&models.InvoicePayment{}).
		Where("invoice_id = ?", invoice.ID).
		Select("COALESCE(SUM(amount), 0)").Scan(&paid).Error; err != nil {
		return err
	}

	status := models.InvoicePaymentPending
	switch {
	case paid >= invoice.TotalAmount && invoice.TotalAmount > 0:
		status = models.InvoicePaymentPaid
	case paid > 0:
		status = models.InvoicePaymentPartial
	case time.Now().After(invoice.DueDate):
		status = models.InvoicePaymentOverdue
	}

	invoice.PaymentStatus = status
	return tx.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
		UpdateColumn("payment_status", status).Error
}

// AddInvoicePayment records a payment against an invoice and re-derives the
// invoice's payment status in the same transaction
func AddInvoicePayment(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpWrite, utils.ResourceInvoice) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var input InvoicePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationErrors(c, err)
		return
	}

	var invoice models.Invoice
	if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, invoiceUUID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	paymentDate := time.Now()
	if input.PaymentDate != nil {
		paymentDate = *input.PaymentDate
	}

	payment := models.InvoicePayment{
		ID:            uuid.New(),
		InvoiceID:     invoice.ID,
		Amount:        *input.Amount,
		PaymentMethod: input.PaymentMethod,
		PaymentDate:   paymentDate,
		Reference:     input.Reference,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	if err := derivePaymentStatus(tx, &invoice); err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to derive payment status")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, gin.H{
		"payment":       payment,
		"paymentStatus": invoice.PaymentStatus,
	})
}

// GetInvoicePayments lists payments recorded against one invoice
func GetInvoicePayments(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpRead, utils.ResourceInvoice) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var invoice models.Invoice
	if err := config.DB.Where("business_id = ? AND id = ?", businessUUID, invoiceUUID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var payments []models.InvoicePayment
	if err := config.DB.Where("invoice_id = ?", invoice.ID).
		Order("payment_date").Find(&payments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}

	c.JSON(http.StatusOK, payments)
}
