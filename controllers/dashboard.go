package controllers

import (
	"net/http"
	"time"

	"stockpro-backend/config"
	"stockpro-backend/models"
	"stockpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetDashboard assembles the business overview: entity counts, today's
// revenue, low-stock and soon-to-expire products, outstanding client credit.
func GetDashboard(c *gin.Context) {
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

	if !utils.Allowed(currentRole(c), utils.OpRead, utils.ResourceDashboard) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Insufficient role")
		return
	}

	var productCount, clientCount, supplierCount int64
	config.DB.Model(&models.Product{}).Where("business_id = ?", businessUUID).Count(&productCount)
	config.DB.Model(&models.Client{}).Where("business_id = ?", businessUUID).Count(&clientCount)
	config.DB.Model(&models.Supplier{}).Where("business_id = ?", businessUUID).Count(&supplierCount)

	today := utils.BeginningOfDay(time.Now())

	var todaySalesCount int64
	var todayRevenue float64
	config.DB.Model(&models.Sale{}).
		Where("business_id = ? AND sale_date >= ? AND status = ?", businessUUID, today, models.SaleStatusCompleted).
		Count(&todaySalesCount)
	config.DB.Model(&models.Sale{}).
		Where("business_id = ? AND sale_date >= ? AND status = ?", businessUUID, today, models.SaleStatusCompleted).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&todayRevenue)

	var lowStock []models.Product
	config.DB.Where("business_id = ? AND quantity_in_stock <= minimum_stock_threshold AND status = ?",
		businessUUID, models.ProductStatusActive).
		Order("quantity_in_stock").Limit(20).Find(&lowStock)

	expiryCutoff := today.AddDate(0, 0, 30)
	var expiringSoon []models.Product
	config.DB.Where("business_id = ? AND expiration_date IS NOT NULL AND expiration_date <= ? AND status = ?",
		businessUUID, expiryCutoff, models.ProductStatusActive).
		Order("expiration_date").Limit(20).Find(&expiringSoon)

	var outstandingCredit float64
	config.DB.Model(&models.Client{}).
		Where("business_id = ? AND credit_balance > 0", businessUUID).
		Select("COALESCE(SUM(credit_balance), 0)").Scan(&outstandingCredit)

	var overdueInvoices int64
	config.DB.Model(&models.Invoice{}).
		Where("business_id = ? AND payment_status IN ? AND due_date < ?",
			businessUUID, []string{models.InvoicePaymentPending, models.InvoicePaymentPartial, models.InvoicePaymentOverdue}, today).
		Count(&overdueInvoices)

	c.JSON(http.StatusOK, gin.H{
		"counts": gin.H{
			"products":  productCount,
			"clients":   clientCount,
			"suppliers": supplierCount,
		},
		"today": gin.H{
			"sales":   todaySalesCount,
			"revenue": todayRevenue,
		},
		"lowStockProducts":  lowStock,
		"expiringProducts":  expiringSoon,
		"outstandingCredit": outstandingCredit,
		"overdueInvoices":   overdueInvoices,
	})
}
