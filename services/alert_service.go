// services/alert_service.go
package services

import (
	"fmt"
	"os"
	"time"

	"stockpro-backend/config"
	"stockpro-backend/models"
	"stockpro-backend/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

type AlertService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewAlertService(db *gorm.DB) *AlertService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &AlertService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *AlertService) StartScheduler() {
	c := cron.New()

	// Run every day at 8 AM, plus once on startup
	c.AddFunc("0 8 * * *", s.RunDailyAlerts)
	s.RunDailyAlerts()

	c.Start()
	config.GetLogger().Info("Alert scheduler started")
}

func (s *AlertService) RunDailyAlerts() {
	log := config.GetLogger()
	log.Info("Starting daily alert processing...")

	var businesses []models.Business
	if err := s.db.Find(&businesses, "status = ?", models.BusinessStatusActive).Error; err != nil {
		config.LogError("services", "RunDailyAlerts", "fetch businesses", err)
		return
	}

	for _, business := range businesses {
		s.ProcessBusinessAlerts(business.ID)
	}

	log.Info("Daily alert processing completed")
}

func (s *AlertService) ProcessBusinessAlerts(businessID uuid.UUID) {
	var rules []models.AlertRule
	if err := s.db.Where("business_id = ? AND is_active = ?", businessID, true).
		Find(&rules).Error; err != nil {
		config.LogError("services", "ProcessBusinessAlerts", businessID.String(), err)
		return
	}

	for _, rule := range rules {
		switch rule.Type {
		case models.NotificationLowStock:
			s.checkLowStock(businessID, rule)
		case models.NotificationExpiration:
			s.checkExpirations(businessID, rule)
		case models.NotificationOverduePayment:
			s.checkOverdueInvoices(businessID, rule)
		case models.NotificationSubscriptionExpiry:
			s.checkSubscriptionExpiry(businessID, rule)
		}
	}
}

func (s *AlertService) checkLowStock(businessID uuid.UUID, rule models.AlertRule) {
	var products []models.Product
	if err := s.db.Where("business_id = ? AND quantity_in_stock <= ? AND status = ?",
		businessID, rule.ThresholdValue, models.ProductStatusActive).
		Find(&products).Error; err != nil {
		config.LogError("services", "checkLowStock", businessID.String(), err)
		return
	}

	for _, product := range products {
		title := "Low stock: " + product.Name
		message := fmt.Sprintf("%s is down to %d units (threshold %d)",
			product.Name, product.QuantityInStock, rule.ThresholdValue)
		s.notify(businessID, models.NotificationLowStock, title, message, &product.ID)
	}
}

func (s *AlertService) checkExpirations(businessID uuid.UUID, rule models.AlertRule) {
	cutoff := utils.BeginningOfDay(time.Now()).AddDate(0, 0, rule.ThresholdValue)

	var products []models.Product
	if err := s.db.Where("business_id = ? AND expiration_date IS NOT NULL AND expiration_date <= ? AND status = ?",
		businessID, cutoff, models.ProductStatusActive).
		Find(&products).Error; err != nil {
		config.LogError("services", "checkExpirations", businessID.String(), err)
		return
	}

	for _, product := range products {
		days := utils.DaysBetween(time.Now(), *product.ExpirationDate)
		title := "Expiring soon: " + product.Name
		message := fmt.Sprintf("%s expires in %d days", product.Name, days)
		s.notify(businessID, models.NotificationExpiration, title, message, &product.ID)
	}
}

func (s *AlertService) checkOverdueInvoices(businessID uuid.UUID, rule models.AlertRule) {
	cutoff := utils.BeginningOfDay(time.Now()).AddDate(0, 0, -rule.ThresholdValue)

	var invoices []models.Invoice
	if err := s.db.Where("business_id = ? AND payment_status IN ? AND due_date < ?",
		businessID, []string{models.InvoicePaymentPending, models.InvoicePaymentPartial}, cutoff).
		Find(&invoices).Error; err != nil {
		config.LogError("services", "checkOverdueInvoices", businessID.String(), err)
		return
	}

	for _, invoice := range invoices {
		title := "Overdue invoice " + invoice.InvoiceNumber
		message := fmt.Sprintf("Invoice %s for %.2f was due on %s",
			invoice.InvoiceNumber, invoice.TotalAmount, invoice.DueDate.Format("2006-01-02"))
		s.notify(businessID, models.NotificationOverduePayment, title, message, &invoice.ID)

		s.db.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
			UpdateColumn("payment_status", models.InvoicePaymentOverdue)
	}
}

func (s *AlertService) checkSubscriptionExpiry(businessID uuid.UUID, rule models.AlertRule) {
	cutoff := time.Now().AddDate(0, 0, rule.ThresholdValue)

	var subscription models.Subscription
	err := s.db.Where("business_id = ? AND status = ? AND end_date <= ?",
		businessID, models.SubscriptionStatusActive, cutoff).
		First(&subscription).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			config.LogError("services", "checkSubscriptionExpiry", businessID.String(), err)
		}
		return
	}

	days := utils.DaysBetween(time.Now(), subscription.EndDate)
	title := "Subscription expiring"
	message := fmt.Sprintf("Your subscription ends in %d days", days)
	s.notify(businessID, models.NotificationSubscriptionExpiry, title, message, &subscription.ID)

	if subscription.EndDate.Before(time.Now()) {
		s.db.Model(&models.Subscription{}).Where("id = ?", subscription.ID).
			UpdateColumn("status", models.SubscriptionStatusExpired)
	}
}

// notify creates a notification unless an unread one of the same type and
// reference already exists today, then optionally sends an SMS to the
// business admin.
func (s *AlertService) notify(businessID uuid.UUID, notifType, title, message string, referenceID *uuid.UUID) {
	today := utils.BeginningOfDay(time.Now())

	var existing models.Notification
	query := s.db.Where("business_id = ? AND type = ? AND created_at >= ?", businessID, notifType, today)
	if referenceID != nil {
		query = query.Where("reference_id = ?", *referenceID)
	}
	if err := query.First(&existing).Error; err == nil {
		return // already alerted today
	}

	notification := models.Notification{
		ID:          uuid.New(),
		BusinessID:  businessID,
		Type:        notifType,
		Title:       title,
		Message:     message,
		ReferenceID: referenceID,
	}

	if err := s.db.Create(&notification).Error; err != nil {
		config.LogError("services", "notify", businessID.String(), err)
		return
	}

	s.sendSMS(businessID, message)
}

func (s *AlertService) sendSMS(businessID uuid.UUID, message string) {
	from := os.Getenv("TWILIO_PHONE_NUMBER")
	if from == "" {
		return // SMS channel not configured
	}

	var admin models.User
	if err := s.db.Where("business_id = ? AND role = ? AND status = ?",
		businessID, models.RoleBusinessAdmin, models.UserStatusActive).
		First(&admin).Error; err != nil || admin.Phone == "" {
		return
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(admin.Phone)
	params.SetFrom(from)
	params.SetBody(message)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		config.LogError("services", "sendSMS", admin.Phone, err)
		return
	}
	if resp.Sid != nil {
		config.GetLogger().WithField("sid", *resp.Sid).Info("Alert SMS sent")
	}
}
