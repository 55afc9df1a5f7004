package services

import (
	"fmt"
	"testing"
	"time"

	"stockpro-backend/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Business{},
		&models.User{},
		&models.Product{},
		&models.Invoice{},
		&models.Subscription{},
		&models.Plan{},
		&models.Notification{},
		&models.AlertRule{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedBusiness(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	business := models.Business{
		ID:               uuid.New(),
		Name:             "Acme Store",
		Email:            "acme@example.com",
		RegistrationDate: time.Now(),
		Status:           models.BusinessStatusActive,
	}
	if err := db.Create(&business).Error; err != nil {
		t.Fatalf("seed business: %v", err)
	}
	return business.ID
}

func TestLowStockAlertDedupedPerDay(t *testing.T) {
	db := setupDB(t)
	businessID := seedBusiness(t, db)

	rule := models.AlertRule{
		ID:             uuid.New(),
		BusinessID:     businessID,
		Type:           models.NotificationLowStock,
		ThresholdValue: 10,
		IsActive:       true,
	}
	if err := db.Create(&rule).Error; err != nil {
		t.Fatalf("seed rule: %v", err)
	}

	product := models.Product{
		ID:              uuid.New(),
		BusinessID:      businessID,
		Name:            "Widget",
		UnitPrice:       9.99,
		QuantityInStock: 3,
		Status:          models.ProductStatusActive,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	svc := NewAlertService(db)
	svc.ProcessBusinessAlerts(businessID)

	var count int64
	db.Model(&models.Notification{}).
		Where("business_id = ? AND type = ?", businessID, models.NotificationLowStock).
		Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 low stock notification, got %d", count)
	}

	// A second run on the same day must not duplicate the alert
	svc.ProcessBusinessAlerts(businessID)
	db.Model(&models.Notification{}).
		Where("business_id = ? AND type = ?", businessID, models.NotificationLowStock).
		Count(&count)
	if count != 1 {
		t.Errorf("expected dedup to hold, got %d notifications", count)
	}
}

func TestInactiveRuleSkipped(t *testing.T) {
	db := setupDB(t)
	businessID := seedBusiness(t, db)

	rule := models.AlertRule{
		ID:             uuid.New(),
		BusinessID:     businessID,
		Type:           models.NotificationLowStock,
		ThresholdValue: 10,
		IsActive:       false,
	}
	if err := db.Create(&rule).Error; err != nil {
		t.Fatalf("seed rule: %v", err)
	}

	product := models.Product{
		ID:              uuid.New(),
		BusinessID:      businessID,
		Name:            "Widget",
		UnitPrice:       9.99,
		QuantityInStock: 0,
		Status:          models.ProductStatusActive,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	svc := NewAlertService(db)
	svc.ProcessBusinessAlerts(businessID)

	var count int64
	db.Model(&models.Notification{}).Where("business_id = ?", businessID).Count(&count)
	if count != 0 {
		t.Errorf("inactive rule must not fire, got %d notifications", count)
	}
}

func TestOverdueInvoiceMarkedAndAlerted(t *testing.T) {
	db := setupDB(t)
	businessID := seedBusiness(t, db)

	rule := models.AlertRule{
		ID:             uuid.New(),
		BusinessID:     businessID,
		Type:           models.NotificationOverduePayment,
		ThresholdValue: 7,
		IsActive:       true,
	}
	if err := db.Create(&rule).Error; err != nil {
		t.Fatalf("seed rule: %v", err)
	}

	invoice := models.Invoice{
		ID:            uuid.New(),
		BusinessID:    businessID,
		ClientID:      uuid.New(),
		UserID:        uuid.New(),
		InvoiceNumber: "INV-001",
		InvoiceDate:   time.Now().AddDate(0, -2, 0),
		DueDate:       time.Now().AddDate(0, -1, 0),
		Subtotal:      100,
		TotalAmount:   100,
		PaymentStatus: models.InvoicePaymentPending,
		Status:        models.InvoiceStatusSent,
	}
	if err := db.Create(&invoice).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}

	svc := NewAlertService(db)
	svc.ProcessBusinessAlerts(businessID)

	var count int64
	db.Model(&models.Notification{}).
		Where("business_id = ? AND type = ?", businessID, models.NotificationOverduePayment).
		Count(&count)
	if count != 1 {
		t.Errorf("expected overdue payment notification, got %d", count)
	}

	var updated models.Invoice
	db.First(&updated, "id = ?", invoice.ID)
	if updated.PaymentStatus != models.InvoicePaymentOverdue {
		t.Errorf("expected invoice marked overdue, got %s", updated.PaymentStatus)
	}
}
