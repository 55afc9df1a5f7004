package main

import (
	"fmt"
	"log"
	"os"

	"stockpro-backend/config"
	"stockpro-backend/models"
	"stockpro-backend/routes"
	"stockpro-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Business{},
		&models.User{},
		&models.Plan{},
		&models.Subscription{},
		&models.Payment{},
		&models.Category{},
		&models.Supplier{},
		&models.Product{},
		&models.StockMovement{},
		&models.Client{},
		&models.CreditTransaction{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.InvoicePayment{},
		&models.Notification{},
		&models.AlertRule{},
	)

	seedPlans()
}

func main() {
	alertService := services.NewAlertService(config.DB)
	alertService.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

// seedPlans inserts the default plan catalogue on first boot
func seedPlans() {
	var count int64
	config.DB.Model(&models.Plan{}).Count(&count)
	if count > 0 {
		return
	}

	plans := []models.Plan{
		{
			ID:          uuid.New(),
			Name:        "Basic",
			Description: "For small shops getting started",
			Price:       29.99,
			Duration:    1,
			MaxUsers:    3,
			MaxProducts: 500,
			Features:    models.JSONB{"reports": false, "sms_alerts": false},
			Status:      models.PlanStatusActive,
		},
		{
			ID:          uuid.New(),
			Name:        "Pro",
			Description: "For growing businesses",
			Price:       59.99,
			Duration:    1,
			MaxUsers:    10,
			MaxProducts: 5000,
			Features:    models.JSONB{"reports": true, "sms_alerts": false},
			Status:      models.PlanStatusActive,
		},
		{
			ID:          uuid.New(),
			Name:        "Enterprise",
			Description: "Unlimited usage with SMS alerts",
			Price:       99.99,
			Duration:    1,
			MaxUsers:    100,
			MaxProducts: 100000,
			Features:    models.JSONB{"reports": true, "sms_alerts": true},
			Status:      models.PlanStatusActive,
		},
	}

	for _, plan := range plans {
		if err := config.DB.Create(&plan).Error; err != nil {
			config.LogError("main", "seedPlans", plan.Name, err)
		}
	}
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
