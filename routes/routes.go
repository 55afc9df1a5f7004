package routes

import (
	"stockpro-backend/config"
	"stockpro-backend/controllers"
	"stockpro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	// Plan catalogue is public
	r.GET("/plans", controllers.GetPlans)

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		products := api.Group("/products")
		{
			products.POST("", controllers.CreateProduct)
			products.GET("", controllers.GetProducts)
			products.GET("/:id", controllers.GetProduct)
			products.PUT("/:id", controllers.UpdateProduct)
			products.DELETE("/:id", controllers.DeleteProduct)
		}

		categories := api.Group("/categories")
		{
			categories.POST("", controllers.CreateCategory)
			categories.GET("", controllers.GetCategories)
			categories.GET("/:id", controllers.GetCategory)
			categories.PUT("/:id", controllers.UpdateCategory)
			categories.DELETE("/:id", controllers.DeleteCategory)
		}

		suppliers := api.Group("/suppliers")
		{
			suppliers.POST("", controllers.CreateSupplier)
			suppliers.GET("", controllers.GetSuppliers)
			suppliers.GET("/:id", controllers.GetSupplier)
			suppliers.PUT("/:id", controllers.UpdateSupplier)
			suppliers.DELETE("/:id", controllers.DeleteSupplier)
		}

		clients := api.Group("/clients")
		{
			clients.POST("", controllers.CreateClient)
			clients.GET("", controllers.GetClients)
			clients.GET("/:id", controllers.GetClient)
			clients.PUT("/:id", controllers.UpdateClient)
			clients.DELETE("/:id", controllers.DeleteClient)
			clients.POST("/:id/credit-transactions", controllers.CreateCreditTransaction)
			clients.GET("/:id/credit-transactions", controllers.GetCreditTransactions)
		}

		stockMovements := api.Group("/stock-movements")
		{
			stockMovements.POST("", controllers.CreateStockMovement)
			stockMovements.GET("", controllers.GetStockMovements)
		}

		sales := api.Group("/sales")
		{
			sales.POST("", controllers.CreateSale)
			sales.GET("", controllers.GetSales)
			sales.GET("/:id", controllers.GetSale)
		}

		invoices := api.Group("/invoices")
		{
			invoices.POST("", controllers.CreateInvoice)
			invoices.GET("", controllers.GetInvoices)
			invoices.GET("/:id", controllers.GetInvoice)
			invoices.PUT("/:id", controllers.UpdateInvoice)
			invoices.DELETE("/:id", controllers.DeleteInvoice)
			invoices.POST("/:id/payments", controllers.AddInvoicePayment)
			invoices.GET("/:id/payments", controllers.GetInvoicePayments)
		}

		users := api.Group("/users")
		{
			users.POST("", controllers.CreateUser)
			users.GET("", controllers.GetUsers)
			users.GET("/:id", controllers.GetUser)
			users.PUT("/:id", controllers.UpdateUser)
			users.DELETE("/:id", controllers.DeleteUser)
		}

		subscription := api.Group("/subscription")
		{
			subscription.GET("", controllers.GetSubscription)
			subscription.POST("", controllers.Subscribe)
			subscription.DELETE("", controllers.CancelSubscription)
			subscription.POST("/payments", controllers.AddSubscriptionPayment)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", controllers.GetNotifications)
			notifications.PUT("/:id/read", controllers.MarkNotificationRead)
		}

		alertRules := api.Group("/alert-rules")
		{
			alertRules.POST("", controllers.CreateAlertRule)
			alertRules.GET("", controllers.GetAlertRules)
			alertRules.PUT("/:id", controllers.UpdateAlertRule)
			alertRules.DELETE("/:id", controllers.DeleteAlertRule)
		}

		business := api.Group("/business")
		{
			business.GET("", controllers.GetBusiness)
			business.PUT("", controllers.UpdateBusiness)
		}

		api.GET("/dashboard", controllers.GetDashboard)
	}

	return r
}
