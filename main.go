package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rakapratama/qrispay-backend/config"
	"github.com/rakapratama/qrispay-backend/handlers"
	"github.com/rakapratama/qrispay-backend/logging"
	"github.com/rakapratama/qrispay-backend/models"
	"github.com/rakapratama/qrispay-backend/payment"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New()

	// Optional database connection for the payment observation log
	var db *gorm.DB
	if cfg.DatabaseDSN != "" {
		var err error
		db, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		if err := db.AutoMigrate(&models.PaymentRecord{}); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
	} else {
		logger.Info("DB_HOST not set, running without the payment record log")
	}

	gateway := payment.NewGateway(cfg.Pakasir, logger)
	verifier := payment.NewAcceptAllVerifier(logger)
	engine := payment.NewEngine(gateway, verifier, logger, cfg.WebhookEnforceAmount)

	paymentHandler := handlers.NewPaymentHandler(db, engine, logger)

	app := fiber.New()

	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET, POST, OPTIONS",
		AllowHeaders: "Content-Type, Accept",
	}))

	// Routes
	app.Get("/health", paymentHandler.Health)
	app.Post("/api/create-payment", paymentHandler.CreatePayment)
	app.Get("/api/check-status", paymentHandler.CheckStatus)
	app.Post("/api/check-status", paymentHandler.CheckStatus)
	app.Post("/api/pakasir-webhook", paymentHandler.HandleWebhook)
	if db != nil {
		app.Get("/api/payments", paymentHandler.ListPayments)
		app.Get("/api/payments/:order_id", paymentHandler.GetPayment)
	}

	fmt.Println("Server running on http://localhost:" + cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
