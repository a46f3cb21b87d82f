package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"rental-backend/config"
	"rental-backend/controllers"
	"rental-backend/jobs"
	"rental-backend/routes"
	"rental-backend/services"
)

func setupLogging() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	}
}

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		logrus.Info(".env not found or couldn't load it; continuing with environment variables")
	}
	setupLogging()

	if err := config.ConnectDatabase(); err != nil {
		logrus.WithError(err).Fatal("database connect failed")
	}
	db := config.DB
	if db == nil {
		logrus.Fatal("config.DB is nil after ConnectDatabase()")
	}
	logrus.Info("database connection established and migrations applied")

	// Initialize services
	rentalService := services.NewRentalService(db)
	vehicleService := services.NewVehicleService(db)
	customerService := services.NewCustomerService(db)
	userService := services.NewUserService(db)
	accountingService := services.NewAccountingService(db)
	dashboardService := services.NewDashboardService(db, rentalService)
	contractService := services.NewContractService(db, rentalService)

	// Initialize controllers
	rentalController := controllers.NewRentalController(rentalService, contractService)
	vehicleController := controllers.NewVehicleController(vehicleService)
	customerController := controllers.NewCustomerController(customerService)
	authController := controllers.NewAuthController(userService)
	userController := controllers.NewUserController(userService)
	roleController := controllers.NewRoleController(userService)
	settingsController := controllers.NewSettingsController(db)
	accountingController := controllers.NewAccountingController(accountingService)
	dashboardController := controllers.NewDashboardController(dashboardService)

	router := routes.SetupRouter(
		rentalController,
		vehicleController,
		customerController,
		authController,
		userController,
		roleController,
		settingsController,
		accountingController,
		dashboardController,
		userService,
	)

	scheduler := jobs.NewScheduler(rentalService)
	scheduler.Start()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logrus.WithField("addr", addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logrus.Info("shutdown signal received, shutting down server")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("server forced to shutdown")
	}

	logrus.Info("server stopped gracefully")
}
