package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/sunginkim/tourgo/backend/internal/router"
	"github.com/sunginkim/tourgo/backend/internal/tourapi"
	"github.com/sunginkim/tourgo/backend/pkg/config"
	"github.com/sunginkim/tourgo/backend/pkg/firebase"
	"github.com/sunginkim/tourgo/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if cfg.TourAPIServiceKey == "" {
		log.Fatal("TOUR_API_SERVICE_KEY environment variable not set")
	}

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Tourism API client
	tourClient := tourapi.NewClient(cfg.TourAPIBaseURL, cfg.TourAPIServiceKey, cfg.TourAPIAppName)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo.Database(cfg.MongoDBName), firebaseApp.AuthClient, tourClient)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
