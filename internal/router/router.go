package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sunginkim/tourgo/backend/internal/handlers"
	"github.com/sunginkim/tourgo/backend/internal/middleware"
	"github.com/sunginkim/tourgo/backend/internal/models"
	"github.com/sunginkim/tourgo/backend/internal/repositories"
	"github.com/sunginkim/tourgo/backend/internal/tourapi"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mongoDB *mongo.Database, firebaseAuthClient *auth.Client, tourClient tourapi.TourClient) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Bookmark{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	bookmarkRepo := repositories.NewPostgresBookmarkRepository(pgdb)
	tourCacheRepo := repositories.NewMongoTourCacheRepository(mongoDB)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Public browsing routes (bookmark flags added when a token is present) ---
	public := e.Group("/api/v1")
	public.Use(middleware.OptionalJWTAuthMiddleware())

	tourHandler := handlers.NewTourHandler(tourClient, tourCacheRepo, bookmarkRepo)
	tourHandler.RegisterTourRoutes(public)
	log.Println("Tour routes configured.")

	areaHandler := handlers.NewAreaHandler(tourClient)
	areaHandler.RegisterAreaRoutes(public)
	log.Println("Area routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkRepo, tourClient)
	bookmarkHandler.RegisterBookmarkRoutes(api)
	log.Println("Bookmark routes configured.")

	log.Println("All routes configured.")
}
