package main

import (
	"net/http"
	"os"

	"github.com/bizmitra/backoffice-backend/internal/auth"
	"github.com/bizmitra/backoffice-backend/internal/cache"
	"github.com/bizmitra/backoffice-backend/internal/config"
	"github.com/bizmitra/backoffice-backend/internal/database"
	"github.com/bizmitra/backoffice-backend/internal/handler"
	appMiddleware "github.com/bizmitra/backoffice-backend/internal/middleware"
	"github.com/bizmitra/backoffice-backend/internal/repository"
	"github.com/bizmitra/backoffice-backend/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	if cfg.Environment == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations in dev environment
	if cfg.Environment == "dev" {
		log.Info().Msg("Running database migrations...")
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		log.Info().Msg("Migrations completed successfully")
	}

	// Validate JWT secret is configured
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET environment variable is required")
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize Google Drive service (optional - only if credentials are configured)
	var gdriveService *storage.GDriveService
	if cfg.GDriveCredentialsPath != "" && cfg.GDriveTokenPath != "" && cfg.GDriveFolderID != "" {
		var err error
		gdriveService, err = storage.NewGDriveService(cfg.GDriveCredentialsPath, cfg.GDriveTokenPath, cfg.GDriveFolderID)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Google Drive service, logo uploads will be disabled")
		} else {
			log.Info().Msg("Google Drive service initialized successfully")
		}
	} else {
		log.Info().Msg("Google Drive credentials not configured, logo uploads disabled")
	}

	// Initialize repository and handlers
	queries := repository.New(db)
	statesCache := cache.New()

	authHandler := handler.NewAuthHandler(queries, jwtManager)
	categoryHandler := handler.NewCategoryHandler(queries)
	productHandler := handler.NewProductHandler(queries)
	partyHandler := handler.NewPartyHandler(queries)
	transportHandler := handler.NewTransportHandler(queries)
	locationHandler := handler.NewLocationHandler(queries, statesCache)
	profileHandler := handler.NewProfileHandler(queries, gdriveService)

	// Initialize router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(appMiddleware.RequestLogger(log.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Public routes
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.JWTAuth(jwtManager))
				r.Get("/me", authHandler.GetMe)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Everything below requires a valid access token
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.JWTAuth(jwtManager))

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", categoryHandler.List)
				r.Get("/all", categoryHandler.ListAll)
				r.Post("/", categoryHandler.Create)
				r.Get("/{id}", categoryHandler.GetByID)
				r.Put("/{id}", categoryHandler.Update)
				r.Delete("/{id}", categoryHandler.Delete)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", productHandler.List)
				r.Post("/", productHandler.Create)
				r.Get("/{id}", productHandler.GetByID)
				r.Put("/{id}", productHandler.Update)
				r.Delete("/{id}", productHandler.Delete)
			})

			r.Route("/parties", func(r chi.Router) {
				r.Get("/", partyHandler.List)
				r.Post("/", partyHandler.Create)
				r.Get("/{id}", partyHandler.GetByID)
				r.Put("/{id}", partyHandler.Update)
				r.Delete("/{id}", partyHandler.Delete)
			})

			r.Route("/transports", func(r chi.Router) {
				r.Get("/", transportHandler.List)
				r.Get("/next-code", transportHandler.NextCode)
				r.Post("/", transportHandler.Create)
				r.Get("/{id}", transportHandler.GetByID)
				r.Put("/{id}", transportHandler.Update)
				r.Delete("/{id}", transportHandler.Delete)
			})

			r.Route("/business-profile", func(r chi.Router) {
				r.Get("/", profileHandler.Get)
				r.Put("/", profileHandler.Upsert)
				r.Post("/logo", profileHandler.UploadLogo)
			})

			r.Route("/locations", func(r chi.Router) {
				r.Get("/states", locationHandler.ListStates)
				r.Get("/cities", locationHandler.ListCities)
			})
		})
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Str("env", cfg.Environment).Msg("Server starting")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
