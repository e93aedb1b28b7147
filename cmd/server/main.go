package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/hajobja/hajobja-backend/internal/config"
	"github.com/hajobja/hajobja-backend/internal/database"
	"github.com/hajobja/hajobja-backend/internal/handlers"
	"github.com/hajobja/hajobja-backend/internal/middleware"
	"github.com/hajobja/hajobja-backend/internal/routes"
	"github.com/hajobja/hajobja-backend/internal/services"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to PostgreSQL (interaction + audit logs)
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis (sessions, cache, rate limiting, feed pub/sub)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Connect to MongoDB (primary datastore)
	log.Printf("Connecting to MongoDB...")
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	if err := database.EnsureIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB indexes: %v", err)
	} else {
		log.Println("✅ MongoDB indexes ensured")
	}

	// Initialize Cloudinary service
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		if err := handlers.InitCloudinaryService(cfg); err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("File uploads will not be available")
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. File uploads will not be available")
	}

	// Initialize AI client (blog suggestions, Orion command center)
	if cfg.AIEndpoint != "" {
		handlers.InitAIService(cfg.AIEndpoint, cfg.AIAPIKey)
		log.Println("✅ AI service initialized")
	} else {
		log.Println("Warning: AI_ENDPOINT not set. AI features will not be available")
	}

	// Start the shared Redis feed subscriber and the expiry sweep
	services.StartFeedSubscriber(context.Background())
	services.StartExpirySweep(6)
	log.Println("✅ Expiry sweep started (every 6 hours)")

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Production: SecurityHeaders → HostCheck → GlobalRateLimit → LoginRateLimit
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost) {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, host check, per-IP + login rate limiting)")
	} else {
		r.Use(middleware.RateLimitMiddleware)
	}

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r)

	log.Printf("🚀 HAJOBJA backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
