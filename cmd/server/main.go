package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/sokrith/blogmesh-core/internal/config"
	"github.com/sokrith/blogmesh-core/internal/database"
	"github.com/sokrith/blogmesh-core/internal/placeholder"
	"github.com/sokrith/blogmesh-core/internal/posts"
	"github.com/sokrith/blogmesh-core/internal/server"
	"github.com/sokrith/blogmesh-core/internal/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded, continuing with environment variables")
	}

	if m := os.Getenv("GIN_MODE"); m != "" {
		gin.SetMode(m)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db, &users.User{}, &posts.Post{}); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("failed to create upload dir: %v", err)
	}

	// populate posts from the placeholder API on first boot; failure is not fatal
	seeder := placeholder.NewSeeder(db, placeholder.NewClient())
	if err := seeder.Seed(); err != nil {
		log.Printf("error fetching and populating data: %v", err)
	}

	r := server.NewRouter(db, cfg)

	log.Printf("server is running on port: %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
