package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sokrith/blogmesh-core/internal/auth"
	"github.com/sokrith/blogmesh-core/internal/config"
	"github.com/sokrith/blogmesh-core/internal/posts"
	"github.com/sokrith/blogmesh-core/internal/users"
)

// NewRouter builds the full gin engine with every route and middleware wired.
func NewRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	userHandler := users.NewHandler(db, cfg.UploadDir)
	authHandler := auth.NewHandler(db, cfg.JWTSecret)
	postHandler := posts.NewHandler(db)
	guard := auth.RequireAuth(cfg.JWTSecret)

	u := r.Group("/users")
	{
		u.GET("", userHandler.List)
		u.GET("/:id", guard, userHandler.Get)
		u.GET("/me", guard, authHandler.Me)
		u.POST("/register", userHandler.Register)
		u.PUT("/edit/:id", guard, userHandler.Edit)
		u.POST("/login", authHandler.Login)
		u.POST("/logout", authHandler.Logout)
		u.GET("/uploads/:id", userHandler.Avatar)
	}

	p := r.Group("/posts", guard)
	{
		p.GET("", postHandler.List)
		p.GET("/:id", postHandler.Get)
		p.POST("/add", postHandler.Add)
		p.PUT("/update/:id", postHandler.Update)
		p.DELETE("/:id", postHandler.Delete)
		p.DELETE("", postHandler.BulkDelete)
	}

	return r
}
