package api

import (
	"net/http" // HTTP status codes

	"pigment_catalog/internal/config"     // Application configuration
	"pigment_catalog/internal/middleware" // Session and admin guards

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// HomeHandler is the landing endpoint
func HomeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "pigment catalog"}) // Service landing response
	}
}

// NewRouter wires every route with its middleware chain
func NewRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	r := gin.Default() // Gin router instance

	// Public routes
	r.GET("/", HomeHandler())                           // Landing endpoint
	r.POST("/register", RegisterHandler(db, rdb, cfg))  // Registration endpoint
	r.POST("/login", LoginHandler(db, rdb, cfg))        // Login endpoint
	r.POST("/reset_password", ResetPasswordHandler(db)) // Password reset endpoint
	// Logout tears down whatever session the cookie names; it stays
	// outside the session guard so repeating it is harmless
	r.GET("/logout", LogoutHandler(rdb, cfg))

	// Catalog browsing is public but session-aware, so saved pigments can
	// be flagged for a logged-in user
	viewGroup := r.Group("/view", middleware.OptionalSessionMiddleware(rdb, cfg.JWTSecret))
	viewGroup.GET("", ListPigmentsHandler(db, rdb))   // Full catalog listing
	viewGroup.GET("/:id", GetPigmentHandler(db, rdb)) // Single pigment with neighbors

	// Routes requiring a live session
	sessionGroup := r.Group("", middleware.SessionAuthMiddleware(rdb, cfg.JWTSecret))
	sessionGroup.POST("/save/:id", ToggleBookmarkHandler(db)) // Bookmark toggle
	sessionGroup.GET("/profile", ProfileHandler(db))          // Saved pigments

	// Admin routes (protected, admin only)
	adminGroup := r.Group("", middleware.SessionAuthMiddleware(rdb, cfg.JWTSecret), middleware.AdminOnlyMiddleware(db))
	adminGroup.POST("/add", CreatePigmentHandler(db, rdb, cfg))      // Create pigment endpoint
	adminGroup.GET("/edit/:id", EditPigmentHandler(db))              // Fetch pigment for editing
	adminGroup.POST("/edit/:id", UpdatePigmentHandler(db, rdb, cfg)) // Update pigment endpoint
	adminGroup.POST("/delete/:id", DeletePigmentHandler(db, rdb))    // Delete pigment endpoint
	adminGroup.GET("/admin/users", ListUsersHandler(db))             // List users endpoint

	return r
}
