package api

import (
	"net/http" // HTTP status codes

	"pigment_catalog/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// UserAdminResponse represents the user data returned to admins
type UserAdminResponse struct {
	ID        uint   `json:"id"`         // User ID
	Username  string `json:"username"`   // Username
	Email     string `json:"email"`      // Email address
	FirstName string `json:"first_name"` // First name
	LastName  string `json:"last_name"`  // Last name
	IsAdmin   bool   `json:"is_admin"`   // Admin flag
}

// ListUsersHandler returns all users sorted by username
func ListUsersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []domain.User // Slice to hold users
		// Fetch every user ordered by username
		if err := db.Order("username asc").Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"}) // Return on error
			return
		}
		// Map users to the response shape, no password hashes
		resp := make([]UserAdminResponse, len(users))
		for i, u := range users {
			resp[i] = UserAdminResponse{
				ID:        u.ID,        // User ID
				Username:  u.Username,  // Username
				Email:     u.Email,     // Email address
				FirstName: u.FirstName, // First name
				LastName:  u.LastName,  // Last name
				IsAdmin:   u.IsAdmin,   // Admin flag
			}
		}
		c.JSON(http.StatusOK, gin.H{"users": resp}) // Return the user list
	}
}
