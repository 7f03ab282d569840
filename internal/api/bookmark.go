package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"pigment_catalog/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/clause"        // ON CONFLICT support
)

// ToggleBookmarkHandler flips whether the current user has saved a pigment.
// The whole read-modify-write runs in one transaction: delete the pair if
// it exists, otherwise insert it with the composite primary key absorbing
// any concurrent duplicate insert.
func ToggleBookmarkHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uint)   // Session middleware guarantees the identity
		id, err := strconv.Atoi(c.Param("id")) // Parse pigment id from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pigment id"})
			return
		}
		var pigment domain.Pigment // The pigment must exist to be bookmarked
		if err := db.First(&pigment, id).Error; err != nil {
			// If pigment not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "Pigment not found"})
			return
		}
		var saved bool // Membership state after the toggle
		err = db.Transaction(func(tx *gorm.DB) error {
			// Try to remove the pair
			res := tx.Where("user_id = ? AND pigment_id = ?", userID, pigment.ID).Delete(&domain.SavedPigment{})
			if res.Error != nil {
				return res.Error // Rollback on delete failure
			}
			if res.RowsAffected > 0 {
				saved = false // Pair existed, it is unsaved now
				return nil
			}
			// Pair absent, insert it; DO NOTHING keeps a racing duplicate
			// insert from failing the request
			saved = true
			return tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&domain.SavedPigment{UserID: userID, PigmentID: pigment.ID}).Error
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id":    userID,      // Acting user
				"pigment_id": pigment.ID,  // Toggled pigment
				"error":      err.Error(), // Error message
			}).Error("Bookmark toggle failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle bookmark"})
			return
		}
		// Log the toggle
		logrus.WithFields(logrus.Fields{
			"user_id":    userID,     // Acting user
			"pigment_id": pigment.ID, // Toggled pigment
			"saved":      saved,      // New membership state
		}).Info("Bookmark toggled")
		c.JSON(http.StatusOK, gin.H{"saved": saved}) // Return the new state
	}
}

// ProfileHandler lists the current user's saved pigments in catalog order
func ProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uint) // Session middleware guarantees the identity
		pigments := []domain.Pigment{}       // Empty, not nil, so the JSON is always an array
		// One fixed contract: a materialized ordered list via the join table
		if err := db.Joins("JOIN saved_pigments ON saved_pigments.pigment_id = pigments.id").
			Where("saved_pigments.user_id = ?", userID).
			Order(pigmentOrder).
			Find(&pigments).Error; err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch saved pigments"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"pigments": pigments}) // Return the saved list
	}
}
