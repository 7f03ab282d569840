package api

import (
	"context"       // Context for Redis operations
	"errors"        // Error inspection
	"net/http"      // HTTP status codes
	"os"            // File existence checks
	"path/filepath" // Upload destination paths
	"strconv"       // String conversion
	"time"          // Cache TTL

	"pigment_catalog/internal/config" // Application configuration
	"pigment_catalog/internal/domain" // Importing domain models
	"pigment_catalog/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// catalogCacheKey caches the full ordered pigment list
const catalogCacheKey = "catalog:pigments"

// pigmentOrder is the listing order: position ascending, id breaks ties
// so the sequence is deterministic.
const pigmentOrder = "pigments.position asc, pigments.id asc"

// orderedPigments returns the full catalog in listing order, going through
// the Redis cache when possible
func orderedPigments(ctx context.Context, db *gorm.DB, rdb *redis.Client) ([]domain.Pigment, bool, error) {
	var pigments []domain.Pigment
	// Try the cache first
	found, err := utils.GetCache(ctx, rdb, catalogCacheKey, &pigments)
	if err == nil && found {
		return pigments, true, nil // Serve from cache
	}
	// Fetch the ordered list from the database
	if err := db.Order(pigmentOrder).Find(&pigments).Error; err != nil {
		return nil, false, err
	}
	// Cache the list for subsequent requests
	_ = utils.SetCache(ctx, rdb, catalogCacheKey, pigments, 60*time.Second)
	return pigments, false, nil
}

// invalidateCatalogCache drops the cached pigment list after any mutation
func invalidateCatalogCache(ctx context.Context, rdb *redis.Client) {
	_ = utils.DeleteCache(ctx, rdb, catalogCacheKey)
}

// savedIDsFor returns the pigment ids the current session's user has saved.
// Anonymous requests get an empty list.
func savedIDsFor(c *gin.Context, db *gorm.DB) []uint {
	savedIDs := []uint{} // Empty, not nil, so the JSON is always an array
	userID, exists := c.Get("userID")
	if !exists {
		return savedIDs // No session, nothing saved
	}
	// Materialize the saved set as a plain id list
	if err := db.Model(&domain.SavedPigment{}).Where("user_id = ?", userID).
		Order("pigment_id asc").Pluck("pigment_id", &savedIDs).Error; err != nil {
		return []uint{} // Treat a lookup failure as nothing saved
	}
	return savedIDs
}

// ListPigmentsHandler returns the full catalog in display order, with the
// current user's saved ids alongside
func ListPigmentsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		pigments, cached, err := orderedPigments(c.Request.Context(), db, rdb)
		if err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pigments"})
			return
		}
		// Saved ids are per-user and therefore never cached
		c.JSON(http.StatusOK, gin.H{
			"pigments":  pigments,           // Ordered pigment list
			"saved_ids": savedIDsFor(c, db), // Current user's bookmarks
			"cached":    cached,             // Whether the list came from cache
		})
	}
}

// GetPigmentHandler returns one pigment plus its cyclic neighbors in the
// position-ordered sequence: the first item's previous is the last item and
// the last item's next is the first. A single-element catalog is its own
// neighbor in both directions.
func GetPigmentHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id")) // Parse pigment id from path
		if err != nil {
			// If the id is not numeric, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pigment id"})
			return
		}
		pigments, _, err := orderedPigments(c.Request.Context(), db, rdb)
		if err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pigments"})
			return
		}
		// Locate the pigment in the ordered sequence
		index := -1
		for i, p := range pigments {
			if p.ID == uint(id) {
				index = i
				break
			}
		}
		if index < 0 {
			// Unknown pigment id
			c.JSON(http.StatusNotFound, gin.H{"error": "Pigment not found"})
			return
		}
		n := len(pigments) // Wrap-around arithmetic over the sequence
		prevID := pigments[(index-1+n)%n].ID
		nextID := pigments[(index+1)%n].ID
		// Whether the current user saved this pigment
		saved := false
		for _, sid := range savedIDsFor(c, db) {
			if sid == uint(id) {
				saved = true
				break
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"pigment": pigments[index], // The requested pigment
			"prev_id": prevID,          // Cyclic previous neighbor
			"next_id": nextID,          // Cyclic next neighbor
			"saved":   saved,           // Saved by the current user
		})
	}
}

// saveUploadedImage persists one optional multipart image field under a
// sanitized filename and returns the stored name, or "" when the field is
// absent. Files land on disk before the referencing row is committed, so a
// failed request can leave at worst an orphaned file, never a row pointing
// at missing bytes.
func saveUploadedImage(c *gin.Context, field, uploadDir string) (string, error) {
	file, err := c.FormFile(field) // Look up the multipart field
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil // Field absent, nothing to store
		}
		return "", err // Malformed multipart payload
	}
	if file.Filename == "" {
		return "", nil // Empty file input, treat as absent
	}
	name := utils.SanitizeFilename(file.Filename) // Strip paths and unsafe characters
	// Make sure the upload directory exists
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", err
	}
	dest := filepath.Join(uploadDir, name)
	// Two different uploads can sanitize to the same name; suffix instead
	// of silently overwriting
	if _, err := os.Stat(dest); err == nil {
		name = utils.UniqueFilename(name)
		dest = filepath.Join(uploadDir, name)
	}
	// Write the bytes to the asset store
	if err := c.SaveUploadedFile(file, dest); err != nil {
		return "", err
	}
	return name, nil
}

// imageFields are the three optional upload fields on add/edit forms
var imageFields = []string{"image_truecolor", "image_fcir", "image_cir"}

// CreatePigmentHandler creates a pigment record from a multipart form
func CreatePigmentHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.PostForm("pigment_name") // Display name is the only required field
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Pigment name is required"})
			return
		}
		position, _ := strconv.Atoi(c.PostForm("position")) // Defaults to 0 when absent or invalid
		pigment := domain.Pigment{
			KremerID: c.PostForm("kremer_id"), // Optional external catalog id
			Name:     name,                    // Display name
			FCIRNote: c.PostForm("fcir"),      // False-color-infrared note
			CIRNote:  c.PostForm("cir"),       // Color-infrared note
			Position: position,                // Display order
		}
		// Persist the image bytes before committing the record that
		// references them
		images := make(map[string]string, len(imageFields))
		for _, field := range imageFields {
			stored, err := saveUploadedImage(c, field, cfg.UploadDir)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"field": field,       // Which upload failed
					"error": err.Error(), // Error message
				}).Error("Image upload failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
				return
			}
			images[field] = stored
		}
		pigment.ImageTrueColor = images["image_truecolor"] // True-color reference
		pigment.ImageFCIR = images["image_fcir"]           // False-color-infrared reference
		pigment.ImageCIR = images["image_cir"]             // Color-infrared reference
		// Create the record
		if err := db.Create(&pigment).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"name":  pigment.Name, // Pigment name
				"error": err.Error(),  // Error message
			}).Error("Failed to create pigment")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create pigment"})
			return
		}
		invalidateCatalogCache(c.Request.Context(), rdb) // The cached list is stale now
		// Log the creation
		logrus.WithFields(logrus.Fields{
			"pigment_id": pigment.ID,   // New pigment ID
			"name":       pigment.Name, // Pigment name
		}).Info("Pigment created")
		// Return the new record
		c.JSON(http.StatusCreated, gin.H{"message": "Pigment created", "pigment": pigment})
	}
}

// EditPigmentHandler returns the current record for the admin edit form
func EditPigmentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id")) // Parse pigment id from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pigment id"})
			return
		}
		var pigment domain.Pigment // Fetch pigment from database
		if err := db.First(&pigment, id).Error; err != nil {
			// If pigment not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "Pigment not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"pigment": pigment}) // Return the record
	}
}

// UpdatePigmentHandler edits a pigment from a multipart form. An absent
// image upload preserves the stored reference instead of clearing it.
func UpdatePigmentHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id")) // Parse pigment id from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pigment id"})
			return
		}
		var pigment domain.Pigment // Fetch pigment from database
		if err := db.First(&pigment, id).Error; err != nil {
			// If pigment not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "Pigment not found"})
			return
		}
		name := c.PostForm("pigment_name") // Display name stays required
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Pigment name is required"})
			return
		}
		// Overwrite the text fields from the form
		pigment.KremerID = c.PostForm("kremer_id") // Optional external catalog id
		pigment.Name = name                        // Display name
		pigment.FCIRNote = c.PostForm("fcir")      // False-color-infrared note
		pigment.CIRNote = c.PostForm("cir")        // Color-infrared note
		if pos := c.PostForm("position"); pos != "" {
			if v, err := strconv.Atoi(pos); err == nil {
				pigment.Position = v // New display order
			}
		}
		// Store any replacement images, keeping old references otherwise
		for _, img := range []struct {
			field string  // Multipart field name
			dest  *string // Column to update
		}{
			{"image_truecolor", &pigment.ImageTrueColor},
			{"image_fcir", &pigment.ImageFCIR},
			{"image_cir", &pigment.ImageCIR},
		} {
			stored, err := saveUploadedImage(c, img.field, cfg.UploadDir)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"pigment_id": pigment.ID,  // Affected pigment
					"field":      img.field,   // Which upload failed
					"error":      err.Error(), // Error message
				}).Error("Image upload failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
				return
			}
			if stored != "" {
				*img.dest = stored // Replace only when a file was supplied
			}
		}
		// Save the updated record
		if err := db.Save(&pigment).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"pigment_id": pigment.ID,  // Affected pigment
				"error":      err.Error(), // Error message
			}).Error("Failed to update pigment")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update pigment"})
			return
		}
		invalidateCatalogCache(c.Request.Context(), rdb) // The cached list is stale now
		c.JSON(http.StatusOK, gin.H{"message": "Pigment updated", "pigment": pigment})
	}
}

// DeletePigmentHandler removes a pigment and every bookmark that
// references it, in one transaction so no orphaned bookmark survives
func DeletePigmentHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id")) // Parse pigment id from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pigment id"})
			return
		}
		var pigment domain.Pigment // Fetch pigment from database
		if err := db.First(&pigment, id).Error; err != nil {
			// If pigment not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "Pigment not found"})
			return
		}
		// Bookmarks referencing the pigment go first, then the record
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("pigment_id = ?", pigment.ID).Delete(&domain.SavedPigment{}).Error; err != nil {
				return err // Rollback on bookmark cleanup failure
			}
			return tx.Delete(&pigment).Error
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"pigment_id": pigment.ID,  // Affected pigment
				"error":      err.Error(), // Error message
			}).Error("Failed to delete pigment")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete pigment"})
			return
		}
		invalidateCatalogCache(c.Request.Context(), rdb) // The cached list is stale now
		// Log the deletion
		logrus.WithFields(logrus.Fields{
			"pigment_id": pigment.ID,   // Deleted pigment
			"name":       pigment.Name, // Pigment name
		}).Info("Pigment deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Pigment deleted"}) // Return success response
	}
}
