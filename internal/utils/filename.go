package utils

import (
	"path/filepath" // Path manipulation
	"regexp"        // For stripping unsafe characters
	"strings"       // String manipulation

	"github.com/google/uuid" // Fallback names and collision suffixes
)

// unsafeFilenameChars matches everything that is not a safe filename character
var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename reduces an uploaded filename to a safe basename.
// Directory components (both separators) are dropped so a crafted name
// cannot traverse out of the upload directory, and anything outside
// [A-Za-z0-9._-] is replaced with underscores. A name with nothing safe
// left in it gets a random one instead.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")             // Normalize Windows separators
	name = filepath.Base(name)                             // Drop directory components
	name = unsafeFilenameChars.ReplaceAllString(name, "_") // Strip unsafe characters
	name = strings.TrimLeft(name, "._")                    // No hidden or dot-dot remnants
	if name == "" {
		name = uuid.NewString() // Nothing usable left, make one up
	}
	return name
}

// UniqueFilename returns name with a short random suffix before the
// extension, used when a sanitized name would overwrite an existing file.
func UniqueFilename(name string) string {
	ext := filepath.Ext(name)                      // Keep the extension
	stem := strings.TrimSuffix(name, ext)          // Name without extension
	return stem + "-" + uuid.NewString()[:8] + ext // Short suffix avoids the collision
}
