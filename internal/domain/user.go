package domain

// User Model
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`                          // Primary key
	Username     string `gorm:"size:150;uniqueIndex;not null" json:"username"` // Unique username
	Email        string `gorm:"size:120;uniqueIndex;not null" json:"email"`    // Unique email address
	FirstName    string `gorm:"size:120;not null" json:"first_name"`           // First name
	LastName     string `gorm:"size:120;not null" json:"last_name"`            // Last name
	PasswordHash string `gorm:"size:128;not null" json:"-"`                    // Bcrypt hash, never serialized
	IsAdmin      bool   `gorm:"default:false" json:"is_admin"`                 // Admin flag, default false
}
