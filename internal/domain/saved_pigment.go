package domain

// SavedPigment is the join row between a user and a bookmarked pigment.
// The composite primary key makes the pair unique, which is what absorbs
// concurrent duplicate toggles.
type SavedPigment struct {
	UserID    uint `gorm:"primaryKey" json:"user_id"`    // Foreign key to User
	PigmentID uint `gorm:"primaryKey" json:"pigment_id"` // Foreign key to Pigment

	User    User    `gorm:"constraint:OnDelete:CASCADE" json:"-"` // Owning user
	Pigment Pigment `gorm:"constraint:OnDelete:CASCADE" json:"-"` // Bookmarked pigment
}

// TableName pins the join table name used by the bookmark queries.
func (SavedPigment) TableName() string {
	return "saved_pigments"
}
