package domain

// Pigment Model
type Pigment struct {
	ID             uint   `gorm:"primaryKey" json:"id"`            // Primary key
	KremerID       string `gorm:"size:50" json:"kremer_id"`        // External catalog id, may be empty or duplicated
	Name           string `gorm:"size:100;not null" json:"name"`   // Display name
	FCIRNote       string `gorm:"size:100;not null" json:"fcir"`   // False-color-infrared note, may be empty
	CIRNote        string `gorm:"size:100;not null" json:"cir"`    // Color-infrared note, may be empty
	ImageTrueColor string `gorm:"size:100" json:"image_truecolor"` // True-color image filename in the upload dir
	ImageFCIR      string `gorm:"size:100" json:"image_fcir"`      // False-color-infrared image filename
	ImageCIR       string `gorm:"size:100" json:"image_cir"`       // Color-infrared image filename
	Position       int    `gorm:"default:0;index" json:"position"` // Display order, listing sorts by (position, id)
}
