package models

import (
	"time"

	"github.com/google/uuid"
)

// Food is one menu entry. ImageObject is the object key in the image bucket,
// not a URL; presigned URLs are generated on read.
type Food struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Category    string    `json:"category" db:"category"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	ImageObject *string   `json:"image_object" db:"image_object"`
	Available   bool      `json:"available" db:"available"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
