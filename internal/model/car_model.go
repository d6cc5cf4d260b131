package model

import "time"

// CarModel is a catalog record. ImagePath points at the file stored by
// internal/storage and is nil while no image has been uploaded.
type CarModel struct {
	ID        int       `db:"id" json:"id"`
	Make      string    `db:"make" json:"make"`
	Model     string    `db:"model" json:"model"`
	Year      int       `db:"year" json:"year"`
	Price     float64   `db:"price" json:"price"`
	ImagePath *string   `db:"image_path" json:"image_path,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
