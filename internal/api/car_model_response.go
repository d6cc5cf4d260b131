package api

import "time"

// swagger:model api.CarModelResponse
type CarModelResponse struct {
	ID        int       `json:"id" example:"1"`
	Make      string    `json:"make" example:"Toyota"`
	Model     string    `json:"model" example:"Corolla"`
	Year      int       `json:"year" example:"2020"`
	Price     float64   `json:"price" example:"21500"`
	HasImage  bool      `json:"has_image" example:"false"`
	CreatedAt time.Time `json:"created_at" example:"2025-05-01T15:04:05Z"`
}
