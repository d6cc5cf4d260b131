package api

// CarModelRequest is the JSON body for both create and full update.
// swagger:model api.CarModelRequest
type CarModelRequest struct {
	Make  string  `json:"make" validate:"required" example:"Toyota"`
	Model string  `json:"model" validate:"required" example:"Corolla"`
	Year  int     `json:"year" validate:"required,min=1886,max=2100" example:"2020"`
	Price float64 `json:"price" validate:"min=0" example:"21500"`
}
