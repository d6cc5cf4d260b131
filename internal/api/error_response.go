package api

// ErrorResponse is the uniform error body for every failure status.
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Message string `json:"message" example:"car model not found"`
}
