package api

// ImageResponse confirms an image write; the file itself is served
// out of band.
// swagger:model api.ImageResponse
type ImageResponse struct {
	CarModelID int    `json:"car_model_id" example:"1"`
	Filename   string `json:"filename" example:"1_7f8a9f0e.png"`
}
