package api

// ListCarModelsRequest carries the query parameters of GET /car_models.
// Filterable fields are exactly make (substring), model (substring) and
// year (exact); anything else is rejected by validation, never ignored.
// swagger:model api.ListCarModelsRequest
type ListCarModelsRequest struct {
	Make   string `query:"make" example:"Toyota"`
	Model  string `query:"model" example:"Corolla"`
	Year   *int   `query:"year" example:"2020"`
	SortBy string `query:"sort_by" validate:"omitempty,oneof=id make model year price" example:"year"`
	Order  string `query:"order" validate:"omitempty,oneof=asc desc" example:"desc"`
	Offset int    `query:"offset" validate:"omitempty,min=0" example:"0"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100" example:"10"`
}
