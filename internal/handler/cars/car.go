package cars

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"car-catalog/internal/api"
	"car-catalog/internal/database"
	"car-catalog/internal/model"
	"car-catalog/internal/storage"
	"car-catalog/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	createCarModel     = store.CreateCarModel
	getCarModelByID    = store.GetCarModelByID
	listCarModels      = store.ListCarModels
	updateCarModel     = store.UpdateCarModel
	deleteCarModel     = store.DeleteCarModel
	setCarModelImage   = store.SetCarModelImage
	clearCarModelImage = store.ClearCarModelImage
)

func carModelResponse(cm *model.CarModel) api.CarModelResponse {
	return api.CarModelResponse{
		ID:        cm.ID,
		Make:      cm.Make,
		Model:     cm.Model,
		Year:      cm.Year,
		Price:     cm.Price,
		HasImage:  cm.ImagePath != nil,
		CreatedAt: cm.CreatedAt,
	}
}

func carModelID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, errors.New("invalid car model ID")
	}
	return id, nil
}

// @Summary     Create a car model
// @Description Store a new car model record and return it with its assigned id
// @Tags        car_models
// @Accept      json
// @Produce     json
// @Param       car_model body api.CarModelRequest true "Car model fields"
// @Success     201 {object} api.CarModelResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /car_models [post]
func CreateCarModelHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CarModelRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		created, err := createCarModel(c.Request().Context(), db, &model.CarModel{
			Make:  req.Make,
			Model: req.Model,
			Year:  req.Year,
			Price: req.Price,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to create car model"})
		}
		return c.JSON(http.StatusCreated, carModelResponse(created))
	}
}

// @Summary     List car models
// @Description Filter by make/model substring and exact year, sort by a whitelisted field, paginate with offset/limit
// @Tags        car_models
// @Produce     json
// @Param       make    query string  false "Substring filter on make"
// @Param       model   query string  false "Substring filter on model"
// @Param       year    query int     false "Exact year filter"
// @Param       sort_by query string  false "Sort field" Enums(id, make, model, year, price)
// @Param       order   query string  false "Sort direction" Enums(asc, desc)
// @Param       offset  query int     false "Pagination offset"
// @Param       limit   query int     false "Page size (default 10, max 100)"
// @Success     200 {array}  api.CarModelResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /car_models [get]
func ListCarModelsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ListCarModelsRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid query parameters"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		list, err := listCarModels(c.Request().Context(), db, store.CarModelFilter{
			Make:       req.Make,
			Model:      req.Model,
			Year:       req.Year,
			SortBy:     req.SortBy,
			Descending: req.Order == "desc",
			Offset:     req.Offset,
			Limit:      req.Limit,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to list car models"})
		}

		resp := make([]api.CarModelResponse, 0, len(list))
		for i := range list {
			resp = append(resp, carModelResponse(&list[i]))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     Get a car model by ID
// @Tags        car_models
// @Produce     json
// @Param       id path int true "Car model ID"
// @Success     200 {object} api.CarModelResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /car_models/{id} [get]
func GetCarModelHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := carModelID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		cm, err := getCarModelByID(c.Request().Context(), db, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "car model not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to load car model"})
		}
		return c.JSON(http.StatusOK, carModelResponse(cm))
	}
}

// @Summary     Update a car model by ID
// @Description Full replace of make, model, year and price; the id and image are untouched
// @Tags        car_models
// @Accept      json
// @Produce     json
// @Param       id        path int                 true "Car model ID"
// @Param       car_model body api.CarModelRequest true "Replacement fields"
// @Success     200 {object} api.CarModelResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /car_models/{id} [put]
func UpdateCarModelHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := carModelID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		var req api.CarModelRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		cm := &model.CarModel{
			ID:    id,
			Make:  req.Make,
			Model: req.Model,
			Year:  req.Year,
			Price: req.Price,
		}
		if err := updateCarModel(c.Request().Context(), db, cm); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "car model not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to update car model"})
		}

		updated, err := getCarModelByID(c.Request().Context(), db, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to load car model"})
		}
		return c.JSON(http.StatusOK, carModelResponse(updated))
	}
}

// @Summary     Delete a car model by ID
// @Description Remove the record; its image file, if any, is removed as well
// @Tags        car_models
// @Param       id path int true "Car model ID"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /car_models/{id} [delete]
func DeleteCarModelHandler(db database.DB, images storage.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := carModelID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		imagePath, err := deleteCarModel(c.Request().Context(), db, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "car model not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to delete car model"})
		}
		if imagePath != nil {
			// The row is already gone; a stale file is logged, not surfaced.
			if err := images.Remove(*imagePath); err != nil {
				log.Printf("delete car model %d: remove image: %v", id, err)
			}
		}
		return c.NoContent(http.StatusNoContent)
	}
}
