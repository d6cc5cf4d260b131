package cars

import (
	"errors"
	"log"
	"net/http"

	"car-catalog/internal/api"
	"car-catalog/internal/database"
	"car-catalog/internal/storage"
	"car-catalog/internal/store"

	"github.com/labstack/echo/v4"
)

// saveUploadedImage reads the multipart "file" part and stores it for the
// given car model. The record must exist before any bytes are written.
func saveUploadedImage(c echo.Context, images storage.Store, id int) (string, int, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", http.StatusBadRequest, errors.New("missing file upload")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return "", http.StatusBadRequest, errors.New("unreadable file upload")
	}
	defer src.Close()

	filename, err := images.Save(id, src)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			return "", http.StatusBadRequest, errors.New("unsupported image type")
		}
		return "", http.StatusInternalServerError, errors.New("failed to store image")
	}
	return filename, 0, nil
}

// @Summary     Upload a car model image
// @Description Attach an image to a car model that has none yet
// @Tags        car_models
// @Accept      multipart/form-data
// @Produce     json
// @Param       id   path     int  true "Car model ID"
// @Param       file formData file true "Image file (jpeg, png or webp)"
// @Success     201 {object} api.ImageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     409 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /car_models/{id}/image [post]
func UploadCarModelImageHandler(db database.DB, images storage.Store) echo.HandlerFunc {
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
		if cm.ImagePath != nil {
			return c.JSON(http.StatusConflict, api.ErrorResponse{Message: "car model already has an image"})
		}

		filename, status, err := saveUploadedImage(c, images, id)
		if err != nil {
			return c.JSON(status, api.ErrorResponse{Message: err.Error()})
		}

		if _, err := setCarModelImage(c.Request().Context(), db, id, filename); err != nil {
			// Row write failed after the file write; drop the orphan.
			if rmErr := images.Remove(filename); rmErr != nil {
				log.Printf("upload image %d: remove orphan: %v", id, rmErr)
			}
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "car model not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to store image"})
		}

		return c.JSON(http.StatusCreated, api.ImageResponse{CarModelID: id, Filename: filename})
	}
}

// @Summary     Replace a car model image
// @Description Store the uploaded image, replacing any existing one
// @Tags        car_models
// @Accept      multipart/form-data
// @Produce     json
// @Param       id   path     int  true "Car model ID"
// @Param       file formData file true "Image file (jpeg, png or webp)"
// @Success     200 {object} api.ImageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /car_models/{id}/image [put]
func ReplaceCarModelImageHandler(db database.DB, images storage.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := carModelID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		if _, err := getCarModelByID(c.Request().Context(), db, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "car model not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to load car model"})
		}

		filename, status, err := saveUploadedImage(c, images, id)
		if err != nil {
			return c.JSON(status, api.ErrorResponse{Message: err.Error()})
		}

		prior, err := setCarModelImage(c.Request().Context(), db, id, filename)
		if err != nil {
			if rmErr := images.Remove(filename); rmErr != nil {
				log.Printf("replace image %d: remove orphan: %v", id, rmErr)
			}
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "car model not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to store image"})
		}
		if prior != nil && *prior != filename {
			if err := images.Remove(*prior); err != nil {
				log.Printf("replace image %d: remove previous: %v", id, err)
			}
		}

		return c.JSON(http.StatusOK, api.ImageResponse{CarModelID: id, Filename: filename})
	}
}

// @Summary     Delete a car model image
// @Tags        car_models
// @Param       id path int true "Car model ID"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /car_models/{id}/image [delete]
func DeleteCarModelImageHandler(db database.DB, images storage.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := carModelID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		prior, err := clearCarModelImage(c.Request().Context(), db, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "car model not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to delete image"})
		}
		if prior == nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "car model has no image"})
		}
		if err := images.Remove(*prior); err != nil {
			log.Printf("delete image %d: remove file: %v", id, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
