package cars

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"car-catalog/internal/database"
	"car-catalog/internal/model"
	"car-catalog/internal/storage"
	"car-catalog/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type stubValidator struct{ err error }

func (s *stubValidator) Validate(i interface{}) error { return s.err }

func newJSONCtx(e *echo.Echo, method, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/car_models", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newIDCtx(e *echo.Echo, method, id, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/car_models/"+id, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetPath("/car_models/:id")
	ctx.SetParamNames("id")
	ctx.SetParamValues(id)
	return ctx, rec
}

func newListCtx(e *echo.Echo, query string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/car_models?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func restore() {
	createCarModel = store.CreateCarModel
	getCarModelByID = store.GetCarModelByID
	listCarModels = store.ListCarModels
	updateCarModel = store.UpdateCarModel
	deleteCarModel = store.DeleteCarModel
	setCarModelImage = store.SetCarModelImage
	clearCarModelImage = store.ClearCarModelImage
}

func TestCreateCarModelHandler(t *testing.T) {
	e := echo.New()

	t.Run("bind error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		ctx, rec := newJSONCtx(e, http.MethodPost, "{bad json")
		require.NoError(t, CreateCarModelHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validate error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{err: errors.New("year is required")}
		ctx, rec := newJSONCtx(e, http.MethodPost, `{"make":"Toyota"}`)
		require.NoError(t, CreateCarModelHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "year is required")
	})

	t.Run("store error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		createCarModel = func(context.Context, database.DB, *model.CarModel) (*model.CarModel, error) {
			return nil, errors.New("insert")
		}
		ctx, rec := newJSONCtx(e, http.MethodPost, `{"make":"Toyota","model":"Corolla","year":2020,"price":21500}`)
		require.NoError(t, CreateCarModelHandler(nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("success assigns id", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		now := time.Now().UTC()
		createCarModel = func(_ context.Context, _ database.DB, cm *model.CarModel) (*model.CarModel, error) {
			require.Equal(t, "Toyota", cm.Make)
			require.Equal(t, "Corolla", cm.Model)
			require.Equal(t, 2020, cm.Year)
			cm.ID = 1
			cm.CreatedAt = now
			return cm, nil
		}
		ctx, rec := newJSONCtx(e, http.MethodPost, `{"make":"Toyota","model":"Corolla","year":2020,"price":21500}`)
		require.NoError(t, CreateCarModelHandler(nil)(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, float64(1), body["id"])
		require.Equal(t, "Toyota", body["make"])
		require.Equal(t, false, body["has_image"])
	})
}

func TestListCarModelsHandler(t *testing.T) {
	e := echo.New()

	t.Run("validate error on unknown sort field", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{err: errors.New("sort_by must be one of")}
		ctx, rec := newListCtx(e, "sort_by=color")
		require.NoError(t, ListCarModelsHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("filter passthrough", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		var gotFilter store.CarModelFilter
		listCarModels = func(_ context.Context, _ database.DB, f store.CarModelFilter) ([]model.CarModel, error) {
			gotFilter = f
			return nil, nil
		}
		ctx, rec := newListCtx(e, "make=Toy&year=2020&sort_by=year&order=desc&offset=5&limit=20")
		require.NoError(t, ListCarModelsHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "Toy", gotFilter.Make)
		require.NotNil(t, gotFilter.Year)
		require.Equal(t, 2020, *gotFilter.Year)
		require.Equal(t, "year", gotFilter.SortBy)
		require.True(t, gotFilter.Descending)
		require.Equal(t, 5, gotFilter.Offset)
		require.Equal(t, 20, gotFilter.Limit)
	})

	t.Run("store error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		listCarModels = func(context.Context, database.DB, store.CarModelFilter) ([]model.CarModel, error) {
			return nil, errors.New("query")
		}
		ctx, rec := newListCtx(e, "")
		require.NoError(t, ListCarModelsHandler(nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		listCarModels = func(context.Context, database.DB, store.CarModelFilter) ([]model.CarModel, error) {
			return []model.CarModel{}, nil
		}
		ctx, rec := newListCtx(e, "")
		require.NoError(t, ListCarModelsHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "[]\n", rec.Body.String())
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		listCarModels = func(context.Context, database.DB, store.CarModelFilter) ([]model.CarModel, error) {
			return []model.CarModel{
				{ID: 2, Make: "Toyota", Model: "Corolla", Year: 2020},
				{ID: 3, Make: "Honda", Model: "Civic", Year: 2010},
			}, nil
		}
		ctx, rec := newListCtx(e, "")
		require.NoError(t, ListCarModelsHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)

		var body []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 2)
		require.Equal(t, float64(2020), body[0]["year"])
		require.Equal(t, float64(2010), body[1]["year"])
	})
}

func TestGetCarModelHandler(t *testing.T) {
	e := echo.New()

	t.Run("bad id", func(t *testing.T) {
		t.Cleanup(restore)
		ctx, rec := newIDCtx(e, http.MethodGet, "x", "")
		require.NoError(t, GetCarModelHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		t.Cleanup(restore)
		getCarModelByID = func(context.Context, database.DB, int) (*model.CarModel, error) {
			return nil, store.ErrNotFound
		}
		ctx, rec := newIDCtx(e, http.MethodGet, "99", "")
		require.NoError(t, GetCarModelHandler(nil)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("store error", func(t *testing.T) {
		t.Cleanup(restore)
		getCarModelByID = func(context.Context, database.DB, int) (*model.CarModel, error) {
			return nil, errors.New("db")
		}
		ctx, rec := newIDCtx(e, http.MethodGet, "1", "")
		require.NoError(t, GetCarModelHandler(nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		path := "1_img.png"
		getCarModelByID = func(_ context.Context, _ database.DB, id int) (*model.CarModel, error) {
			require.Equal(t, 1, id)
			return &model.CarModel{ID: 1, Make: "Toyota", Model: "Corolla", Year: 2020, ImagePath: &path}, nil
		}
		ctx, rec := newIDCtx(e, http.MethodGet, "1", "")
		require.NoError(t, GetCarModelHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "\"has_image\":true")
		require.NotContains(t, rec.Body.String(), "image_path")
	})
}

func TestUpdateCarModelHandler(t *testing.T) {
	e := echo.New()
	body := `{"make":"Toyota","model":"Corolla","year":2021,"price":22000}`

	t.Run("bad id", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		ctx, rec := newIDCtx(e, http.MethodPut, "x", body)
		require.NoError(t, UpdateCarModelHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		updateCarModel = func(context.Context, database.DB, *model.CarModel) error {
			return store.ErrNotFound
		}
		ctx, rec := newIDCtx(e, http.MethodPut, "99", body)
		require.NoError(t, UpdateCarModelHandler(nil)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("idempotent success", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		stored := model.CarModel{ID: 1, Make: "Old", Model: "Old", Year: 2000}
		updateCarModel = func(_ context.Context, _ database.DB, cm *model.CarModel) error {
			stored.Make = cm.Make
			stored.Model = cm.Model
			stored.Year = cm.Year
			stored.Price = cm.Price
			return nil
		}
		getCarModelByID = func(context.Context, database.DB, int) (*model.CarModel, error) {
			cp := stored
			return &cp, nil
		}

		ctx, rec := newIDCtx(e, http.MethodPut, "1", body)
		require.NoError(t, UpdateCarModelHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		first := rec.Body.String()

		ctx, rec = newIDCtx(e, http.MethodPut, "1", body)
		require.NoError(t, UpdateCarModelHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, first, rec.Body.String())
		require.Equal(t, 2021, stored.Year)
	})
}

func TestDeleteCarModelHandler(t *testing.T) {
	e := echo.New()

	t.Run("bad id", func(t *testing.T) {
		t.Cleanup(restore)
		ctx, rec := newIDCtx(e, http.MethodDelete, "0", "")
		require.NoError(t, DeleteCarModelHandler(nil, nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("removes stored image file", func(t *testing.T) {
		t.Cleanup(restore)
		path := "1_img.png"
		deleteCarModel = func(context.Context, database.DB, int) (*string, error) {
			return &path, nil
		}
		var removed string
		images := &storage.FakeStore{RemoveFn: func(filename string) error {
			removed = filename
			return nil
		}}
		ctx, rec := newIDCtx(e, http.MethodDelete, "1", "")
		require.NoError(t, DeleteCarModelHandler(nil, images)(ctx))
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, path, removed)
	})

	t.Run("second delete is 404", func(t *testing.T) {
		t.Cleanup(restore)
		deleted := false
		deleteCarModel = func(context.Context, database.DB, int) (*string, error) {
			if deleted {
				return nil, store.ErrNotFound
			}
			deleted = true
			return nil, nil
		}
		ctx, rec := newIDCtx(e, http.MethodDelete, "1", "")
		require.NoError(t, DeleteCarModelHandler(nil, nil)(ctx))
		require.Equal(t, http.StatusNoContent, rec.Code)

		ctx, rec = newIDCtx(e, http.MethodDelete, "1", "")
		require.NoError(t, DeleteCarModelHandler(nil, nil)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
