package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"car-catalog/internal/database"
	"car-catalog/internal/storage"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestSetupRoutes(t *testing.T) {
	e := echo.New()
	Setup(e, &database.FakeDB{}, &storage.FakeStore{})

	got := map[string]struct{}{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = struct{}{}
	}

	expected := []string{
		http.MethodGet + " /ping",
		http.MethodPost + " /token",
		http.MethodGet + " /users/me",
		http.MethodPost + " /car_models",
		http.MethodGet + " /car_models",
		http.MethodGet + " /car_models/:id",
		http.MethodPut + " /car_models/:id",
		http.MethodDelete + " /car_models/:id",
		http.MethodPost + " /car_models/:id/image",
		http.MethodPut + " /car_models/:id/image",
		http.MethodDelete + " /car_models/:id/image",
	}

	require.Equal(t, len(expected), len(got))
	for _, k := range expected {
		_, ok := got[k]
		require.True(t, ok, "missing route %s", k)
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	e := echo.New()
	Setup(e, &database.FakeDB{}, &storage.FakeStore{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/ping"},
		{http.MethodGet, "/users/me"},
		{http.MethodGet, "/car_models"},
		{http.MethodPost, "/car_models/1/image"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}
