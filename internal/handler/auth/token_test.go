package auth

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
	"car-catalog/internal/service"
	"car-catalog/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type stubValidator struct{ err error }

func (s *stubValidator) Validate(i interface{}) error { return s.err }

func newTokenCtx(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func restore() {
	getUserByUsername = store.GetUserByUsername
	authenticateUser = service.AuthenticateUser
	issueAccessToken = service.IssueAccessToken
}

func TestTokenHandler(t *testing.T) {
	e := echo.New()

	t.Run("bind error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		ctx, rec := newTokenCtx(e, "%")
		require.NoError(t, TokenHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validate error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{err: errors.New("v")}
		ctx, rec := newTokenCtx(e, "username=a&password=b")
		require.NoError(t, TokenHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown user and wrong password look identical", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}

		getUserByUsername = func(context.Context, database.DB, string) (*model.User, error) {
			return nil, store.ErrNotFound
		}
		ctx, recUnknown := newTokenCtx(e, "username=ghost&password=b")
		require.NoError(t, TokenHandler(nil)(ctx))

		getUserByUsername = func(context.Context, database.DB, string) (*model.User, error) {
			return &model.User{Username: "alice"}, nil
		}
		authenticateUser = func(context.Context, model.User, string) error {
			return errors.New("invalid credentials")
		}
		ctx, recWrong := newTokenCtx(e, "username=alice&password=bad")
		require.NoError(t, TokenHandler(nil)(ctx))

		require.Equal(t, http.StatusUnauthorized, recUnknown.Code)
		require.Equal(t, http.StatusUnauthorized, recWrong.Code)
		require.Equal(t, recUnknown.Body.String(), recWrong.Body.String())
	})

	t.Run("issue error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		getUserByUsername = func(context.Context, database.DB, string) (*model.User, error) {
			return &model.User{Username: "alice"}, nil
		}
		authenticateUser = func(context.Context, model.User, string) error { return nil }
		issueAccessToken = func(model.User, time.Duration) (string, error) { return "", errors.New("sign") }
		ctx, rec := newTokenCtx(e, "username=alice&password=pw")
		require.NoError(t, TokenHandler(nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		getUserByUsername = func(_ context.Context, _ database.DB, name string) (*model.User, error) {
			require.Equal(t, "alice", name)
			return &model.User{Username: "alice"}, nil
		}
		authenticateUser = func(_ context.Context, u model.User, pw string) error {
			require.Equal(t, "pw", pw)
			return nil
		}
		issueAccessToken = func(u model.User, ttl time.Duration) (string, error) {
			require.Equal(t, service.AccessTokenTTL, ttl)
			return "tok", nil
		}
		ctx, rec := newTokenCtx(e, "username=alice&password=pw")
		require.NoError(t, TokenHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "tok", body["access_token"])
		require.Equal(t, "bearer", body["token_type"])
		require.Equal(t, float64(1800), body["expires_in"])
	})
}
