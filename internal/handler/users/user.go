package users

import (
	"net/http"

	"car-catalog/internal/api"
	"car-catalog/internal/database"
	"car-catalog/internal/middleware"
	"car-catalog/internal/service"
	"car-catalog/internal/store"

	"github.com/labstack/echo/v4"
)

var getUserByUsername = store.GetUserByUsername

// @Summary     Get current user info
// @Description Return the record of the authenticated caller
// @Tags        users
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [get]
func GetMyUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		if !ok || claims.Username == "" {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		user, err := getUserByUsername(c.Request().Context(), db, claims.Username)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to load user"})
		}
		return c.JSON(http.StatusOK, api.UserResponse{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		})
	}
}
