package auth

import (
	"net/http"

	"car-catalog/internal/api"
	"car-catalog/internal/database"
	"car-catalog/internal/service"
	"car-catalog/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	getUserByUsername = store.GetUserByUsername
	authenticateUser  = service.AuthenticateUser
	issueAccessToken  = service.IssueAccessToken
)

// @Summary     Obtain an access token
// @Description Exchange username and password for a bearer token
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       username formData string true "Username"
// @Param       password formData string true "Password"
// @Success     200 {object} api.TokenResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /token [post]
func TokenHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.TokenRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		// Unknown username and wrong password must be indistinguishable.
		user, err := getUserByUsername(c.Request().Context(), db, req.Username)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid credentials"})
		}
		if err := authenticateUser(c.Request().Context(), *user, req.Password); err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid credentials"})
		}

		token, err := issueAccessToken(*user, service.AccessTokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to issue token"})
		}

		return c.JSON(http.StatusOK, api.TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
			ExpiresIn:   int(service.AccessTokenTTL.Seconds()),
		})
	}
}
