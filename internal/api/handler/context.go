package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/therapyai/caseload/internal/api/middleware"
	"github.com/therapyai/caseload/internal/core/domain"
)

// ctxSession extracts the session injected by the Auth middleware and fails
// fast when it is missing or anonymous.
func ctxSession(c echo.Context) (domain.Session, error) {
	sess, _ := c.Get(middleware.SessionKey).(domain.Session)
	if !sess.IsAuthenticated() {
		return domain.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return sess, nil
}

// bindAndValidate decodes the request body into req and runs the registered
// validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
