package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/therapyai/caseload/internal/core/domain"
	"github.com/therapyai/caseload/internal/core/service"
)

// Check is a guard predicate such as Guard.RequireAdmin.
type Check func(sess domain.Session, nav service.Navigator) bool

type forbiddenResponse struct {
	Error    string      `json:"error"`
	Redirect domain.Page `json:"redirect,omitempty"`
}

// RBAC runs check against the session set by Auth. A failed check answers
// 403 with the page the guard redirected to.
func RBAC(check Check) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, _ := c.Get(SessionKey).(domain.Session)

			var redirect domain.Page
			nav := service.NavigatorFunc(func(p domain.Page) { redirect = p })
			if !check(sess, nav) {
				return c.JSON(http.StatusForbidden, forbiddenResponse{Error: "forbidden", Redirect: redirect})
			}
			return next(c)
		}
	}
}
