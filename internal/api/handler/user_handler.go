package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/therapyai/caseload/internal/core/ports"
)

// UserHandler exposes read access to login accounts for admins.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /v1/users. Passwords are never returned.
//
// @Summary      List login accounts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  query     string  false  "Exact email to look up"
// @Success      200    {array}   userResponse
// @Failure      403    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if email := c.QueryParam("email"); email != "" {
		u, err := h.service.FindByEmail(ctx, sess, email)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, []userResponse{toUserResponse(*u)})
	}

	users, err := h.service.List(ctx, sess)
	if err != nil {
		return err
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, out)
}
