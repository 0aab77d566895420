package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/therapyai/caseload/internal/core/ports"
)

// TherapistHandler serves the admin workspace.
type TherapistHandler struct {
	service ports.TherapistService
}

func NewTherapistHandler(service ports.TherapistService) *TherapistHandler {
	return &TherapistHandler{service: service}
}

// List handles GET /v1/therapists.
//
// @Summary      List therapists with their caseload size
// @Tags         therapists
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   therapistResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/therapists [get]
func (h *TherapistHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	rows, err := h.service.List(c.Request().Context(), sess)
	if err != nil {
		return err
	}

	out := make([]therapistResponse, 0, len(rows))
	for _, r := range rows {
		resp := toTherapistResponse(r.Therapist)
		count := r.ClientCount
		resp.ClientCount = &count
		out = append(out, resp)
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /v1/therapists.
//
// @Summary      Create a therapist and its login account
// @Tags         therapists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTherapistRequest  true  "Therapist details"
// @Success      201   {object}  therapistResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/therapists [post]
func (h *TherapistHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req createTherapistRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	t, err := h.service.Add(c.Request().Context(), sess, ports.NewTherapistInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTherapistResponse(*t))
}

// Update handles PATCH /v1/therapists/:id.
//
// @Summary      Update a therapist
// @Tags         therapists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Therapist id"
// @Param        body  body      updateTherapistRequest  true  "Fields to change"
// @Success      200   {object}  therapistResponse
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/therapists/{id} [patch]
func (h *TherapistHandler) Update(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req updateTherapistRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	t, err := h.service.Update(c.Request().Context(), sess, c.Param("id"), ports.TherapistPatch{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTherapistResponse(*t))
}

// Delete handles DELETE /v1/therapists/:id.
//
// @Summary      Delete a therapist and its login account
// @Tags         therapists
// @Security     BearerAuth
// @Param        id   path      string  true  "Therapist id"
// @Success      204
// @Failure      409  {object}  map[string]string  "therapist still has clients"
// @Router       /v1/therapists/{id} [delete]
func (h *TherapistHandler) Delete(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), sess, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ResetPassword handles POST /v1/therapists/:id/password.
//
// @Summary      Generate a new password for a therapist
// @Tags         therapists
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Therapist id"
// @Success      200  {object}  passwordResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/therapists/{id}/password [post]
func (h *TherapistHandler) ResetPassword(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	pw, err := h.service.ResetPassword(c.Request().Context(), sess, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, passwordResponse{Password: pw})
}
