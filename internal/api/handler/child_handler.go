package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/therapyai/caseload/internal/core/domain"
	"github.com/therapyai/caseload/internal/core/ports"
)

// ChildHandler serves the therapist workspace.
type ChildHandler struct {
	service ports.ChildService
}

func NewChildHandler(service ports.ChildService) *ChildHandler {
	return &ChildHandler{service: service}
}

// List handles GET /v1/children.
//
// @Summary      List children
// @Description  Admins see every child, therapists their own caseload.
// @Tags         children
// @Produce      json
// @Security     BearerAuth
// @Param        therapist_id  query     string  false  "Restrict to one therapist"
// @Success      200           {array}   childResponse
// @Failure      403           {object}  map[string]string
// @Router       /v1/children [get]
func (h *ChildHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var rows []domain.Child
	if therapistID := c.QueryParam("therapist_id"); therapistID != "" {
		rows, err = h.service.ListByTherapist(ctx, sess, therapistID)
	} else {
		rows, err = h.service.List(ctx, sess)
	}
	if err != nil {
		return err
	}

	out := make([]childResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toChildResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/children/:id.
//
// @Summary      Get a child
// @Tags         children
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Child id"
// @Success      200  {object}  childResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/children/{id} [get]
func (h *ChildHandler) Get(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	child, err := h.service.Get(c.Request().Context(), sess, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toChildResponse(*child))
}

// Create handles POST /v1/children. The child is assigned to the caller.
//
// @Summary      Add a child to the caller's caseload
// @Tags         children
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createChildRequest  true  "Child details; dob or birth_year"
// @Success      201   {object}  childResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/children [post]
func (h *ChildHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req createChildRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	dob := req.DOB
	if dob == "" {
		dob = domain.DOBFromYear(req.BirthYear)
	}

	child, err := h.service.Add(c.Request().Context(), sess, ports.NewChildInput{
		Name:       req.Name,
		DOB:        dob,
		Category:   req.Category,
		Concern:    req.Concern,
		Guardian:   req.Guardian,
		Notes:      req.Notes,
		Milestones: req.Milestones,
		Strategies: req.Strategies,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toChildResponse(*child))
}

// Update handles PATCH /v1/children/:id.
//
// @Summary      Update a child
// @Tags         children
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Child id"
// @Param        body  body      updateChildRequest  true  "Fields to change"
// @Success      200   {object}  childResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/children/{id} [patch]
func (h *ChildHandler) Update(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req updateChildRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	child, err := h.service.Update(c.Request().Context(), sess, c.Param("id"), ports.ChildPatch{
		Name:       req.Name,
		DOB:        req.DOB,
		Category:   req.Category,
		Concern:    req.Concern,
		Guardian:   req.Guardian,
		Notes:      req.Notes,
		Milestones: req.Milestones,
		Strategies: req.Strategies,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toChildResponse(*child))
}

// Delete handles DELETE /v1/children/:id. The chat history goes with it.
//
// @Summary      Delete a child and its chat history
// @Tags         children
// @Security     BearerAuth
// @Param        id   path  string  true  "Child id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Router       /v1/children/{id} [delete]
func (h *ChildHandler) Delete(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), sess, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Regenerate handles POST /v1/children/:id/regenerate/:kind.
//
// @Summary      Replace milestones or strategies with fresh suggestions
// @Tags         children
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Child id"
// @Param        kind  path      string  true  "milestones or strategies"
// @Success      200   {object}  childResponse
// @Failure      400   {object}  map[string]string
// @Router       /v1/children/{id}/regenerate/{kind} [post]
func (h *ChildHandler) Regenerate(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	child, err := h.service.Regenerate(c.Request().Context(), sess, c.Param("id"), domain.GoalKind(c.Param("kind")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toChildResponse(*child))
}
