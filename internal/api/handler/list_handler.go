package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kanbanhq/kanban-api/internal/core/domain"
	"github.com/kanbanhq/kanban-api/internal/core/ports"
)

type ListHandler struct {
	listService ports.ListService
}

func NewListHandler(listService ports.ListService) *ListHandler {
	return &ListHandler{listService: listService}
}

type createListRequest struct {
	Title    string `json:"title" validate:"required"`
	Position int    `json:"position"`
}

type updateListRequest struct {
	Title    *string `json:"title"`
	Position *int    `json:"position"`
}

type listResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Position  int    `json:"position"`
	OwnerID   string `json:"owner_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Create makes a new list owned by the authenticated user.
//
// @Summary      Create a list
// @Tags         lists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createListRequest  true  "List details"
// @Success      201   {object}  listResponse
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/lists [post]
func (h *ListHandler) Create(c echo.Context) error {
	email, err := ctxEmail(c)
	if err != nil {
		return err
	}

	var req createListRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	list, err := h.listService.Create(c.Request().Context(), email, ports.CreateListInput{
		Title:    req.Title,
		Position: req.Position,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toListResponse(list))
}

// ListMine returns the authenticated user's lists.
//
// @Summary      List own lists
// @Tags         lists
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   listResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/lists [get]
func (h *ListHandler) ListMine(c echo.Context) error {
	email, err := ctxEmail(c)
	if err != nil {
		return err
	}

	lists, err := h.listService.ListMine(c.Request().Context(), email)
	if err != nil {
		return err
	}

	out := make([]listResponse, 0, len(lists))
	for i := range lists {
		out = append(out, toListResponse(&lists[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns a single list.
//
// @Summary      Get a list
// @Tags         lists
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "List id"
// @Success      200  {object}  listResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/lists/{id} [get]
func (h *ListHandler) Get(c echo.Context) error {
	email, err := ctxEmail(c)
	if err != nil {
		return err
	}

	list, err := h.listService.Get(c.Request().Context(), email, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(list))
}

// Update patches a list's title or position.
//
// @Summary      Update a list
// @Tags         lists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "List id"
// @Param        body  body      updateListRequest  true  "Fields to change"
// @Success      200   {object}  listResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/lists/{id} [patch]
func (h *ListHandler) Update(c echo.Context) error {
	email, err := ctxEmail(c)
	if err != nil {
		return err
	}

	var req updateListRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	list, err := h.listService.Update(c.Request().Context(), email, c.Param("id"), ports.UpdateListInput{
		Title:    req.Title,
		Position: req.Position,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(list))
}

// Delete removes a list and its cards.
//
// @Summary      Delete a list
// @Tags         lists
// @Security     BearerAuth
// @Param        id  path  string  true  "List id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/lists/{id} [delete]
func (h *ListHandler) Delete(c echo.Context) error {
	email, err := ctxEmail(c)
	if err != nil {
		return err
	}

	if err := h.listService.Delete(c.Request().Context(), email, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func toListResponse(list *domain.KanbanList) listResponse {
	return listResponse{
		ID:        list.ID,
		Title:     list.Title,
		Position:  list.Position,
		OwnerID:   list.OwnerID,
		CreatedAt: list.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt: list.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
