package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kanbanhq/kanban-api/internal/core/domain"
	"github.com/kanbanhq/kanban-api/internal/core/ports"
)

type CardHandler struct {
	cardService ports.CardService
}

func NewCardHandler(cardService ports.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

type createCardRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

type updateCardRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Position    *int    `json:"position"`
	ListID      *string `json:"list_id"`
}

type cardResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    int    `json:"position"`
	ListID      string `json:"list_id"`
	OwnerID     string `json:"owner_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Create adds a card to a list the requester can write to.
//
// @Summary      Create a card
// @Tags         cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "List id"
// @Param        body  body      createCardRequest  true  "Card details"
// @Success      201   {object}  cardResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/lists/{id}/cards [post]
func (h *CardHandler) Create(c echo.Context) error {
	email, err := ctxEmail(c)
	if err != nil {
		return err
	}

	var req createCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	card, err := h.cardService.Create(c.Request().Context(), email, c.Param("id"), ports.CreateCardInput{
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCardResponse(card))
}

// ListByList returns the cards of one list, sorted by position.
//
// @Summary      List cards in a list
// @Tags         cards
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "List id"
// @Success      200  {array}   cardResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/lists/{id}/cards [get]
func (h *CardHandler) ListByList(c echo.Context) error {
	email, err := ctxEmail(c)
	if err != nil {
		return err
	}

	cards, err := h.cardService.ListByList(c.Request().Context(), email, c.Param("id"))
	if err != nil {
		return err
	}

	out := make([]cardResponse, 0, len(cards))
	for i := range cards {
		out = append(out, toCardResponse(&cards[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Update patches a card. Setting list_id moves it to another list.
//
// @Summary      Update or move a card
// @Tags         cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Card id"
// @Param        body  body      updateCardRequest  true  "Fields to change"
// @Success      200   {object}  cardResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/cards/{id} [patch]
func (h *CardHandler) Update(c echo.Context) error {
	email, err := ctxEmail(c)
	if err != nil {
		return err
	}

	var req updateCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	card, err := h.cardService.Update(c.Request().Context(), email, c.Param("id"), ports.UpdateCardInput{
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
		ListID:      req.ListID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCardResponse(card))
}

// Delete removes a card.
//
// @Summary      Delete a card
// @Tags         cards
// @Security     BearerAuth
// @Param        id  path  string  true  "Card id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/cards/{id} [delete]
func (h *CardHandler) Delete(c echo.Context) error {
	email, err := ctxEmail(c)
	if err != nil {
		return err
	}

	if err := h.cardService.Delete(c.Request().Context(), email, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func toCardResponse(card *domain.Card) cardResponse {
	return cardResponse{
		ID:          card.ID,
		Title:       card.Title,
		Description: card.Description,
		Position:    card.Position,
		ListID:      card.ListID,
		OwnerID:     card.OwnerID,
		CreatedAt:   card.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   card.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
