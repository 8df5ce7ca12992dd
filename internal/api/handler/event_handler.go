package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kanbanhq/kanban-api/internal/core/domain"
	"github.com/kanbanhq/kanban-api/internal/core/ports"
)

// EventHandler exposes a manual trigger for the notification pipeline so
// operators can verify subscribers end to end.
type EventHandler struct {
	publisher ports.EventPublisher
}

func NewEventHandler(publisher ports.EventPublisher) *EventHandler {
	return &EventHandler{publisher: publisher}
}

type testEventRequest struct {
	Message string `json:"message"`
}

type testEventResponse struct {
	Status    string `json:"status"`
	EventType string `json:"event_type"`
	SentAt    string `json:"sent_at"`
}

// Test publishes a TestEvent on the notification channel. Admin only.
//
// @Summary      Publish a test event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      testEventRequest  true  "Optional message"
// @Success      202   {object}  testEventResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/events/test [post]
func (h *EventHandler) Test(c echo.Context) error {
	email, err := ctxEmail(c)
	if err != nil {
		return err
	}

	var req testEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Message == "" {
		req.Message = "test event"
	}

	now := time.Now().UTC()
	h.publisher.Publish(c.Request().Context(), domain.EventTest,
		map[string]any{"message": req.Message},
		map[string]any{"triggeredBy": email},
	)

	return c.JSON(http.StatusAccepted, testEventResponse{
		Status:    "queued",
		EventType: domain.EventTest,
		SentAt:    now.Format("2006-01-02T15:04:05Z"),
	})
}
