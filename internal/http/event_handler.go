package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/example/planner/internal/application"
)

type eventService interface {
	CreateEvent(ctx context.Context, requesterID string, req application.CreateEventRequest) (application.EventResponse, error)
	GetEvent(ctx context.Context, requesterID string, eventID int64) (application.EventResponse, error)
	UpdateEvent(ctx context.Context, requesterID string, eventID int64, req application.UpdateEventRequest) (application.EventResponse, error)
	DeleteEvent(ctx context.Context, requesterID string, eventID int64) error
}

// Transactor runs fn in one unit of work; repository calls made with the
// context passed to fn join it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventHandler serves /events.
type EventHandler struct {
	service eventService
	tx      Transactor
	logger  *slog.Logger
}

// NewEventHandler builds the handler. tx may be nil, in which case each
// repository call commits on its own.
func NewEventHandler(service eventService, tx Transactor, logger *slog.Logger) *EventHandler {
	return &EventHandler{service: service, tx: tx, logger: defaultLogger(logger)}
}

func (h *EventHandler) inTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if h.tx == nil {
		return fn(ctx)
	}
	return h.tx.WithinTransaction(ctx, fn)
}

// Create handles POST /events.
func (h *EventHandler) Create(c *gin.Context) {
	userID, _ := UserIDFromContext(c)
	ctx := c.Request.Context()
	logger := handlerLogger(ctx, h.logger, "EventHandler", "Create")

	var body createEventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeBindError(c, err)
		return
	}
	req, fields := body.toApplication()
	if len(fields) > 0 {
		abortWithError(c, http.StatusBadRequest, codeValidation, "request validation failed", fields)
		return
	}

	var created application.EventResponse
	err := h.inTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = h.service.CreateEvent(ctx, userID, req)
		return err
	})
	if err != nil {
		writeServiceError(c, logger, err)
		return
	}

	c.Header("Location", "/events/"+strconv.FormatInt(created.ID, 10))
	c.JSON(http.StatusCreated, eventEnvelope{Event: toEventDTO(created), Message: "event created"})
}

// Get handles GET /events/:id. The event is the whole body, without the
// envelope writes use.
func (h *EventHandler) Get(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}
	userID, _ := UserIDFromContext(c)
	ctx := c.Request.Context()

	event, err := h.service.GetEvent(ctx, userID, eventID)
	if err != nil {
		writeServiceError(c, handlerLogger(ctx, h.logger, "EventHandler", "Get"), err)
		return
	}
	c.JSON(http.StatusOK, toEventDTO(event))
}

// Update handles PATCH /events/:id. Members left out of the body, or sent as
// null, keep their stored values.
func (h *EventHandler) Update(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}
	userID, _ := UserIDFromContext(c)
	ctx := c.Request.Context()
	logger := handlerLogger(ctx, h.logger, "EventHandler", "Update", "event_id", eventID)

	var body updateEventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeBindError(c, err)
		return
	}
	req, fields := body.toApplication()
	if len(fields) > 0 {
		abortWithError(c, http.StatusBadRequest, codeValidation, "request validation failed", fields)
		return
	}

	var updated application.EventResponse
	err := h.inTransaction(ctx, func(ctx context.Context) error {
		var err error
		updated, err = h.service.UpdateEvent(ctx, userID, eventID, req)
		return err
	})
	if err != nil {
		writeServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, eventEnvelope{Event: toEventDTO(updated), Message: "event updated"})
}

// Delete handles DELETE /events/:id.
func (h *EventHandler) Delete(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}
	userID, _ := UserIDFromContext(c)
	ctx := c.Request.Context()

	err := h.inTransaction(ctx, func(ctx context.Context) error {
		return h.service.DeleteEvent(ctx, userID, eventID)
	})
	if err != nil {
		writeServiceError(c, handlerLogger(ctx, h.logger, "EventHandler", "Delete", "event_id", eventID), err)
		return
	}
	c.Status(http.StatusNoContent)
}

func eventIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, http.StatusBadRequest, codeInvalidEventID, "event id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}
