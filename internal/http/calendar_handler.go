package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/planner/internal/application"
	"github.com/example/planner/internal/calendar"
)

type calendarService interface {
	ListCalendarEvents(ctx context.Context, requesterID string, window application.CalendarRange) ([]application.EventResponse, error)
}

// CalendarHandler serves the calendar window as JSON and as iCalendar.
type CalendarHandler struct {
	service calendarService
	now     func() time.Time
	logger  *slog.Logger
}

func NewCalendarHandler(service calendarService, now func() time.Time, logger *slog.Logger) *CalendarHandler {
	if now == nil {
		now = time.Now
	}
	return &CalendarHandler{service: service, now: now, logger: defaultLogger(logger)}
}

// List handles GET /calendar/events?from=&to=.
func (h *CalendarHandler) List(c *gin.Context) {
	window, ok := calendarWindow(c)
	if !ok {
		return
	}
	events, ok := h.load(c, "List", window)
	if !ok {
		return
	}

	out := make([]eventDTO, 0, len(events))
	for _, ev := range events {
		out = append(out, toEventDTO(ev))
	}
	c.JSON(http.StatusOK, calendarDTO{
		From:   formatDateTime(window.From),
		To:     formatDateTime(window.To),
		Events: out,
	})
}

// ICS handles GET /calendar/events.ics?from=&to=.
func (h *CalendarHandler) ICS(c *gin.Context) {
	window, ok := calendarWindow(c)
	if !ok {
		return
	}
	events, ok := h.load(c, "ICS", window)
	if !ok {
		return
	}

	entries := make([]calendar.Event, 0, len(events))
	for _, ev := range events {
		entries = append(entries, calendar.Event{
			ID:          ev.ID,
			Title:       ev.Title,
			Description: ev.Description,
			Start:       ev.StartDate,
			End:         ev.EndDate,
			IsAllDay:    ev.IsAllDay,
		})
	}

	var buf bytes.Buffer
	if err := calendar.EncodeICS(&buf, "planner", entries, h.now()); err != nil {
		writeServiceError(c, handlerLogger(c.Request.Context(), h.logger, "CalendarHandler", "ICS"), err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="planner.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

func (h *CalendarHandler) load(c *gin.Context, operation string, window application.CalendarRange) ([]application.EventResponse, bool) {
	userID, _ := UserIDFromContext(c)
	ctx := c.Request.Context()

	events, err := h.service.ListCalendarEvents(ctx, userID, window)
	if err != nil {
		writeServiceError(c, handlerLogger(ctx, h.logger, "CalendarHandler", operation), err)
		return nil, false
	}
	return events, true
}

func calendarWindow(c *gin.Context) (application.CalendarRange, bool) {
	fields := map[string]string{}
	var window application.CalendarRange

	for _, param := range []struct {
		name   string
		target *time.Time
	}{
		{"from", &window.From},
		{"to", &window.To},
	} {
		raw := strings.TrimSpace(c.Query(param.name))
		if raw == "" {
			fields[param.name] = "is required"
			continue
		}
		ts, err := parseDateTime(raw)
		if err != nil {
			fields[param.name] = dateTimeProblem(err)
			continue
		}
		*param.target = ts
	}

	if len(fields) > 0 {
		abortWithError(c, http.StatusBadRequest, codeValidation, "request validation failed", fields)
		return application.CalendarRange{}, false
	}
	return window, true
}
