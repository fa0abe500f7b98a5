package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	Events   *EventHandler
	Calendar *CalendarHandler
	Health   *HealthHandler
	Logger   *slog.Logger
}

// NewRouter wires middleware and routes. Every route except /health requires
// a caller identity.
func NewRouter(cfg RouterConfig) *gin.Engine {
	useJSONFieldNames()

	router := gin.New()
	router.Use(Recovery(cfg.Logger), RequestID(), RequestLogger(cfg.Logger))

	if cfg.Health != nil {
		router.GET("/health", cfg.Health.Health)
	}

	authed := router.Group("/", RequireUser())
	if cfg.Events != nil {
		authed.POST("/events", cfg.Events.Create)
		authed.GET("/events/:id", cfg.Events.Get)
		authed.PATCH("/events/:id", cfg.Events.Update)
		authed.DELETE("/events/:id", cfg.Events.Delete)
	}
	if cfg.Calendar != nil {
		authed.GET("/calendar/events", cfg.Calendar.List)
		authed.GET("/calendar/events.ics", cfg.Calendar.ICS)
	}

	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, codeNotFound, "the requested resource was not found", nil)
	})
	return router
}
