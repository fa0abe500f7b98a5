package testfixtures

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/planner/internal/application"
)

// ServiceFactory builds application services on a shared controllable clock.
type ServiceFactory struct {
	Clock *Clock
}

func NewServiceFactory() *ServiceFactory {
	return &ServiceFactory{Clock: NewClock(time.Time{})}
}

// EventServiceDeps captures dependencies for constructing an event service.
// Zero cache settings use the service defaults.
type EventServiceDeps struct {
	EventLists        application.EventListRepository
	Events            application.EventRepository
	Tasks             application.TaskRepository
	Now               func() time.Time
	CalendarCacheTTL  time.Duration
	CalendarCacheSize int
	AfterTransaction  func(ctx context.Context, fn func())
	Logger            *slog.Logger
}

func (f *ServiceFactory) NewEventService(deps EventServiceDeps) *application.EventService {
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewEventServiceWithOptions(deps.EventLists, deps.Events, deps.Tasks, now, application.EventServiceOptions{
		CalendarCacheTTL:  deps.CalendarCacheTTL,
		CalendarCacheSize: deps.CalendarCacheSize,
		AfterTransaction:  deps.AfterTransaction,
		Logger:            deps.Logger,
	})
}
