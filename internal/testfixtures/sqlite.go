package testfixtures

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/example/planner/internal/persistence"
	"github.com/example/planner/internal/persistence/sqlstore"
)

// SQLiteHarness is a migrated SQLite store in a temporary file, closed when
// the test ends.
type SQLiteHarness struct {
	Store *sqlstore.Store

	tb testing.TB
}

func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "planner.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := context.Background()
	store, err := sqlstore.Open(ctx, sqlstore.Config{Driver: "sqlite", DSN: "file:" + path}, logger)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}
	tb.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(ctx); err != nil {
		tb.Fatalf("failed to migrate storage: %v", err)
	}
	return &SQLiteHarness{Store: store, tb: tb}
}

func (h *SQLiteHarness) SeedUser(f UserFixture) persistence.User {
	h.tb.Helper()
	user := f.Persistence()
	if err := h.Store.CreateUser(context.Background(), user); err != nil {
		h.tb.Fatalf("failed to seed user %q: %v", f.ID, err)
	}
	return user
}

// SeedEventList stores the list; the fixture ID is ignored.
func (h *SQLiteHarness) SeedEventList(f EventListFixture) persistence.EventList {
	h.tb.Helper()
	list := f.Persistence()
	list.ID = 0
	stored, err := h.Store.CreateEventList(context.Background(), list)
	if err != nil {
		h.tb.Fatalf("failed to seed event list %q: %v", f.Name, err)
	}
	return stored
}

// SeedTaskList stores the list; the fixture ID is ignored.
func (h *SQLiteHarness) SeedTaskList(f TaskListFixture) persistence.TaskList {
	h.tb.Helper()
	list := f.Persistence()
	list.ID = 0
	stored, err := h.Store.CreateTaskList(context.Background(), list)
	if err != nil {
		h.tb.Fatalf("failed to seed task list %q: %v", f.Name, err)
	}
	return stored
}

// SeedTask stores the task in f.TaskListID; the fixture ID is ignored.
func (h *SQLiteHarness) SeedTask(f TaskFixture) persistence.Task {
	h.tb.Helper()
	task := f.Persistence()
	task.ID = 0
	stored, err := h.Store.CreateTask(context.Background(), task)
	if err != nil {
		h.tb.Fatalf("failed to seed task %q: %v", f.Title, err)
	}
	return stored
}

// SeedEvent stores the event with its task associations; the fixture ID and
// version are ignored.
func (h *SQLiteHarness) SeedEvent(f EventFixture) persistence.Event {
	h.tb.Helper()
	event := f.Persistence()
	event.ID = 0
	stored, err := h.Store.CreateEvent(context.Background(), event)
	if err != nil {
		h.tb.Fatalf("failed to seed event %q: %v", f.Title, err)
	}
	return stored
}
