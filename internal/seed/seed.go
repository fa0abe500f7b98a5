// Package seed loads demo fixtures (users, lists and tasks) from YAML.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/planner/internal/persistence"
)

// File is the YAML document layout. Lists and tasks are referenced by key.
type File struct {
	Users      []User      `yaml:"users"`
	EventLists []EventList `yaml:"event_lists"`
	TaskLists  []TaskList  `yaml:"task_lists"`
	Tasks      []Task      `yaml:"tasks"`
}

type User struct {
	ID          string `yaml:"id"`
	DisplayName string `yaml:"display_name"`
}

type EventList struct {
	Key     string `yaml:"key"`
	User    string `yaml:"user"`
	Name    string `yaml:"name"`
	Color   string `yaml:"color"`
	Default bool   `yaml:"default"`
}

type TaskList struct {
	Key     string `yaml:"key"`
	User    string `yaml:"user"`
	Name    string `yaml:"name"`
	Color   string `yaml:"color"`
	Default bool   `yaml:"default"`
}

type Task struct {
	Key              string `yaml:"key"`
	List             string `yaml:"list"`
	Title            string `yaml:"title"`
	Status           string `yaml:"status"`
	Main             bool   `yaml:"main"`
	EstimatedMinutes *int   `yaml:"estimated_minutes"`
	Description      string `yaml:"description"`
}

// Store is the persistence surface Apply writes through.
type Store interface {
	persistence.UserRepository
	persistence.EventListRepository
	persistence.TaskRepository
}

type transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Result maps fixture keys to the identifiers assigned by the store.
type Result struct {
	EventLists map[string]int64
	TaskLists  map[string]int64
	Tasks      map[string]int64
}

// Load reads and validates a fixture file.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates fixture YAML.
func Parse(raw []byte) (*File, error) {
	var file File
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if err := file.validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

func (f *File) validate() error {
	var problems []string

	users := make(map[string]struct{}, len(f.Users))
	for i, u := range f.Users {
		if strings.TrimSpace(u.ID) == "" {
			problems = append(problems, fmt.Sprintf("users[%d]: id is required", i))
			continue
		}
		users[u.ID] = struct{}{}
	}

	eventKeys := make(map[string]struct{}, len(f.EventLists))
	for i, l := range f.EventLists {
		if _, ok := users[l.User]; !ok {
			problems = append(problems, fmt.Sprintf("event_lists[%d]: unknown user %q", i, l.User))
		}
		if _, dup := eventKeys[l.Key]; dup || l.Key == "" {
			problems = append(problems, fmt.Sprintf("event_lists[%d]: key %q is empty or repeated", i, l.Key))
		}
		eventKeys[l.Key] = struct{}{}
	}

	taskListKeys := make(map[string]struct{}, len(f.TaskLists))
	for i, l := range f.TaskLists {
		if _, ok := users[l.User]; !ok {
			problems = append(problems, fmt.Sprintf("task_lists[%d]: unknown user %q", i, l.User))
		}
		if _, dup := taskListKeys[l.Key]; dup || l.Key == "" {
			problems = append(problems, fmt.Sprintf("task_lists[%d]: key %q is empty or repeated", i, l.Key))
		}
		taskListKeys[l.Key] = struct{}{}
	}

	taskKeys := make(map[string]struct{}, len(f.Tasks))
	for i, t := range f.Tasks {
		if _, ok := taskListKeys[t.List]; !ok {
			problems = append(problems, fmt.Sprintf("tasks[%d]: unknown task list %q", i, t.List))
		}
		if strings.TrimSpace(t.Title) == "" {
			problems = append(problems, fmt.Sprintf("tasks[%d]: title is required", i))
		}
		if _, dup := taskKeys[t.Key]; dup || t.Key == "" {
			problems = append(problems, fmt.Sprintf("tasks[%d]: key %q is empty or repeated", i, t.Key))
		}
		taskKeys[t.Key] = struct{}{}
	}

	if len(problems) > 0 {
		return errors.New("invalid seed file: " + strings.Join(problems, "; "))
	}
	return nil
}

// Apply inserts the fixtures. When store supports transactions the whole
// file is applied atomically.
func Apply(ctx context.Context, store Store, file *File, now time.Time) (*Result, error) {
	if file == nil {
		return nil, errors.New("seed file is nil")
	}

	result := &Result{
		EventLists: make(map[string]int64, len(file.EventLists)),
		TaskLists:  make(map[string]int64, len(file.TaskLists)),
		Tasks:      make(map[string]int64, len(file.Tasks)),
	}
	apply := func(ctx context.Context) error {
		return file.apply(ctx, store, result, now)
	}

	var err error
	if tx, ok := store.(transactor); ok {
		err = tx.WithinTransaction(ctx, apply)
	} else {
		err = apply(ctx)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (f *File) apply(ctx context.Context, store Store, result *Result, now time.Time) error {
	for _, u := range f.Users {
		if err := store.CreateUser(ctx, persistence.User{ID: u.ID, DisplayName: u.DisplayName, CreatedAt: now}); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}

	for _, l := range f.EventLists {
		created, err := store.CreateEventList(ctx, persistence.EventList{
			UserID: l.User, Name: l.Name, Color: l.Color, IsDefault: l.Default, CreatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("seed event list %s: %w", l.Key, err)
		}
		result.EventLists[l.Key] = created.ID
	}

	for _, l := range f.TaskLists {
		created, err := store.CreateTaskList(ctx, persistence.TaskList{
			UserID: l.User, Name: l.Name, Color: l.Color, IsDefault: l.Default, CreatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("seed task list %s: %w", l.Key, err)
		}
		result.TaskLists[l.Key] = created.ID
	}

	for _, t := range f.Tasks {
		task := persistence.Task{
			TaskListID:        result.TaskLists[t.List],
			Title:             t.Title,
			Status:            strings.ToUpper(t.Status),
			MainTask:          t.Main,
			EstimatedDuration: t.EstimatedMinutes,
			CreatedAt:         now,
		}
		if t.Description != "" {
			desc := t.Description
			task.Description = &desc
		}
		created, err := store.CreateTask(ctx, task)
		if err != nil {
			return fmt.Errorf("seed task %s: %w", t.Key, err)
		}
		result.Tasks[t.Key] = created.ID
	}
	return nil
}
