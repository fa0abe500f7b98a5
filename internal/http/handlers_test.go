package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/planner/internal/application"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type serviceStub struct {
	userID    string
	eventID   int64
	createReq application.CreateEventRequest
	updateReq application.UpdateEventRequest
	window    application.CalendarRange

	resp   application.EventResponse
	events []application.EventResponse
	err    error
}

func (s *serviceStub) CreateEvent(_ context.Context, userID string, req application.CreateEventRequest) (application.EventResponse, error) {
	s.userID, s.createReq = userID, req
	return s.resp, s.err
}

func (s *serviceStub) GetEvent(_ context.Context, userID string, id int64) (application.EventResponse, error) {
	s.userID, s.eventID = userID, id
	return s.resp, s.err
}

func (s *serviceStub) UpdateEvent(_ context.Context, userID string, id int64, req application.UpdateEventRequest) (application.EventResponse, error) {
	s.userID, s.eventID, s.updateReq = userID, id, req
	return s.resp, s.err
}

func (s *serviceStub) DeleteEvent(_ context.Context, userID string, id int64) error {
	s.userID, s.eventID = userID, id
	return s.err
}

func (s *serviceStub) ListCalendarEvents(_ context.Context, userID string, window application.CalendarRange) ([]application.EventResponse, error) {
	s.userID, s.window = userID, window
	return s.events, s.err
}

type txStub struct {
	calls int
}

func (t *txStub) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type pingStub struct{ err error }

func (p pingStub) Ping(context.Context) error { return p.err }

func newTestRouter(svc *serviceStub, tx Transactor) *gin.Engine {
	now := func() time.Time { return time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC) }
	return NewRouter(RouterConfig{
		Events:   NewEventHandler(svc, tx, nil),
		Calendar: NewCalendarHandler(svc, now, nil),
		Health:   NewHealthHandler(pingStub{}, nil),
	})
}

func doRequest(router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func asUser(id string) map[string]string {
	return map[string]string{UserIDHeader: id}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Error
}

func sampleResponse() application.EventResponse {
	return application.EventResponse{
		ID:          42,
		EventListID: 1,
		Title:       "Standup",
		StartDate:   time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, time.January, 15, 9, 15, 0, 0, time.UTC),
		TaskIDs:     []int64{10},
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ok := NewRouter(RouterConfig{Health: NewHealthHandler(pingStub{}, nil)})
	rec := doRequest(ok, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","database":"ok"}`, rec.Body.String())

	down := NewRouter(RouterConfig{Health: NewHealthHandler(pingStub{err: errors.New("closed")}, nil)})
	rec = doRequest(down, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequireUser(t *testing.T) {
	t.Parallel()

	svc := &serviceStub{}
	router := newTestRouter(svc, nil)

	rec := doRequest(router, http.MethodGet, "/events/1", "", map[string]string{RequestIDHeader: "req-123"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))

	detail := decodeError(t, rec)
	assert.Equal(t, codeUnauthenticated, detail.Code)
	assert.Equal(t, "req-123", detail.RequestID)
	assert.Zero(t, svc.eventID, "service must not be reached")
}

func TestRequestID_Generated(t *testing.T) {
	t.Parallel()

	rec := doRequest(newTestRouter(&serviceStub{}, nil), http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, codeNotFound, decodeError(t, rec).Code)
}

func TestCreateEvent_Success(t *testing.T) {
	t.Parallel()

	svc := &serviceStub{resp: sampleResponse()}
	tx := &txStub{}
	router := newTestRouter(svc, tx)

	rec := doRequest(router, http.MethodPost, "/events", `{
		"event_list_id": 1,
		"title": "Standup",
		"start_date": "2024-01-15T18:00:00+09:00",
		"end_date": "2024-01-15T09:15",
		"task_ids": [10]
	}`, asUser("u1"))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/events/42", rec.Header().Get("Location"))
	assert.Equal(t, 1, tx.calls)

	var body struct {
		Event   eventDTO `json:"event"`
		Message string   `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "event created", body.Message)
	assert.Equal(t, int64(42), body.Event.ID)
	assert.Equal(t, "2024-01-15T09:00:00", body.Event.StartDate)
	assert.Equal(t, []int64{10}, body.Event.TaskIDs)

	assert.Equal(t, "u1", svc.userID)
	assert.Equal(t, int64(1), svc.createReq.EventListID)
	assert.True(t, svc.createReq.StartDate.Equal(time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.UTC, svc.createReq.StartDate.Location())
	assert.True(t, svc.createReq.EndDate.Equal(time.Date(2024, time.January, 15, 9, 15, 0, 0, time.UTC)))
	assert.False(t, svc.createReq.IsAllDay)
	assert.Equal(t, []int64{10}, svc.createReq.TaskIDs)
}

func TestCreateEvent_RequestProblems(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		body       string
		wantCode   string
		wantFields []string
	}{
		{
			name:     "malformed json",
			body:     `{"title":`,
			wantCode: codeInvalidBody,
		},
		{
			name:     "wrong member type",
			body:     `{"event_list_id":"one","title":"x","start_date":"2024-01-01T00:00:00","end_date":"2024-01-01T00:00:00"}`,
			wantCode: codeInvalidBody,
		},
		{
			name:       "missing required members",
			body:       `{"event_list_id":1}`,
			wantCode:   codeValidation,
			wantFields: []string{"title", "start_date", "end_date"},
		},
		{
			name:       "fractional seconds",
			body:       `{"event_list_id":1,"title":"x","start_date":"2024-01-01T10:00:00.5","end_date":"2024-01-01T11:00:00.250+09:00"}`,
			wantCode:   codeValidation,
			wantFields: []string{"start_date", "end_date"},
		},
		{
			name:       "unparseable dates",
			body:       `{"event_list_id":1,"title":"x","start_date":"tomorrow","end_date":"2024-13-01T00:00:00"}`,
			wantCode:   codeValidation,
			wantFields: []string{"start_date", "end_date"},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &serviceStub{}
			rec := doRequest(newTestRouter(svc, nil), http.MethodPost, "/events", tc.body, asUser("u1"))
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			detail := decodeError(t, rec)
			assert.Equal(t, tc.wantCode, detail.Code)
			for _, f := range tc.wantFields {
				assert.Contains(t, detail.Fields, f)
			}
			assert.Empty(t, svc.userID, "service must not be reached")
		})
	}
}

func TestServiceErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"event", &application.ResourceError{Kind: application.ResourceEvent, ResourceID: 9}, http.StatusNotFound, codeEventNotFound},
		{"event list", &application.ResourceError{Kind: application.ResourceEventList, ResourceID: 2}, http.StatusNotFound, codeEventListNotFound},
		{"task", fmt.Errorf("wrapped: %w", &application.ResourceError{Kind: application.ResourceTask, ResourceID: 40}), http.StatusNotFound, codeTaskNotFound},
		{"bare not found", application.ErrNotFound, http.StatusNotFound, codeEventNotFound},
		{"validation", &application.ValidationError{FieldErrors: map[string]string{"is_all_day": "bad"}}, http.StatusBadRequest, codeValidation},
		{"conflict", fmt.Errorf("%w: stale", application.ErrConflict), http.StatusConflict, codeConflict},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, codeInternal},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &serviceStub{err: tc.err}
			rec := doRequest(newTestRouter(svc, nil), http.MethodGet, "/events/9", "", asUser("u1"))
			assert.Equal(t, tc.wantStatus, rec.Code)

			detail := decodeError(t, rec)
			assert.Equal(t, tc.wantCode, detail.Code)
			assert.NotContains(t, detail.Message, "disk on fire")
		})
	}
}

func TestGetEvent_ReturnsBareEvent(t *testing.T) {
	t.Parallel()

	svc := &serviceStub{resp: sampleResponse()}
	rec := doRequest(newTestRouter(svc, nil), http.MethodGet, "/events/42", "", asUser("u1"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, body, "event")
	assert.NotContains(t, body, "message")
	assert.Equal(t, "Standup", body["title"])
	assert.Equal(t, "2024-01-15T09:00:00", body["start_date"])
	assert.Equal(t, int64(42), svc.eventID)
}

func TestParseDateTime(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, time.April, 1, 10, 0, 0, 0, time.UTC)
	for _, raw := range []string{"2024-04-01T10:00:00", "2024-04-01T10:00", "2024-04-01T19:00:00+09:00", " 2024-04-01T10:00:00Z "} {
		got, err := parseDateTime(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"2024-04-01T10:00:00.5", "2024-04-01T10:00:00.001Z"} {
		_, err := parseDateTime(raw)
		assert.ErrorIs(t, err, errFractionalSeconds, raw)
	}

	_, err := parseDateTime("noon")
	require.Error(t, err)
	assert.Equal(t, "must look like 2024-04-01T10:00:00", dateTimeProblem(err))
}

func TestGetEvent_InvalidID(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"abc", "0", "-3"} {
		svc := &serviceStub{}
		rec := doRequest(newTestRouter(svc, nil), http.MethodGet, "/events/"+id, "", asUser("u1"))
		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
		assert.Equal(t, codeInvalidEventID, decodeError(t, rec).Code)
	}
}

func TestUpdateEvent_PartialBody(t *testing.T) {
	t.Parallel()

	svc := &serviceStub{resp: sampleResponse()}
	tx := &txStub{}
	rec := doRequest(newTestRouter(svc, tx), http.MethodPatch, "/events/42", `{
		"title": "Renamed",
		"description": null,
		"end_date": "2024-01-15T10:00:00",
		"task_ids": []
	}`, asUser("u1"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, int64(42), svc.eventID)

	req := svc.updateReq
	title, ok := req.Title.Get()
	assert.True(t, ok)
	assert.Equal(t, "Renamed", title)
	assert.False(t, req.Description.IsPresent(), "null is treated as absent")
	assert.False(t, req.EventListID.IsPresent())
	assert.False(t, req.StartDate.IsPresent())
	assert.False(t, req.IsAllDay.IsPresent())

	end, ok := req.EndDate.Get()
	assert.True(t, ok)
	assert.True(t, end.Equal(time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)))

	tasks, ok := req.TaskIDs.Get()
	assert.True(t, ok, "an empty list is present")
	assert.Empty(t, tasks)
}

func TestUpdateEvent_BadDate(t *testing.T) {
	t.Parallel()

	svc := &serviceStub{}
	rec := doRequest(newTestRouter(svc, nil), http.MethodPatch, "/events/42", `{"start_date":"noon"}`, asUser("u1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, codeValidation, detail.Code)
	assert.Contains(t, detail.Fields, "start_date")
}

func TestDeleteEvent(t *testing.T) {
	t.Parallel()

	svc := &serviceStub{}
	tx := &txStub{}
	rec := doRequest(newTestRouter(svc, tx), http.MethodDelete, "/events/7", "", asUser("u2"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "u2", svc.userID)
	assert.Equal(t, int64(7), svc.eventID)
	assert.Equal(t, 1, tx.calls)
}

func TestCalendar_List(t *testing.T) {
	t.Parallel()

	svc := &serviceStub{events: []application.EventResponse{sampleResponse()}}
	router := newTestRouter(svc, nil)

	rec := doRequest(router, http.MethodGet, "/calendar/events?from=2024-01-01T00:00:00&to=2024-01-31T00:00:00", "", asUser("u1"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body calendarDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Events, 1)
	assert.Equal(t, "Standup", body.Events[0].Title)
	assert.Equal(t, "2024-01-01T00:00:00", body.From)
	assert.True(t, svc.window.To.Equal(time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)))

	rec = doRequest(router, http.MethodGet, "/calendar/events?from=2024-01-01T00:00:00", "", asUser("u1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]string{"to": "is required"}, decodeError(t, rec).Fields)
}

func TestCalendar_ICS(t *testing.T) {
	t.Parallel()

	svc := &serviceStub{events: []application.EventResponse{sampleResponse()}}
	rec := doRequest(newTestRouter(svc, nil), http.MethodGet, "/calendar/events.ics?from=2024-01-01T00:00:00&to=2024-01-31T00:00:00", "", asUser("u1"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "UID:event-42@planner")
	assert.Contains(t, rec.Body.String(), "SUMMARY:Standup")
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(Recovery(nil), RequestID())
	router.GET("/boom", func(*gin.Context) { panic("kaboom") })

	rec := doRequest(router, http.MethodGet, "/boom", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, codeInternal, decodeError(t, rec).Code)
}
