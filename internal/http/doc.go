// Package http exposes the event API over gin.
//
// Routes:
//   - GET /health: liveness plus a database ping.
//   - POST /events: creates an event. Body {"event_list_id","title","start_date",
//     "end_date","is_all_day","description","task_ids"}; responds 201 with
//     {"event":{...},"message":"event created"}.
//   - GET /events/{id}: the owned event as a bare object.
//   - PATCH /events/{id}: partial update (absent or null members are kept);
//     responds {"event":{...},"message":"event updated"}.
//   - DELETE /events/{id}: deletes an owned event, 204.
//   - GET /calendar/events?from=&to=: the caller's events overlapping the window.
//   - GET /calendar/events.ics?from=&to=: the same window as text/calendar.
//
// Everything but /health requires the X-User-ID header. Errors use the
// envelope {"error":{"code","message","fields","request_id"}}; a resource that
// is missing and one owned by someone else produce the same 404.
package http
