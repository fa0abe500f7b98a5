package http

import (
	"github.com/gin-gonic/gin"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"

// UserIDHeader identifies the authenticated caller. It is set by the
// authenticating proxy in front of this service.
const UserIDHeader = "X-User-ID"

const (
	requestIDKey = "request_id"
	userIDKey    = "user_id"
)

// GetRequestID returns the request id assigned by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	if id, ok := c.Get(requestIDKey); ok {
		if requestID, ok := id.(string); ok {
			return requestID
		}
	}
	return ""
}

// UserIDFromContext returns the caller set by RequireUser.
func UserIDFromContext(c *gin.Context) (string, bool) {
	id, ok := c.Get(userIDKey)
	if !ok {
		return "", false
	}
	userID, ok := id.(string)
	return userID, ok && userID != ""
}
