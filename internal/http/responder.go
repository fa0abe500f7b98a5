package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/example/planner/internal/application"
)

// Error codes returned in the envelope.
const (
	codeEventNotFound     = "EVENT_NOT_FOUND"
	codeEventListNotFound = "EVENT_LIST_NOT_FOUND"
	codeTaskNotFound      = "TASK_NOT_FOUND"
	codeNotFound          = "NOT_FOUND"
	codeValidation        = "VALIDATION_FAILED"
	codeInvalidBody       = "INVALID_REQUEST_BODY"
	codeInvalidEventID    = "INVALID_EVENT_ID"
	codeUnauthenticated   = "UNAUTHENTICATED"
	codeConflict          = "CONFLICT"
	codeInternal          = "INTERNAL_ERROR"
)

type errorEnvelope struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func abortWithError(c *gin.Context, status int, code, message string, fields map[string]string) {
	c.AbortWithStatusJSON(status, errorEnvelope{Error: errorDetail{
		Code:      code,
		Message:   message,
		Fields:    fields,
		RequestID: GetRequestID(c),
	}})
}

// writeServiceError maps application errors onto the envelope. Missing and
// foreign resources produce the same response.
func writeServiceError(c *gin.Context, logger *slog.Logger, err error) {
	_ = c.Error(err)

	var vErr *application.ValidationError
	if errors.As(err, &vErr) {
		abortWithError(c, http.StatusBadRequest, codeValidation, "request validation failed", vErr.FieldErrors)
		return
	}

	var rErr *application.ResourceError
	if errors.As(err, &rErr) {
		code, message := notFoundCode(rErr.Kind)
		abortWithError(c, http.StatusNotFound, code, message, nil)
		return
	}

	switch {
	case errors.Is(err, application.ErrNotFound):
		abortWithError(c, http.StatusNotFound, codeEventNotFound, "event not found", nil)
	case errors.Is(err, application.ErrConflict):
		abortWithError(c, http.StatusConflict, codeConflict, "the event was changed by another request, reload and retry", nil)
	default:
		defaultLogger(logger).ErrorContext(c.Request.Context(), "unhandled service error", "error", err)
		abortWithError(c, http.StatusInternalServerError, codeInternal, "an unexpected error occurred", nil)
	}
}

func notFoundCode(kind application.ResourceKind) (string, string) {
	switch kind {
	case application.ResourceEvent:
		return codeEventNotFound, "event not found"
	case application.ResourceEventList:
		return codeEventListNotFound, "event list not found"
	case application.ResourceTask:
		return codeTaskNotFound, "task not found"
	default:
		return codeNotFound, "resource not found"
	}
}

// writeBindError reports a body that could not be bound. Validator failures
// list the offending JSON fields; anything else is a malformed body.
func writeBindError(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = describeFieldError(fe)
		}
		abortWithError(c, http.StatusBadRequest, codeValidation, "request validation failed", fields)
		return
	}
	abortWithError(c, http.StatusBadRequest, codeInvalidBody, "request body is not valid JSON for this endpoint", nil)
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

var registerTagNames sync.Once

// useJSONFieldNames makes validator report json tag names so field errors
// match the request payload.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
}
