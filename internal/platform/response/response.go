package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eventsystem/service-booking/internal/platform/apperr"
)

// LoggerKey is the gin context key under which the request-scoped zap logger lives.
const LoggerKey = "logger"

const genericFailure = "An error occurred. Please try again later."

// Envelope is the JSON body shape of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Meta carries pagination details.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Paginated writes a page of items with pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    items,
		Meta:    &Meta{Total: total, Page: page, Limit: limit, TotalPages: pages},
	})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Error: &ErrorBody{Code: "BAD_REQUEST", Message: message}})
}

// Error translates err into an HTTP response. Typed application errors keep their
// message; storage faults and unknown errors are logged and replaced by a generic message.
func Error(c *gin.Context, err error) {
	status, body := translate(err)
	if status >= http.StatusInternalServerError {
		requestLogger(c).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(status, Envelope{Error: body})
}

func translate(err error) (int, *ErrorBody) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, &ErrorBody{Code: "INTERNAL", Message: genericFailure}
	}

	switch appErr.Kind {
	case apperr.KindValidation:
		return http.StatusBadRequest, &ErrorBody{Code: "VALIDATION", Message: "Please correct the errors below.", Fields: appErr.Fields}
	case apperr.KindConflict:
		return http.StatusConflict, &ErrorBody{Code: "CONFLICT", Message: appErr.Message, Fields: appErr.Fields}
	case apperr.KindDependency:
		return http.StatusConflict, &ErrorBody{Code: "DEPENDENCY", Message: appErr.Message}
	case apperr.KindNotFound:
		return http.StatusNotFound, &ErrorBody{Code: "NOT_FOUND", Message: appErr.Message}
	case apperr.KindStorageFault:
		return http.StatusServiceUnavailable, &ErrorBody{Code: "STORAGE_FAULT", Message: genericFailure}
	default:
		return http.StatusInternalServerError, &ErrorBody{Code: "INTERNAL", Message: genericFailure}
	}
}

func requestLogger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(LoggerKey); ok {
		if log, ok := v.(*zap.Logger); ok {
			return log
		}
	}
	return zap.L()
}
