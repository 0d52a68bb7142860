package handler

import (
	"errors"
	"net/http"

	"school-service/pkg/logger"
	"school-service/pkg/validation"
	"school-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const genericErrorMessage = "Something went wrong."

type errorDetail struct {
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

type errorResponse struct {
	Status  bool          `json:"status"`
	Message string        `json:"message,omitempty"`
	Errors  []errorDetail `json:"errors"`
}

type statusResponse struct {
	Status bool `json:"status"`
}

type listContent[T any] struct {
	Data []T `json:"data"`
}

type listResponse[T any] struct {
	Status  bool           `json:"status"`
	Content listContent[T] `json:"content"`
}

func list[T any](c echo.Context, data []T) error {
	return c.JSON(http.StatusOK, listResponse[T]{Status: true, Content: listContent[T]{Data: data}})
}

// fail writes the generic error envelope. message is optional.
func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, errorResponse{
		Message: message,
		Errors:  []errorDetail{{Message: genericErrorMessage}},
	})
}

type request interface {
	sanitize()
}

// bindRequest binds path params and body, sanitizes, then validates
func bindRequest(c echo.Context, req request) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	req.sanitize()
	return c.Validate(req)
}

// invalid responds 400 for a request that failed binding or validation
func invalid(c echo.Context, err error) error {
	logger.FromContext(c).Warn("Invalid request", zap.Error(err))
	prometheus.RecordError("validation_failed")

	detail := errorDetail{Message: genericErrorMessage}
	var vErr *validation.Error
	if errors.As(err, &vErr) {
		detail.Fields = vErr.Fields
	}
	return c.JSON(http.StatusBadRequest, errorResponse{Errors: []errorDetail{detail}})
}
