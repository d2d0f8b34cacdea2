package handlerUtil

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"

	"CommandCore/pkg/intent"
	"CommandCore/pkg/log"
	"CommandCore/pkg/resolver"
	"CommandCore/pkg/response"
)

type ErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	Parameter  string `json:"parameter,omitempty"`
	TraceID    string `json:"trace_id,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

// Body maps err to the status and body shown to users. Internal details never leave
// the server; unexpected errors carry a trace ID instead.
func (h *ErrorHandler) Body(requestID string, err error, path string, operation string) (int, ErrorResponse) {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}

	var failure *resolver.Failure
	if errors.As(err, &failure) {
		fields["code"] = failure.Code
		fields["parameter"] = failure.Parameter
		h.logger.WithFields(fields).Warn("Command not resolved")

		if failure.Code == resolver.CodeParameterUnresolved {
			return fiber.StatusUnprocessableEntity, ErrorResponse{
				Error:     "I didn't understand the " + failure.Parameter + ".",
				Code:      string(failure.Code),
				Parameter: failure.Parameter,
			}
		}
		return fiber.StatusUnprocessableEntity, ErrorResponse{
			Error: "Sorry, I didn't understand that.",
			Code:  string(failure.Code),
		}
	}

	var execErr *intent.ExecutionError
	if errors.As(err, &execErr) {
		fields["command"] = execErr.Operation
		traceID := h.errorWithTraceID(fields, "Command execution failed")
		return fiber.StatusInternalServerError, ErrorResponse{
			Error:   execErr.UserMessage,
			Code:    "EXECUTION_FAILED",
			TraceID: traceID,
		}
	}

	var respErr *response.Error
	if errors.As(err, &respErr) {
		fields["code"] = respErr.Code
		h.logger.WithFields(fields).Warn("Operation failed with error response")
		return respErr.Code, ErrorResponse{Error: err.Error()}
	}

	traceID := h.errorWithTraceID(fields, "Unexpected error")
	return fiber.StatusInternalServerError, ErrorResponse{
		Error:   "An unexpected error occurred",
		TraceID: traceID,
	}
}

func (h *ErrorHandler) errorWithTraceID(fields log.Fields, msg string) string {
	traceID := log.TraceID(fields)
	fields["trace_id"] = traceID
	h.logger.WithFields(fields).Error(msg)
	return traceID
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	status, body := h.Body(requestID, err, path, operation)
	return c.Status(status).JSON(body)
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error: "Validation failed: " + err.Error(),
		Code:  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(ErrorResponse{
		Error: utils.StatusMessage(fiber.StatusRequestTimeout),
		Code:  "TIMEOUT",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
