package handlerUtil

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"CommandCore/pkg/intent"
	"CommandCore/pkg/resolver"
	"CommandCore/pkg/response"
)

func TestBody(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := New(logger)

	tests := []struct {
		name      string
		err       error
		status    int
		code      string
		parameter string
		message   string
		traced    bool
	}{
		{
			name:    "no template match",
			err:     &resolver.Failure{Code: resolver.CodeNoTemplateMatch, Input: "asdkj"},
			status:  fiber.StatusUnprocessableEntity,
			code:    "NO_TEMPLATE_MATCH",
			message: "Sorry, I didn't understand that.",
		},
		{
			name:      "parameter unresolved",
			err:       &resolver.Failure{Code: resolver.CodeParameterUnresolved, Parameter: "Song"},
			status:    fiber.StatusUnprocessableEntity,
			code:      "PARAMETER_UNRESOLVED",
			parameter: "Song",
			message:   "I didn't understand the Song.",
		},
		{
			name:    "execution error",
			err:     &intent.ExecutionError{Operation: "music/play", UserMessage: "The speaker is unplugged.", Err: errors.New("no device")},
			status:  fiber.StatusInternalServerError,
			code:    "EXECUTION_FAILED",
			message: "The speaker is unplugged.",
			traced:  true,
		},
		{
			name:    "response error",
			err:     response.NewError(fiber.StatusBadRequest, "utterance is empty"),
			status:  fiber.StatusBadRequest,
			message: "utterance is empty",
		},
		{
			name:    "unexpected",
			err:     errors.New("disk on fire"),
			status:  fiber.StatusInternalServerError,
			message: "An unexpected error occurred",
			traced:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := h.Body("req-1", tt.err, "/api/v1/command/execute", "execute")
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.parameter, body.Parameter)
			assert.Equal(t, tt.message, body.Error)
			assert.Equal(t, tt.traced, body.TraceID != "")
			assert.False(t, bytes.Contains([]byte(body.Error), []byte("no device")))
		})
	}
}
