package commandHandler

import (
	"context"
	"time"

	"github.com/gofiber/websocket/v2"

	"CommandCore/internal/api/command"
	contextPkg "CommandCore/pkg/context"
	"CommandCore/pkg/log"
)

const (
	requestIDLocal  = "stream_request_id"
	streamIdleLimit = 5 * time.Minute
	streamWriteWait = 10 * time.Second
)

// Stream executes every text frame as an utterance and answers each with either an
// ExecuteResponse or a StreamError. Binary frames are ignored.
func (h *CommandHandler) Stream(conn *websocket.Conn) {
	requestID, _ := conn.Locals(requestIDLocal).(string)
	if requestID == "" {
		requestID = "unknown"
	}

	h.log.WithFields(log.Fields{"request_id": requestID}).Info("Command stream connected")
	defer h.log.WithFields(log.Fields{"request_id": requestID}).Info("Command stream disconnected")

	ctx := contextPkg.WithRequestID(context.Background(), requestID)

	for {
		if err := conn.SetReadDeadline(time.Now().Add(streamIdleLimit)); err != nil {
			break
		}

		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithFields(log.Fields{
					"request_id": requestID,
					"error":      err.Error(),
				}).Warn("Command stream closed unexpectedly")
			}
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		req := command.CommandRequest{Text: string(message)}

		var payload interface{}
		if err := h.validator.Struct(req); err != nil {
			payload = command.StreamError{Input: req.Text, Error: "Validation failed: " + err.Error(), Code: "VALIDATION_ERROR"}
		} else if resp, err := h.commandService.Execute(ctx, req); err != nil {
			_, body := h.errHandler.Body(requestID, err, "/command/stream", "stream_command")
			payload = command.StreamError{
				Input:     req.Text,
				Error:     body.Error,
				Code:      body.Code,
				Parameter: body.Parameter,
				TraceID:   body.TraceID,
			}
		} else {
			payload = resp
		}

		if err := conn.SetWriteDeadline(time.Now().Add(streamWriteWait)); err != nil {
			break
		}
		if err := conn.WriteJSON(payload); err != nil {
			break
		}
	}
}
