package commandHandler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"

	"CommandCore/internal/api/command"
	contextPkg "CommandCore/pkg/context"
	"CommandCore/pkg/log"
	"CommandCore/pkg/utils"
)

const voiceTimeout = 60 * time.Second

// Voice executes the utterance spoken in the multipart "audio" file.
func (h *CommandHandler) Voice(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), voiceTimeout)
	defer cancel()

	file, err := ctx.FormFile("audio")
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, command.ErrInvalidAudio, ctx.Path(), "voice_command")
	}
	if err := h.utils.ValidateAudioFile(file); err != nil {
		if errors.Is(err, utils.ErrFileTooLarge) {
			return h.errHandler.Handle(ctx, requestID, command.ErrAudioTooLarge, ctx.Path(), "voice_command")
		}
		return h.errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"file":       file.Filename,
		"size":       file.Size,
	}).Debug("Processing voice command request")

	audio, err := file.Open()
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, command.ErrInvalidAudio, ctx.Path(), "voice_command")
	}
	defer audio.Close()

	resp, err := h.commandService.ExecuteVoice(c, file.Filename, audio)
	if err != nil {
		status, body := h.errHandler.Body(requestID, err, ctx.Path(), "voice_command")
		var transcribed *command.TranscribedError
		if errors.As(err, &transcribed) {
			body.Transcript = transcribed.Transcript
		}
		return ctx.Status(status).JSON(body)
	}

	return h.respond(ctx, c, resp)
}
