package commandHandler

import (
	"github.com/gofiber/fiber/v2"

	"CommandCore/internal/api/command"
	contextPkg "CommandCore/pkg/context"
)

func (h *CommandHandler) Log(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)

	var req command.LogRequest
	if err := ctx.QueryParser(&req); err != nil {
		return h.errHandler.HandleValidationError(ctx, requestID, command.ErrInvalidRequest, ctx.Path())
	}
	if err := h.validator.Struct(req); err != nil {
		return h.errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	resp, err := h.commandService.Log(contextPkg.FromFiberCtx(ctx), req)
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_command_log")
	}
	return h.errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

func (h *CommandHandler) LogEntry(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)

	resp, err := h.commandService.LogEntry(contextPkg.FromFiberCtx(ctx), ctx.Params("id"))
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_command_log_entry")
	}
	return h.errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}
