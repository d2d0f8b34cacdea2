package commandHandler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"

	"CommandCore/internal/api/command"
	contextPkg "CommandCore/pkg/context"
	"CommandCore/pkg/log"
)

const requestTimeout = 10 * time.Second

func (h *CommandHandler) parse(ctx *fiber.Ctx) (command.CommandRequest, error) {
	var req command.CommandRequest
	if err := ctx.BodyParser(&req); err != nil {
		return req, command.ErrInvalidRequest
	}
	if err := h.validator.Struct(req); err != nil {
		return req, err
	}
	return req, nil
}

func (h *CommandHandler) Resolve(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	req, err := h.parse(ctx)
	if err != nil {
		return h.errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	resp, err := h.commandService.Resolve(c, req)
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, ctx.Path(), "resolve_command")
	}

	return h.respond(ctx, c, resp)
}

func (h *CommandHandler) Explain(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	req, err := h.parse(ctx)
	if err != nil {
		return h.errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	resp, err := h.commandService.Explain(c, req)
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, ctx.Path(), "explain_command")
	}

	return h.respond(ctx, c, resp)
}

func (h *CommandHandler) Execute(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing execute command request")

	req, err := h.parse(ctx)
	if err != nil {
		return h.errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	resp, err := h.commandService.Execute(c, req)
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, ctx.Path(), "execute_command")
	}

	return h.respond(ctx, c, resp)
}

func (h *CommandHandler) History(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)

	resp, err := h.commandService.History(contextPkg.FromFiberCtx(ctx))
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_history")
	}
	return h.errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

func (h *CommandHandler) Vocabulary(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)

	resp, err := h.commandService.Vocabulary(contextPkg.FromFiberCtx(ctx))
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_vocabulary")
	}
	return h.errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

func (h *CommandHandler) Apps(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)

	resp, err := h.commandService.Apps(contextPkg.FromFiberCtx(ctx))
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_apps")
	}
	return h.errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

func (h *CommandHandler) respond(ctx *fiber.Ctx, c context.Context, resp interface{}) error {
	select {
	case <-c.Done():
		return h.errHandler.HandleRequestTimeout(ctx)
	default:
		return h.errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}
