package commandHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	commandService "CommandCore/internal/api/command/service"
	"CommandCore/internal/middleware"
	"CommandCore/pkg/handlerUtil"
	"CommandCore/pkg/utils"
)

type CommandHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	commandService commandService.ICommandService
	errHandler     *handlerUtil.ErrorHandler
	utils          utils.IUtils
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs commandService.ICommandService,
	utils utils.IUtils,
) *CommandHandler {
	return &CommandHandler{
		log:            log,
		validator:      validate,
		middleware:     middleware,
		commandService: cs,
		errHandler:     handlerUtil.New(log),
		utils:          utils,
	}
}

func (h *CommandHandler) Start(srv fiber.Router) {
	cmd := srv.Group("/command")
	cmd.Use(h.middleware.NewRateLimiter)
	cmd.Use(h.middleware.NewTokenMiddleware)

	cmd.Post("/resolve", h.Resolve)
	cmd.Post("/explain", h.Explain)
	cmd.Post("/execute", h.Execute)
	cmd.Post("/voice", h.Voice)

	cmd.Get("/history", h.History)
	cmd.Get("/log", h.Log)
	cmd.Get("/log/:id", h.LogEntry)
	cmd.Get("/vocabulary", h.Vocabulary)
	cmd.Get("/apps", h.Apps)

	cmd.Use("/stream", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals(requestIDLocal, h.middleware.GetRequestID(c))
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	cmd.Get("/stream", websocket.New(h.Stream))
}
