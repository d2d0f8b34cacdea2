package config

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"CommandCore/database/postgres"
	"CommandCore/database/sqlite"

	commandHandler "CommandCore/internal/api/command/handler"
	commandRepository "CommandCore/internal/api/command/repository"
	commandService "CommandCore/internal/api/command/service"
	"CommandCore/internal/catalog"
	"CommandCore/internal/middleware"
	"CommandCore/pkg/datatype"
	"CommandCore/pkg/history"
	"CommandCore/pkg/intent"
	"CommandCore/pkg/resolver"
	"CommandCore/pkg/speech"
	"CommandCore/pkg/utils"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	cfg         EngineConfig
	registry    *datatype.Registry
	dispatcher  *intent.Dispatcher
	resolver    *resolver.Engine
	history     *history.History
	transcriber speech.ITranscriber
	handlers    []handler
	mounted     bool
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{cfg: DefaultEngineConfig()}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.resolver == nil {
		return nil, fmt.Errorf("resolution engine is required")
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log)
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

// WithEngine builds the recognizer registry, handler dispatcher, resolution engine and
// history from cfg.
func WithEngine(cfg EngineConfig) ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before engine")
		}
		s.cfg = cfg
		s.registry = datatype.NewRegistry(cfg.DataTypes, cfg.Location)
		s.dispatcher = intent.NewDispatcher(s.log)
		s.resolver = resolver.New(cfg.Resolver, resolver.WithLogger(s.log))
		s.history = history.New(history.WithRetention(cfg.Retention), history.WithLogger(s.log))
		return nil
	}
}

// WithCatalog loads every app document in dir and registers it with the engine.
func WithCatalog(dir string) ServerOption {
	return func(s *Server) error {
		if s.resolver == nil {
			return fmt.Errorf("engine must be initialized before catalog")
		}

		apps, warnings, err := catalog.New(s.registry, s.dispatcher, nil, s.log).LoadDir(dir)
		if err != nil {
			s.log.Errorf("Failed to load catalog from %s: %v", dir, err)
			return fmt.Errorf("failed to load catalog: %w", err)
		}

		for _, app := range apps {
			appWarnings, err := s.resolver.Register(app)
			if err != nil {
				return fmt.Errorf("failed to register app %s: %w", app.ID, err)
			}
			for _, w := range appWarnings {
				s.log.WithFields(logrus.Fields{
					"app":       w.AppID,
					"operation": w.OperationID,
					"template":  w.Template,
				}).Warn("Template excluded from matching: " + w.Message)
			}
			warnings = append(warnings, appWarnings...)
		}

		s.log.WithFields(logrus.Fields{
			"dir":      dir,
			"apps":     len(apps),
			"warnings": len(warnings),
		}).Info("Catalog loaded")
		return nil
	}
}

// WithApp registers an app built in code. Its handlers must already be bound on the
// dispatcher returned by Dispatcher.
func WithApp(app *intent.App) ServerOption {
	return func(s *Server) error {
		if s.resolver == nil {
			return fmt.Errorf("engine must be initialized before apps")
		}
		_, err := s.resolver.Register(app)
		return err
	}
}

// WithDatabase opens the command log store selected by DB_DRIVER: "postgres" uses the DB_*
// connection variables, "sqlite" opens DB_PATH. Without DB_DRIVER the command log is off.
func WithDatabase() ServerOption {
	return func(s *Server) error {
		var (
			db  *sqlx.DB
			err error
		)

		switch driver := os.Getenv("DB_DRIVER"); driver {
		case "":
			if s.log != nil {
				s.log.Info("DB_DRIVER not set, command log disabled")
			}
			return nil
		case "postgres":
			db, err = postgres.New()
		case "sqlite":
			db, err = sqlite.New(getenvDefault("DB_PATH", "storage/commandcore.db"))
		default:
			return fmt.Errorf("unsupported DB_DRIVER %q", driver)
		}
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}

		s.db = db
		return nil
	}
}

func WithSQLDatabase(db *sqlx.DB) ServerOption {
	return func(s *Server) error {
		s.db = db
		return nil
	}
}

// WithTranscriber enables the voice endpoint. A nil transcriber leaves it disabled.
func WithTranscriber(t speech.ITranscriber) ServerOption {
	return func(s *Server) error {
		s.transcriber = t
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log,
			middleware.WithRateLimit(s.cfg.RatePerSecond, s.cfg.RateBurst),
			middleware.WithTokenSecret(s.cfg.TokenSecret),
		)
		return nil
	}
}

func (s *Server) Dispatcher() *intent.Dispatcher {
	return s.dispatcher
}

func (s *Server) RegisterHandler() error {
	var opts []commandService.Option
	if s.db != nil {
		repo := commandRepository.New(s.db, s.log)
		if err := repo.Migrate(context.Background()); err != nil {
			return err
		}
		opts = append(opts, commandService.WithRepository(repo))
	}
	if s.transcriber != nil {
		opts = append(opts, commandService.WithTranscriber(s.transcriber))
	}

	commandServices := commandService.New(s.log, s.resolver, s.registry, s.dispatcher, s.history, opts...)
	commandHandlers := commandHandler.New(s.log, s.validator, s.middleware, commandServices, utils.New())

	s.setupHealthCheck()
	s.handlers = append(s.handlers, commandHandlers)
	return nil
}

func (s *Server) mount() {
	if s.mounted {
		return
	}
	s.mounted = true

	s.engine.Use(s.middleware.NewRecoverMiddleware())
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware)

	router := s.engine.Group("/api/v1")
	for _, h := range s.handlers {
		h.Start(router)
	}
}

// Run serves until the listener fails or ctx is done. The history pruner runs for the
// same lifetime.
func (s *Server) Run(ctx context.Context) error {
	s.mount()

	go s.history.RunPruner(ctx, s.cfg.PruneInterval)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.engine.Listen(fmt.Sprintf(":%s", s.cfg.Port))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("Shutting down server...")
		err := s.engine.Shutdown()
		if s.db != nil {
			s.db.Close()
		}
		return err
	}
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
			"apps":    len(s.resolver.Apps()),
		})
	})
}
