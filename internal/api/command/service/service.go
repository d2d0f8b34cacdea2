package commandService

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"CommandCore/internal/api/command"
	commandRepository "CommandCore/internal/api/command/repository"
	"CommandCore/pkg/datatype"
	"CommandCore/pkg/history"
	"CommandCore/pkg/intent"
	"CommandCore/pkg/resolver"
	"CommandCore/pkg/speech"
)

type ICommandService interface {
	Resolve(ctx context.Context, req command.CommandRequest) (*command.ResolveResponse, error)
	Explain(ctx context.Context, req command.CommandRequest) (*command.ExplainResponse, error)
	Execute(ctx context.Context, req command.CommandRequest) (*command.ExecuteResponse, error)
	ExecuteVoice(ctx context.Context, filename string, audio io.Reader) (*command.VoiceResponse, error)

	History(ctx context.Context) ([]command.HistoryEntryResponse, error)
	Log(ctx context.Context, req command.LogRequest) (*command.LogResponse, error)
	LogEntry(ctx context.Context, id string) (*command.LogEntryResponse, error)
	Vocabulary(ctx context.Context) (*command.VocabularyResponse, error)
	Apps(ctx context.Context) ([]command.AppResponse, error)
}

type commandService struct {
	log         *logrus.Logger
	engine      *resolver.Engine
	registry    *datatype.Registry
	dispatcher  *intent.Dispatcher
	history     *history.History
	repo        commandRepository.Repository
	transcriber speech.ITranscriber
}

type Option func(*commandService)

// WithRepository persists every executed command to the command log.
func WithRepository(repo commandRepository.Repository) Option {
	return func(s *commandService) {
		s.repo = repo
	}
}

// WithTranscriber enables ExecuteVoice.
func WithTranscriber(t speech.ITranscriber) Option {
	return func(s *commandService) {
		s.transcriber = t
	}
}

func New(
	log *logrus.Logger,
	engine *resolver.Engine,
	registry *datatype.Registry,
	dispatcher *intent.Dispatcher,
	h *history.History,
	opts ...Option,
) ICommandService {
	s := &commandService{
		log:        log,
		engine:     engine,
		registry:   registry,
		dispatcher: dispatcher,
		history:    h,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
