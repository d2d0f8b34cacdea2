package commandService

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"CommandCore/internal/api/command"
	"CommandCore/internal/entity"
	contextPkg "CommandCore/pkg/context"
	"CommandCore/pkg/intent"
	"CommandCore/pkg/resolver"
)

func (s *commandService) Resolve(ctx context.Context, req command.CommandRequest) (*command.ResolveResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, command.ErrEmptyUtterance
	}

	candidate, err := s.engine.Resolve(ctx, text, s.history)
	if err != nil {
		return nil, err
	}

	return &command.ResolveResponse{
		Input:     text,
		Candidate: toCandidateResponse(*candidate),
	}, nil
}

func (s *commandService) Explain(ctx context.Context, req command.CommandRequest) (*command.ExplainResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, command.ErrEmptyUtterance
	}

	candidates, err := s.engine.Explain(ctx, text, s.history)

	resp := &command.ExplainResponse{
		Input:      text,
		Accepted:   err == nil,
		Candidates: make([]command.CandidateResponse, 0, len(candidates)),
	}
	var failure *resolver.Failure
	if errors.As(err, &failure) {
		resp.Code = string(failure.Code)
		resp.Parameter = failure.Parameter
	}
	for _, c := range candidates {
		resp.Candidates = append(resp.Candidates, toCandidateResponse(c))
	}
	return resp, nil
}

// Execute resolves text, runs the winning operation and records it in the history. A
// panic anywhere on that path is reported as ErrExecutionPanic.
func (s *commandService) Execute(ctx context.Context, req command.CommandRequest) (*command.ExecuteResponse, error) {
	return s.execute(ctx, req.Text, entity.CommandSourceText)
}

func (s *commandService) execute(ctx context.Context, input string, source entity.CommandSource) (resp *command.ExecuteResponse, err error) {
	requestID := contextPkg.GetRequestID(ctx)

	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"input":      input,
				"panic":      fmt.Sprint(r),
			}).Error("Command execution panicked")
			resp, err = nil, command.ErrExecutionPanic
		}
	}()

	text := strings.TrimSpace(input)
	if text == "" {
		return nil, command.ErrEmptyUtterance
	}

	candidate, err := s.engine.Resolve(ctx, text, s.history)
	if err != nil {
		return nil, err
	}

	op := candidate.Operation
	reply, err := s.dispatcher.Dispatch(ctx, intent.Call{
		Operation: op,
		Args:      candidate.Args(),
		Input:     text,
	})
	if err != nil {
		return nil, err
	}

	id, err := s.record(candidate.Bindings(), op, reply)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"operation":  op.Key(),
			"error":      err.Error(),
		}).Error("Failed to record command in history")
		return nil, command.ErrHistoryUnwritten
	}

	resp = &command.ExecuteResponse{
		ID:        id,
		Input:     text,
		Operation: op.Key(),
		Arguments: candidate.Args(),
		Score:     candidate.Score,
		Reply:     reply.Text,
	}
	s.persist(ctx, resp, source)

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"entry_id":   id,
		"operation":  op.Key(),
		"score":      candidate.Score,
		"source":     source.String(),
	}).Info("Command executed")

	return resp, nil
}
