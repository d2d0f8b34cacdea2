package commandService

import (
	"context"

	"github.com/sirupsen/logrus"

	"CommandCore/internal/api/command"
	commandRepository "CommandCore/internal/api/command/repository"
	"CommandCore/internal/entity"
	contextPkg "CommandCore/pkg/context"
)

const defaultLogLimit = 20

// persist writes an executed command to the command log. The command already ran and is in
// the history, so a failed write is logged and otherwise ignored.
func (s *commandService) persist(ctx context.Context, resp *command.ExecuteResponse, source entity.CommandSource) {
	if s.repo == nil {
		return
	}
	requestID := contextPkg.GetRequestID(ctx)

	client, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to open command log client")
		return
	}

	err = client.CommandLogs.CreateCommandLog(ctx, entity.CommandLog{
		ID:        resp.ID,
		RequestID: requestID,
		Input:     resp.Input,
		Operation: resp.Operation,
		Arguments: resp.Arguments,
		Score:     resp.Score,
		Reply:     resp.Reply,
		Source:    source,
		CreatedAt: s.history.Now(),
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"entry_id":   resp.ID,
			"error":      err.Error(),
		}).Warn("Command executed but not written to the command log")
	}
}

func (s *commandService) Log(ctx context.Context, req command.LogRequest) (*command.LogResponse, error) {
	if s.repo == nil {
		return nil, command.ErrCommandLogUnavailable
	}
	if req.Limit <= 0 {
		req.Limit = defaultLogLimit
	}

	client, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	logs, total, err := client.CommandLogs.ListCommandLogs(ctx, commandRepository.ListFilter{
		Operation: req.Operation,
		Limit:     req.Limit,
		Offset:    req.Offset,
	})
	if err != nil {
		return nil, err
	}

	resp := &command.LogResponse{
		Items:  make([]command.LogEntryResponse, 0, len(logs)),
		Total:  total,
		Limit:  req.Limit,
		Offset: req.Offset,
	}
	for _, l := range logs {
		resp.Items = append(resp.Items, toLogEntryResponse(l))
	}
	return resp, nil
}

func (s *commandService) LogEntry(ctx context.Context, id string) (*command.LogEntryResponse, error) {
	if s.repo == nil {
		return nil, command.ErrCommandLogUnavailable
	}

	client, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	l, err := client.CommandLogs.GetCommandLogByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toLogEntryResponse(l)
	return &resp, nil
}
