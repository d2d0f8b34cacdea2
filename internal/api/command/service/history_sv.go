package commandService

import (
	"context"

	"CommandCore/internal/api/command"
	"CommandCore/pkg/history"
	"CommandCore/pkg/intent"
)

func (s *commandService) record(args []history.Binding, op *intent.Operation, reply intent.Reply) (string, error) {
	id, err := s.history.Append(history.Entry{
		AppID:       op.AppID(),
		OperationID: op.ID(),
		Args:        args,
	})
	if err != nil {
		return "", err
	}

	for _, result := range reply.Results {
		if err := s.history.AddResult(id, result); err != nil {
			return "", err
		}
	}
	if err := s.history.SetResponse(id, reply.Text); err != nil {
		return "", err
	}
	return id, nil
}

func (s *commandService) History(ctx context.Context) ([]command.HistoryEntryResponse, error) {
	entries := s.history.Snapshot()

	out := make([]command.HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, command.HistoryEntryResponse{
			ID:        e.ID,
			Operation: intent.Key(e.AppID, e.OperationID),
			Arguments: toBindingResponses(e.Args),
			Results:   toBindingResponses(e.Results),
			Response:  e.Response,
			CreatedAt: e.CreatedAt,
		})
	}
	return out, nil
}
