package commandService

import (
	"CommandCore/internal/api/command"
	"CommandCore/internal/entity"
	"CommandCore/pkg/history"
	"CommandCore/pkg/resolver"
)

func toCandidateResponse(c resolver.Candidate) command.CandidateResponse {
	resp := command.CandidateResponse{
		Operation:         c.Operation.Key(),
		Template:          c.Template,
		TemplateScore:     c.TemplateScore,
		Score:             c.Score,
		Arguments:         make([]command.ArgumentResponse, 0, len(c.Arguments)),
		Missing:           c.Missing,
		Discarded:         c.Discarded,
		Reason:            c.Reason,
		RejectedParameter: c.RejectedParam,
	}
	for _, arg := range c.Arguments {
		resp.Arguments = append(resp.Arguments, command.ArgumentResponse{
			Name:    arg.Name,
			Kind:    arg.Kind,
			Text:    arg.Text,
			Value:   arg.Value,
			Score:   arg.Score,
			Pronoun: arg.Pronoun,
		})
	}
	return resp
}

func toBindingResponses(bindings []history.Binding) []command.BindingResponse {
	out := make([]command.BindingResponse, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, command.BindingResponse{Name: b.Name, Kind: b.Kind, Value: b.Value})
	}
	return out
}

func toLogEntryResponse(l entity.CommandLog) command.LogEntryResponse {
	return command.LogEntryResponse{
		ID:        l.ID,
		RequestID: l.RequestID,
		Input:     l.Input,
		Operation: l.Operation,
		Arguments: l.Arguments,
		Score:     l.Score,
		Reply:     l.Reply,
		Source:    l.Source.String(),
		CreatedAt: l.CreatedAt,
	}
}
