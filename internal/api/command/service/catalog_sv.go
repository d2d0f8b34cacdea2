package commandService

import (
	"context"

	"CommandCore/internal/api/command"
)

func (s *commandService) Vocabulary(ctx context.Context) (*command.VocabularyResponse, error) {
	return &command.VocabularyResponse{
		Terms:   s.registry.Vocabulary(),
		Phrases: s.engine.Phrases(),
	}, nil
}

func (s *commandService) Apps(ctx context.Context) ([]command.AppResponse, error) {
	apps := s.engine.Apps()

	out := make([]command.AppResponse, 0, len(apps))
	for _, app := range apps {
		resp := command.AppResponse{ID: app.ID, Name: app.Name}
		for _, op := range app.Operations {
			opResp := command.OperationResponse{ID: op.ID(), Key: op.Key()}
			for _, p := range op.Parameters() {
				opResp.Parameters = append(opResp.Parameters, command.ParameterResponse{
					Name:     p.Name,
					Type:     p.Recognizer.Kind(),
					Optional: p.Optional,
					Finite:   p.Recognizer.Finite(),
				})
			}
			for _, tmpl := range op.Templates() {
				opResp.Templates = append(opResp.Templates, tmpl.String())
			}
			resp.Operations = append(resp.Operations, opResp)
		}
		out = append(out, resp)
	}
	return out, nil
}
