package command

import (
	"time"
)

type CommandRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

type ArgumentResponse struct {
	Name    string  `json:"name"`
	Kind    string  `json:"kind"`
	Text    string  `json:"text"`
	Value   any     `json:"value"`
	Score   float64 `json:"score"`
	Pronoun bool    `json:"pronoun,omitempty"`
}

type CandidateResponse struct {
	Operation         string             `json:"operation"`
	Template          string             `json:"template"`
	TemplateScore     float64            `json:"template_score"`
	Score             float64            `json:"score"`
	Arguments         []ArgumentResponse `json:"arguments"`
	Missing           []string           `json:"missing,omitempty"`
	Discarded         bool               `json:"discarded,omitempty"`
	Reason            string             `json:"reason,omitempty"`
	RejectedParameter string             `json:"rejected_parameter,omitempty"`
}

type ResolveResponse struct {
	Input     string            `json:"input"`
	Candidate CandidateResponse `json:"candidate"`
}

type ExplainResponse struct {
	Input      string              `json:"input"`
	Accepted   bool                `json:"accepted"`
	Code       string              `json:"code,omitempty"`
	Parameter  string              `json:"parameter,omitempty"`
	Candidates []CandidateResponse `json:"candidates"`
}

type ExecuteResponse struct {
	ID        string         `json:"id"`
	Input     string         `json:"input"`
	Operation string         `json:"operation"`
	Arguments map[string]any `json:"arguments"`
	Score     float64        `json:"score"`
	Reply     string         `json:"reply"`
}

type BindingResponse struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Value any    `json:"value"`
}

type HistoryEntryResponse struct {
	ID        string            `json:"id"`
	Operation string            `json:"operation"`
	Arguments []BindingResponse `json:"arguments"`
	Results   []BindingResponse `json:"results"`
	Response  string            `json:"response"`
	CreatedAt time.Time         `json:"created_at"`
}

type VocabularyResponse struct {
	Terms   []string `json:"terms"`
	Phrases []string `json:"phrases"`
}

type ParameterResponse struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional"`
	Finite   bool   `json:"finite"`
}

type OperationResponse struct {
	ID         string              `json:"id"`
	Key        string              `json:"key"`
	Parameters []ParameterResponse `json:"parameters"`
	Templates  []string            `json:"templates"`
}

type AppResponse struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Operations []OperationResponse `json:"operations"`
}

// StreamError is written to the websocket when a frame cannot be executed.
type StreamError struct {
	Input     string `json:"input"`
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Parameter string `json:"parameter,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
}

type VoiceResponse struct {
	Transcript string          `json:"transcript"`
	Result     ExecuteResponse `json:"result"`
}

type LogRequest struct {
	Operation string `query:"operation" validate:"omitempty,max=255"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset    int    `query:"offset" validate:"omitempty,min=0"`
}

type LogEntryResponse struct {
	ID        string         `json:"id"`
	RequestID string         `json:"request_id"`
	Input     string         `json:"input"`
	Operation string         `json:"operation"`
	Arguments map[string]any `json:"arguments"`
	Score     float64        `json:"score"`
	Reply     string         `json:"reply"`
	Source    string         `json:"source"`
	CreatedAt time.Time      `json:"created_at"`
}

type LogResponse struct {
	Items  []LogEntryResponse `json:"items"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}
