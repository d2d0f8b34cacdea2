package resolver

import (
	"errors"
	"fmt"

	"CommandCore/pkg/datatype"
	"CommandCore/pkg/history"
	"CommandCore/pkg/intent"
	"CommandCore/pkg/nlp"
)

type Config struct {
	TemplateCutoff float64
	AcceptCutoff   float64
	MinLiterals    int
}

func DefaultConfig() Config {
	return Config{
		TemplateCutoff: nlp.DefaultCutoff,
		AcceptCutoff:   0.5,
		MinLiterals:    4,
	}
}

type FailureCode string

const (
	CodeNoTemplateMatch     FailureCode = "NO_TEMPLATE_MATCH"
	CodeParameterUnresolved FailureCode = "PARAMETER_UNRESOLVED"
)

var (
	ErrNoTemplateMatch     = &Failure{Code: CodeNoTemplateMatch}
	ErrParameterUnresolved = &Failure{Code: CodeParameterUnresolved}
	ErrDuplicateApp        = errors.New("app already registered")
)

// Failure is returned when no candidate is accepted. Parameter names the declared
// parameter most likely responsible, when there is one.
type Failure struct {
	Code      FailureCode
	Parameter string
	Operation string
	Input     string
}

func (f *Failure) Error() string {
	if f.Parameter != "" {
		return fmt.Sprintf("%s: %s (%s)", f.Code, f.Parameter, f.Operation)
	}
	return string(f.Code)
}

// Is matches any failure with the same code, so errors.Is(err, ErrNoTemplateMatch) works.
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	return ok && t.Code == f.Code
}

// Argument is one parameter of a candidate after resolution.
type Argument struct {
	Name    string
	Kind    string
	Text    string
	Value   any
	Score   float64
	Pronoun bool
}

// Candidate is one operation considered for an utterance. A discarded candidate keeps
// the reason and the parameter that caused it.
type Candidate struct {
	Operation     *intent.Operation
	Template      string
	TemplateScore float64
	Arguments     []Argument
	Missing       []string
	Score         float64

	Discarded     bool
	Reason        string
	RejectedParam string

	rank int
}

// Args returns the resolved values keyed by parameter name as declared.
func (c *Candidate) Args() map[string]any {
	out := make(map[string]any, len(c.Arguments))
	for _, arg := range c.Arguments {
		out[arg.Name] = arg.Value
	}
	return out
}

// Bindings tags every resolved value with its recognizer kind for the history.
func (c *Candidate) Bindings() []history.Binding {
	out := make([]history.Binding, 0, len(c.Arguments))
	for _, arg := range c.Arguments {
		out = append(out, history.Binding{Name: arg.Name, Kind: arg.Kind, Value: arg.Value})
	}
	return out
}

func (c *Candidate) missingRequired() string {
	for _, name := range c.Missing {
		if p, ok := c.Operation.Parameter(name); ok && !p.Optional {
			return name
		}
	}
	return ""
}

// blame is the first declared parameter without a usable value.
func (c *Candidate) blame() string {
	if c.RejectedParam != "" {
		return c.RejectedParam
	}
	if len(c.Missing) > 0 {
		return c.Missing[0]
	}
	return ""
}

func argumentFor(p intent.Parameter, text string, res datatype.Result) Argument {
	return Argument{
		Name:    p.Name,
		Kind:    p.Recognizer.Kind(),
		Text:    text,
		Value:   res.Value,
		Score:   res.Score,
		Pronoun: res.Pronoun,
	}
}
