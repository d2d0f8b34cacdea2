// Package intent models what apps can be asked to do: operations, their typed parameters
// and the phrasings that invoke them.
package intent

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"CommandCore/pkg/datatype"
	"CommandCore/pkg/nlp"
)

var (
	ErrEmptyOperationID   = errors.New("operation id is empty")
	ErrInvalidParameter   = errors.New("invalid parameter")
	ErrDuplicateOperation = errors.New("operation already declared")
)

var alternation = regexp.MustCompile(`\(([^()]*)\)`)

type Parameter struct {
	Name       string
	Recognizer datatype.Recognizer
	Optional   bool
}

// Warning reports a template that was skipped at registration.
type Warning struct {
	AppID       string `json:"app_id"`
	OperationID string `json:"operation_id"`
	Template    string `json:"template"`
	Message     string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s/%s: %q: %s", w.AppID, w.OperationID, w.Template, w.Message)
}

// Operation is immutable once built.
type Operation struct {
	id        string
	appID     string
	params    []Parameter
	byName    map[string]int
	templates []*nlp.Template
}

// NewOperation expands every source phrasing and keeps the templates whose variables are
// all declared parameters. Rejected templates come back as warnings.
func NewOperation(appID, id string, params []Parameter, sources ...string) (*Operation, []Warning, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil, ErrEmptyOperationID
	}

	op := &Operation{
		id:     id,
		appID:  appID,
		params: append([]Parameter(nil), params...),
		byName: make(map[string]int, len(params)),
	}

	for i, p := range op.params {
		if p.Name == "" || p.Recognizer == nil {
			return nil, nil, fmt.Errorf("%w: %s/%s parameter %d", ErrInvalidParameter, appID, id, i)
		}
		key := strings.ToLower(p.Name)
		if _, dup := op.byName[key]; dup {
			return nil, nil, fmt.Errorf("%w: %s/%s declares %q twice", ErrInvalidParameter, appID, id, p.Name)
		}
		op.byName[key] = i
	}

	var warnings []Warning
	seen := make(map[string]struct{})
	for _, source := range sources {
		for _, expanded := range ExpandTemplate(source) {
			tmpl := nlp.CompileTemplate(expanded)
			if tmpl.Empty() {
				continue
			}
			if _, dup := seen[tmpl.String()]; dup {
				continue
			}

			if undeclared := op.undeclared(tmpl.Variables()); undeclared != "" {
				warnings = append(warnings, Warning{
					AppID:       appID,
					OperationID: id,
					Template:    expanded,
					Message:     fmt.Sprintf("variable {%s} is not a declared parameter", undeclared),
				})
				continue
			}

			seen[tmpl.String()] = struct{}{}
			op.templates = append(op.templates, tmpl)
		}
	}

	return op, warnings, nil
}

func (o *Operation) undeclared(vars []string) string {
	for _, v := range vars {
		if _, ok := o.byName[strings.ToLower(v)]; !ok {
			return v
		}
	}
	return ""
}

func (o *Operation) ID() string { return o.id }

func (o *Operation) AppID() string { return o.appID }

// Key identifies the operation across apps as "app/operation".
func (o *Operation) Key() string { return Key(o.appID, o.id) }

func Key(appID, operationID string) string {
	return appID + "/" + operationID
}

func (o *Operation) Parameters() []Parameter {
	return append([]Parameter(nil), o.params...)
}

// Parameter looks a parameter up case-insensitively.
func (o *Operation) Parameter(name string) (Parameter, bool) {
	idx, ok := o.byName[strings.ToLower(name)]
	if !ok {
		return Parameter{}, false
	}
	return o.params[idx], true
}

func (o *Operation) HasRequired() bool {
	for _, p := range o.params {
		if !p.Optional {
			return true
		}
	}
	return false
}

func (o *Operation) Templates() []*nlp.Template {
	return append([]*nlp.Template(nil), o.templates...)
}

// ExpandTemplate substitutes every alternative of the first "(a|b)" group and recurses, so
// groups multiply. Whitespace is collapsed and duplicates dropped, keeping first-seen order.
func ExpandTemplate(source string) []string {
	var out []string
	seen := make(map[string]struct{})
	expand(source, func(s string) {
		s = strings.Join(strings.Fields(s), " ")
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	})
	return out
}

func expand(source string, emit func(string)) {
	loc := alternation.FindStringSubmatchIndex(source)
	if loc == nil {
		emit(source)
		return
	}

	prefix, group, suffix := source[:loc[0]], source[loc[2]:loc[3]], source[loc[1]:]
	for _, alt := range strings.Split(group, "|") {
		expand(prefix+alt+suffix, emit)
	}
}

type App struct {
	ID         string
	Name       string
	Operations []*Operation
}

func NewApp(id, name string) *App {
	return &App{ID: id, Name: name}
}

func (a *App) Add(op *Operation) error {
	if a.Operation(op.ID()) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateOperation, op.Key())
	}
	a.Operations = append(a.Operations, op)
	return nil
}

func (a *App) Operation(id string) *Operation {
	for _, op := range a.Operations {
		if op.ID() == id {
			return op
		}
	}
	return nil
}
