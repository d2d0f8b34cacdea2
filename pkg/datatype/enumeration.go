package datatype

import (
	"errors"
	"strings"
	"sync"

	"CommandCore/pkg/nlp"
)

var (
	ErrEmptyIdentifier = errors.New("enumeration identifier is empty")
	ErrDuplicateTerm   = errors.New("term already maps to another identifier")
)

// Enumeration is a bounded recognizer: terms are matched with the template matcher and the
// winning term is mapped back to its identifier.
type Enumeration struct {
	base

	mu        sync.RWMutex
	ids       []string
	idSet     map[string]struct{}
	terms     []string
	lookup    map[string]string
	templates []*nlp.Template
	matcher   *nlp.Matcher
}

func NewEnumeration(kind, name string, cfg Config, opts ...Option) *Enumeration {
	b := newBase(kind, name, cfg, opts)
	return &Enumeration{
		base:    b,
		idSet:   make(map[string]struct{}),
		lookup:  make(map[string]string),
		matcher: nlp.NewMatcher(b.cfg.MatchCutoff),
	}
}

// Add registers id with its terms. Without terms the identifier is its own term.
func (e *Enumeration) Add(id string, terms ...string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrEmptyIdentifier
	}
	if len(terms) == 0 {
		terms = []string{id}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	keys := make([]string, len(terms))
	for i, term := range terms {
		keys[i] = nlp.Normalize(term)
		if owner, ok := e.lookup[keys[i]]; ok && owner != id {
			return ErrDuplicateTerm
		}
	}

	for i, key := range keys {
		if _, ok := e.lookup[key]; ok || key == "" {
			continue
		}
		e.lookup[key] = id
		e.terms = append(e.terms, terms[i])
		e.templates = append(e.templates, nlp.LiteralTemplate(key))
	}

	if _, ok := e.idSet[id]; !ok {
		e.idSet[id] = struct{}{}
		e.ids = append(e.ids, id)
	}
	return nil
}

func (e *Enumeration) AddTerm(term string) error {
	return e.Add(term, term)
}

func (e *Enumeration) Finite() bool { return true }

func (e *Enumeration) Terms() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.terms...)
}

func (e *Enumeration) Identifiers() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.ids...)
}

func (e *Enumeration) Contains(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.idSet[id]
	return ok
}

func (e *Enumeration) Resolve(text string, ctx Context) Result {
	if res, ok := e.resolvePronoun(text, ctx); ok {
		if id, isString := res.Value.(string); isString && e.Contains(id) {
			return res
		}
	}

	e.mu.RLock()
	templates := e.templates
	e.mu.RUnlock()

	best, ok := e.matcher.Best(text, templates)
	if !ok {
		return Reject()
	}

	e.mu.RLock()
	id, found := e.lookup[best.Text]
	e.mu.RUnlock()
	if !found {
		return Reject()
	}

	return Result{Value: id, Score: best.Score, Term: best.Text}
}
