// Package resolver picks the operation an utterance most likely invokes and resolves its
// arguments.
package resolver

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	contextPkg "CommandCore/pkg/context"
	"CommandCore/pkg/datatype"
	"CommandCore/pkg/intent"
	"CommandCore/pkg/nlp"
)

const (
	reasonRejectedValue = "parameter value rejected"
	reasonNoValues      = "no parameter values extracted"
)

type Option func(*Engine)

func WithLogger(log *logrus.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// Engine holds the flat template index of every registered app. Registration may happen
// at any time; resolution only reads the index.
type Engine struct {
	cfg     Config
	matcher *nlp.Matcher
	log     *logrus.Logger

	mu        sync.RWMutex
	apps      []*intent.App
	templates []*nlp.Template
	owners    []*intent.Operation
}

func New(cfg Config, opts ...Option) *Engine {
	def := DefaultConfig()
	if cfg.TemplateCutoff <= 0 {
		cfg.TemplateCutoff = def.TemplateCutoff
	}
	if cfg.AcceptCutoff <= 0 {
		cfg.AcceptCutoff = def.AcceptCutoff
	}
	if cfg.MinLiterals <= 0 {
		cfg.MinLiterals = def.MinLiterals
	}

	e := &Engine{
		cfg:     cfg,
		matcher: nlp.NewMatcher(cfg.TemplateCutoff),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Register indexes every template of app with enough literal text to match reliably.
// Templates that are too short are reported as warnings.
func (e *Engine) Register(app *intent.App) ([]intent.Warning, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, existing := range e.apps {
		if existing.ID == app.ID {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateApp, app.ID)
		}
	}

	var warnings []intent.Warning
	for _, op := range app.Operations {
		for _, tmpl := range op.Templates() {
			if tmpl.Literals() < e.cfg.MinLiterals {
				warnings = append(warnings, intent.Warning{
					AppID:       app.ID,
					OperationID: op.ID(),
					Template:    tmpl.String(),
					Message:     fmt.Sprintf("fewer than %d literal characters", e.cfg.MinLiterals),
				})
				continue
			}
			e.templates = append(e.templates, tmpl)
			e.owners = append(e.owners, op)
		}
	}
	e.apps = append(e.apps, app)

	e.log.WithFields(logrus.Fields{
		"app":       app.ID,
		"templates": len(e.templates),
		"warnings":  len(warnings),
	}).Info("App registered")

	return warnings, nil
}

func (e *Engine) Apps() []*intent.App {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]*intent.App(nil), e.apps...)
}

// Operation finds a registered operation by its "app/operation" key.
func (e *Engine) Operation(key string) (*intent.Operation, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, op := range e.owners {
		if op.Key() == key {
			return op, true
		}
	}
	return nil, false
}

// Phrases lists the literal words of every indexed template, variables removed.
func (e *Engine) Phrases() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, tmpl := range e.templates {
		for _, word := range strings.Fields(tmpl.String()) {
			if strings.HasPrefix(word, "{") && strings.HasSuffix(word, "}") {
				continue
			}
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			out = append(out, word)
		}
	}
	return out
}

// Explain returns every operation whose best template matched text, ranked the way
// Resolve ranks them, with discarded candidates last. The error is what Resolve would
// return for the same text.
func (e *Engine) Explain(ctx context.Context, text string, hctx datatype.Context) ([]Candidate, error) {
	ranked, discarded := e.candidates(ctx, text, hctx)
	_, err := e.decide(ctx, text, ranked, discarded)
	return append(ranked, discarded...), err
}

// Resolve returns the globally best candidate or a *Failure.
func (e *Engine) Resolve(ctx context.Context, text string, hctx datatype.Context) (*Candidate, error) {
	ranked, discarded := e.candidates(ctx, text, hctx)
	return e.decide(ctx, text, ranked, discarded)
}

func (e *Engine) decide(ctx context.Context, text string, ranked, discarded []Candidate) (*Candidate, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if len(ranked) > 0 && ranked[0].Score <= e.cfg.AcceptCutoff {
		best := ranked[0]
		if param := best.missingRequired(); param != "" {
			return nil, e.reject(requestID, text, &Failure{
				Code:      CodeParameterUnresolved,
				Parameter: param,
				Operation: best.Operation.Key(),
				Input:     text,
			})
		}

		e.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"input":      text,
			"operation":  best.Operation.Key(),
			"template":   best.Template,
			"score":      best.Score,
		}).Info("Command resolved")
		return &best, nil
	}

	return nil, e.reject(requestID, text, e.failure(text, ranked, discarded))
}

func (e *Engine) failure(text string, ranked, discarded []Candidate) *Failure {
	blamed := firstMatched(ranked, discarded)
	if len(ranked) > 0 {
		blamed = &ranked[0]
	}

	if blamed != nil {
		if param := blamed.blame(); param != "" {
			return &Failure{
				Code:      CodeParameterUnresolved,
				Parameter: param,
				Operation: blamed.Operation.Key(),
				Input:     text,
			}
		}
	}
	return &Failure{Code: CodeNoTemplateMatch, Input: text}
}

// firstMatched is the candidate whose template scored best, discarded or not.
func firstMatched(ranked, discarded []Candidate) *Candidate {
	var best *Candidate
	for _, list := range [][]Candidate{ranked, discarded} {
		for i := range list {
			if best == nil || list[i].rank < best.rank {
				best = &list[i]
			}
		}
	}
	return best
}

func (e *Engine) reject(requestID, text string, f *Failure) *Failure {
	e.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"input":      text,
		"code":       f.Code,
		"parameter":  f.Parameter,
	}).Warn("Command rejected")
	return f
}

func (e *Engine) candidates(ctx context.Context, text string, hctx datatype.Context) (ranked, discarded []Candidate) {
	e.mu.RLock()
	templates := e.templates
	owners := e.owners
	e.mu.RUnlock()

	matches := e.matcher.Match(text, templates)

	seen := make(map[*intent.Operation]struct{})
	for rank, m := range matches {
		op := owners[m.Index]
		if _, dup := seen[op]; dup {
			continue
		}
		seen[op] = struct{}{}

		c := e.resolveCandidate(op, m, hctx)
		c.rank = rank

		e.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"operation":  op.Key(),
			"template":   c.Template,
			"score":      c.Score,
			"reason":     c.Reason,
		}).Debug("Candidate scored")

		if c.Discarded {
			discarded = append(discarded, c)
			continue
		}
		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score < ranked[j].Score
	})
	return ranked, discarded
}

func (e *Engine) resolveCandidate(op *intent.Operation, m nlp.MatchResult, hctx datatype.Context) Candidate {
	c := Candidate{
		Operation:     op,
		Template:      m.Text,
		TemplateScore: m.Score,
		Score:         m.Score,
	}

	total := m.Score
	for _, param := range op.Parameters() {
		text, ok := m.Variables[strings.ToLower(param.Name)]
		if !ok || text == "" {
			c.Missing = append(c.Missing, param.Name)
			continue
		}

		res := param.Recognizer.Resolve(text, hctx)
		if res.Rejected() {
			c.Discarded = true
			c.Reason = reasonRejectedValue
			c.RejectedParam = param.Name
			return c
		}

		c.Arguments = append(c.Arguments, argumentFor(param, text, res))
		total += res.Score
	}

	if op.HasRequired() && len(c.Arguments) == 0 {
		c.Discarded = true
		c.Reason = reasonNoValues
		return c
	}

	c.Score = total / float64(1+len(c.Arguments))
	return c
}
