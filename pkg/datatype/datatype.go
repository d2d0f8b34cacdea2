// Package datatype resolves the text extracted for a command variable into a typed value.
//
// Bounded recognizers (Enumeration) look the text up in a closed vocabulary; open-ended
// ones (Number, DateTime, FreeText) parse it. Every recognizer first tries to read the
// text as a pronoun referring to a recent value of its own kind.
package datatype

import (
	"strings"
	"time"

	"CommandCore/pkg/history"
	"CommandCore/pkg/nlp"
)

// Built-in recognizer kinds.
const (
	KindNumber   = "number"
	KindDateTime = "datetime"
	KindText     = "text"
)

// Context is the read-only view of the conversation history recognizers need.
// *history.History implements it.
type Context interface {
	Recent() []history.Entry
	Now() time.Time
}

type Result struct {
	Value   any     `json:"value"`
	Score   float64 `json:"score"`
	Term    string  `json:"term,omitempty"`
	Pronoun bool    `json:"pronoun,omitempty"`
}

func Reject() Result {
	return Result{Score: 1}
}

func (r Result) Rejected() bool {
	return r.Score >= 1
}

type Recognizer interface {
	Kind() string
	Name() string
	Finite() bool
	// Terms is the vocabulary used for matching by bounded recognizers. Open-ended
	// recognizers return samples that only bias speech recognition.
	Terms() []string
	Pronouns() []string
	Resolve(text string, ctx Context) Result
}

// Bounded is implemented by recognizers with a closed identifier set.
type Bounded interface {
	Recognizer
	Identifiers() []string
	Contains(id string) bool
}

type Config struct {
	MatchCutoff          float64
	PronounMaxScore      float64
	PronounObjectHorizon int
	PronounTimeHorizon   time.Duration
	FreeTextScore        float64
}

func DefaultConfig() Config {
	return Config{
		MatchCutoff:          nlp.DefaultCutoff,
		PronounMaxScore:      0.5,
		PronounObjectHorizon: 5,
		PronounTimeHorizon:   3 * time.Minute,
		FreeTextScore:        0.3,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MatchCutoff <= 0 {
		c.MatchCutoff = def.MatchCutoff
	}
	if c.PronounMaxScore <= 0 {
		c.PronounMaxScore = def.PronounMaxScore
	}
	if c.PronounObjectHorizon <= 0 {
		c.PronounObjectHorizon = def.PronounObjectHorizon
	}
	if c.PronounTimeHorizon <= 0 {
		c.PronounTimeHorizon = def.PronounTimeHorizon
	}
	if c.FreeTextScore <= 0 {
		c.FreeTextScore = def.FreeTextScore
	}
	return c
}

type Option func(*base)

// WithPronouns replaces the default pronouns ("it", "this <name>", "that <name>").
func WithPronouns(pronouns ...string) Option {
	return func(b *base) {
		b.pronouns = normalizeAll(pronouns)
	}
}

// WithSamples sets the vocabulary samples of an open-ended recognizer.
func WithSamples(samples ...string) Option {
	return func(b *base) {
		b.samples = append([]string(nil), samples...)
	}
}

type base struct {
	kind     string
	name     string
	pronouns []string
	samples  []string
	cfg      Config
}

func newBase(kind, name string, cfg Config, opts []Option) base {
	if name == "" {
		name = kind
	}
	b := base{
		kind:     strings.ToLower(strings.TrimSpace(kind)),
		name:     name,
		pronouns: defaultPronouns(name),
		cfg:      cfg.withDefaults(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func defaultPronouns(name string) []string {
	name = nlp.Normalize(name)
	return []string{"it", "this " + name, "that " + name}
}

func normalizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = nlp.Normalize(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (b *base) Kind() string { return b.kind }

func (b *base) Name() string { return b.name }

func (b *base) Pronouns() []string {
	return append([]string(nil), b.pronouns...)
}
