package datatype

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

var (
	ErrDuplicateKind = errors.New("recognizer kind already registered")
	ErrUnknownKind   = errors.New("unknown recognizer kind")
)

// Registry holds the recognizers available to operations: the built-in open-ended kinds
// and the enumerations contributed by apps.
type Registry struct {
	mu          sync.RWMutex
	cfg         Config
	recognizers map[string]Recognizer
	order       []string
}

func NewRegistry(cfg Config, loc *time.Location) *Registry {
	cfg = cfg.withDefaults()
	r := &Registry{
		cfg:         cfg,
		recognizers: make(map[string]Recognizer),
	}
	_ = r.Register(NewNumber(cfg))
	_ = r.Register(NewDateTime(cfg, loc))
	_ = r.Register(NewFreeText(cfg))
	return r
}

func (r *Registry) Config() Config {
	return r.cfg
}

func (r *Registry) Register(rec Recognizer) error {
	kind := strings.ToLower(rec.Kind())

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.recognizers[kind]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKind, kind)
	}
	r.recognizers[kind] = rec
	r.order = append(r.order, kind)
	return nil
}

// Enumeration returns the enumeration registered under kind, creating and registering it
// when absent.
func (r *Registry) Enumeration(kind, name string, opts ...Option) (*Enumeration, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))

	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, exists := r.recognizers[kind]; exists {
		enum, ok := rec.(*Enumeration)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKind, kind)
		}
		return enum, nil
	}

	enum := NewEnumeration(kind, name, r.cfg, opts...)
	r.recognizers[kind] = enum
	r.order = append(r.order, kind)
	return enum, nil
}

func (r *Registry) Get(kind string) (Recognizer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.recognizers[strings.ToLower(kind)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return rec, nil
}

// All lists the recognizers in registration order.
func (r *Registry) All() []Recognizer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Recognizer, 0, len(r.order))
	for _, kind := range r.order {
		out = append(out, r.recognizers[kind])
	}
	return out
}

// Vocabulary is every distinct term and pronoun known to the registry.
func (r *Registry) Vocabulary() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(words []string) {
		for _, w := range words {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}

	for _, rec := range r.All() {
		add(rec.Terms())
		add(rec.Pronouns())
	}
	return out
}
