// Package history keeps the short-term log of dispatched commands that recognizers use to
// resolve pronouns such as "it" or "that song".
package history

import (
	"context"
	"errors"
	"sync"
	"time"

	"CommandCore/pkg/utils"

	"github.com/sirupsen/logrus"
)

const DefaultRetention = 30 * time.Minute

var (
	ErrEntryNotFound = errors.New("history entry not found")
	ErrEntrySealed   = errors.New("history entry is sealed")
)

// Binding is one typed value recorded in an entry: an argument the command was invoked
// with, or a result the command declared. Kind is the recognizer kind that produced it.
type Binding struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Value any    `json:"value"`
}

type Entry struct {
	ID          string    `json:"id"`
	AppID       string    `json:"app_id"`
	OperationID string    `json:"operation_id"`
	Args        []Binding `json:"args"`
	Results     []Binding `json:"results"`
	Response    string    `json:"response,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	sealed bool
}

func (e Entry) clone() Entry {
	out := e
	out.Args = append([]Binding(nil), e.Args...)
	out.Results = append([]Binding(nil), e.Results...)
	return out
}

type Option func(*History)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(h *History) {
		if now != nil {
			h.now = now
		}
	}
}

func WithRetention(retention time.Duration) Option {
	return func(h *History) {
		if retention > 0 {
			h.retention = retention
		}
	}
}

func WithLogger(log *logrus.Logger) Option {
	return func(h *History) {
		if log != nil {
			h.log = log
		}
	}
}

// History is append-only apart from pruning. One mutex serialises appends, the two
// permitted entry mutations and pruning; reads take the read lock and get copies.
type History struct {
	mu        sync.RWMutex
	entries   []*Entry
	retention time.Duration
	now       func() time.Time
	ids       utils.IUtils
	log       *logrus.Logger
}

func New(opts ...Option) *History {
	h := &History{
		retention: DefaultRetention,
		now:       time.Now,
		ids:       utils.New(),
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *History) Now() time.Time {
	return h.now()
}

func (h *History) Retention() time.Duration {
	return h.retention
}

// Append records a new entry stamped with the current time and returns its ID.
func (h *History) Append(e Entry) (string, error) {
	now := h.now()
	id, err := h.ids.NewULIDFromTimestamp(now)
	if err != nil {
		return "", err
	}

	entry := e.clone()
	entry.ID = id
	entry.CreatedAt = now
	entry.sealed = false

	h.mu.Lock()
	defer h.mu.Unlock()

	h.pruneLocked(now)
	h.entries = append(h.entries, &entry)

	h.log.WithFields(logrus.Fields{
		"entry_id":     id,
		"operation_id": entry.OperationID,
		"args":         len(entry.Args),
	}).Debug("History entry appended")

	return id, nil
}

// AddResult declares a value produced by the command of entry id.
func (h *History) AddResult(id string, result Binding) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry, err := h.findLocked(id)
	if err != nil {
		return err
	}
	entry.Results = append(entry.Results, result)
	return nil
}

// SetResponse stores the reply text and seals the entry against further changes.
func (h *History) SetResponse(id, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry, err := h.findLocked(id)
	if err != nil {
		return err
	}
	entry.Response = text
	entry.sealed = true
	return nil
}

func (h *History) findLocked(id string) (*Entry, error) {
	for i := len(h.entries) - 1; i >= 0; i-- {
		if h.entries[i].ID != id {
			continue
		}
		if h.entries[i].sealed {
			return nil, ErrEntrySealed
		}
		return h.entries[i], nil
	}
	return nil, ErrEntryNotFound
}

// Prune drops entries older than the retention window and reports how many went.
func (h *History) Prune() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pruneLocked(h.now())
}

func (h *History) pruneLocked(now time.Time) int {
	cutoff := now.Add(-h.retention)

	keep := 0
	for keep < len(h.entries) && h.entries[keep].CreatedAt.Before(cutoff) {
		keep++
	}
	if keep == 0 {
		return 0
	}

	remaining := make([]*Entry, len(h.entries)-keep)
	copy(remaining, h.entries[keep:])
	h.entries = remaining
	return keep
}

// Snapshot returns copies of the live entries, oldest first.
func (h *History) Snapshot() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	cutoff := h.now().Add(-h.retention)
	out := make([]Entry, 0, len(h.entries))
	for _, entry := range h.entries {
		if entry.CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, entry.clone())
	}
	return out
}

// Recent returns copies of the live entries, most recent first.
func (h *History) Recent() []Entry {
	out := h.Snapshot()
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// RunPruner prunes on every tick until ctx is done.
func (h *History) RunPruner(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := h.Prune(); removed > 0 {
				h.log.WithFields(logrus.Fields{
					"removed":   removed,
					"remaining": h.Len(),
				}).Debug("History pruned")
			}
		}
	}
}
