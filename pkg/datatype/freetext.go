package datatype

import (
	"strings"
)

// FreeText accepts any non-empty text verbatim at a fixed score so that typed matches
// outrank it.
type FreeText struct {
	base
}

func NewFreeText(cfg Config, opts ...Option) *FreeText {
	return &FreeText{base: newBase(KindText, "text", cfg, opts)}
}

func (f *FreeText) Finite() bool { return false }

func (f *FreeText) Terms() []string {
	return append([]string(nil), f.samples...)
}

func (f *FreeText) Resolve(text string, ctx Context) Result {
	if res, ok := f.resolvePronoun(text, ctx); ok {
		return res
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Reject()
	}
	return Result{Value: text, Score: f.cfg.FreeTextScore}
}
