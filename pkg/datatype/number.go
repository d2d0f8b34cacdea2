package datatype

import (
	"CommandCore/pkg/nlp"
)

type Number struct {
	base
	extractor *nlp.NumberExtractor
}

func NewNumber(cfg Config, opts ...Option) *Number {
	return &Number{
		base:      newBase(KindNumber, "number", cfg, opts),
		extractor: nlp.NewNumberExtractor(),
	}
}

func (n *Number) Finite() bool { return false }

func (n *Number) Terms() []string {
	if len(n.samples) > 0 {
		return append([]string(nil), n.samples...)
	}
	return n.extractor.Samples()
}

func (n *Number) Resolve(text string, ctx Context) Result {
	if res, ok := n.resolvePronoun(text, ctx); ok {
		return res
	}

	value, ok := n.extractor.Parse(text)
	if !ok {
		return Reject()
	}
	return Result{Value: value}
}
