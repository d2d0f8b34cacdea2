package datatype

import (
	"math"
	"strings"

	"CommandCore/pkg/history"
	"CommandCore/pkg/nlp"
)

// resolvePronoun reports whether text is one of the recognizer's pronouns with a referent
// of the same kind in ctx. The score grows with the number of other values mentioned since
// the referent and with its age, both capped at their horizon, and never exceeds
// PronounMaxScore.
func (b *base) resolvePronoun(text string, ctx Context) (Result, bool) {
	if ctx == nil || !b.isPronoun(text) {
		return Result{}, false
	}

	now := ctx.Now()
	objectDistance := 0

	for _, entry := range ctx.Recent() {
		bindings := make([]history.Binding, 0, len(entry.Results)+len(entry.Args))
		for i := len(entry.Results) - 1; i >= 0; i-- {
			bindings = append(bindings, entry.Results[i])
		}
		for i := len(entry.Args) - 1; i >= 0; i-- {
			bindings = append(bindings, entry.Args[i])
		}

		for _, binding := range bindings {
			if binding.Kind != b.kind {
				objectDistance++
				continue
			}

			distance := math.Min(float64(objectDistance)/float64(b.cfg.PronounObjectHorizon), 1)
			age := now.Sub(entry.CreatedAt)
			if age < 0 {
				age = 0
			}
			elapsed := math.Min(float64(age)/float64(b.cfg.PronounTimeHorizon), 1)

			return Result{
				Value:   binding.Value,
				Score:   b.cfg.PronounMaxScore * (distance + elapsed) / 2,
				Pronoun: true,
			}, true
		}
	}

	return Result{}, false
}

func (b *base) isPronoun(text string) bool {
	text = nlp.Normalize(text)
	for _, pronoun := range b.pronouns {
		if strings.EqualFold(text, pronoun) {
			return true
		}
	}
	return false
}
