package nlp

import (
	"sort"
)

// Matcher runs the aligner against many templates and keeps the ones scoring within
// its cutoff. It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	cutoff float64
}

func NewMatcher(cutoff float64) *Matcher {
	if cutoff <= 0 || cutoff > 1 {
		cutoff = DefaultCutoff
	}
	return &Matcher{cutoff: cutoff}
}

func (m *Matcher) Cutoff() float64 {
	return m.cutoff
}

// Match scores input against every template and returns the survivors best first. Equal
// scores keep the order of templates.
func (m *Matcher) Match(input string, templates []*Template) []MatchResult {
	runes := []rune(Normalize(input))

	var results []MatchResult
	for idx, tmpl := range templates {
		if tmpl == nil || tmpl.Empty() {
			continue
		}

		al := alignRunes(runes, tmpl.elements)
		score := tmpl.Score(al, len(runes))
		if score > m.cutoff {
			continue
		}

		results = append(results, MatchResult{
			Template:  tmpl,
			Index:     idx,
			Text:      tmpl.text,
			Score:     score,
			Cost:      al.Cost,
			Variables: al.Variables(),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})

	return results
}

// Best returns the top match, if any survived the cutoff.
func (m *Matcher) Best(input string, templates []*Template) (MatchResult, bool) {
	results := m.Match(input, templates)
	if len(results) == 0 {
		return MatchResult{}, false
	}
	return results[0], true
}
