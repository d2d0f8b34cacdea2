package nlp

import (
	"strings"
	"unicode"
)

// Template is a compiled command phrasing. Literal runes are normalised and variable
// names are lowercased, so "{Song}" is reported as "song".
type Template struct {
	text     string
	elements []element
	literals int
	vars     []string
}

// CompileTemplate parses "{name}" variable tokens out of text. A "{" without a closing
// brace is kept as a literal.
func CompileTemplate(text string) *Template {
	return compile(text, true)
}

// LiteralTemplate compiles text without variable parsing, used for vocabulary terms.
func LiteralTemplate(text string) *Template {
	return compile(text, false)
}

func compile(text string, parseVars bool) *Template {
	runes := []rune(Normalize(text))
	t := &Template{text: string(runes)}

	for i := 0; i < len(runes); i++ {
		if parseVars && runes[i] == '{' {
			if end := closingBrace(runes, i); end > i+1 {
				name := string(runes[i+1 : end])
				t.elements = append(t.elements, element{name: name, isVar: true})
				t.vars = append(t.vars, name)
				i = end
				continue
			}
		}
		t.elements = append(t.elements, element{literal: runes[i]})
		t.literals++
	}

	return t
}

func closingBrace(runes []rune, open int) int {
	for j := open + 1; j < len(runes); j++ {
		switch runes[j] {
		case '}':
			return j
		case '{':
			return -1
		}
	}
	return -1
}

func (t *Template) String() string { return t.text }

// Literals is the number of non-variable runes.
func (t *Template) Literals() int { return t.literals }

// Variables lists variable names in template order.
func (t *Template) Variables() []string {
	out := make([]string, len(t.vars))
	copy(out, t.vars)
	return out
}

func (t *Template) Empty() bool { return len(t.elements) == 0 }

// Align computes the weighted alignment of input against t. input is expected to be
// normalised already.
func Align(input string, t *Template) Alignment {
	return alignRunes([]rune(input), t.elements)
}

func alignRunes(in []rune, els []element) Alignment {
	n := len(in)
	prev := make([]float64, n+1)
	cur := make([]float64, n+1)

	// Distances only need the previous row; the choice matrix is kept whole for the
	// backtrack.
	choices := make([][]choice, len(els)+1)
	choices[0] = make([]choice, n+1)
	for j := 1; j <= n; j++ {
		prev[j] = prev[j-1] + CostInsert
		choices[0][j] = opInsert
	}

	for i := 1; i <= len(els); i++ {
		el := els[i-1]
		row := make([]choice, n+1)

		insertCost := CostInsert
		if el.isVar {
			insertCost = CostInsertInVar
		}

		cur[0] = prev[0] + CostDelete
		row[0] = opDelete

		for j := 1; j <= n; j++ {
			alignCost := CostAlignMismatch
			if el.isVar || unicode.ToLower(el.literal) == unicode.ToLower(in[j-1]) {
				alignCost = 0
			}

			best, op := prev[j-1]+alignCost, opAlign
			if c := cur[j-1] + insertCost; c < best {
				best, op = c, opInsert
			}
			if c := prev[j] + CostDelete; c < best {
				best, op = c, opDelete
			}

			cur[j] = best
			row[j] = op
		}

		choices[i] = row
		prev, cur = cur, prev
	}

	return backtrack(in, els, choices, prev[n])
}

type bounds struct {
	start, end int
	seen       bool
}

func (b *bounds) include(k int) {
	if !b.seen {
		b.start, b.end, b.seen = k, k+1, true
		return
	}
	b.start = k
}

func backtrack(in []rune, els []element, choices [][]choice, cost float64) Alignment {
	spans := make([]bounds, len(els)+1)
	varInserts := 0

	i, j := len(els), len(in)
	for i > 0 || j > 0 {
		switch choices[i][j] {
		case opAlign:
			if els[i-1].isVar {
				spans[i].include(j - 1)
			}
			i--
			j--
		case opInsert:
			if i > 0 && els[i-1].isVar {
				spans[i].include(j - 1)
				varInserts++
			}
			j--
		case opDelete:
			i--
		}
	}

	al := Alignment{
		Cost:       cost,
		AbsorbCost: float64(varInserts) * CostInsertInVar,
	}

	for idx, el := range els {
		if !el.isVar {
			continue
		}
		b := spans[idx+1]
		span := VariableSpan{Name: el.name}
		if b.seen {
			al.covered += b.end - b.start
			start, end := b.start, b.end
			for start < end && unicode.IsSpace(in[start]) {
				start++
			}
			for end > start && unicode.IsSpace(in[end-1]) {
				end--
			}
			span.Start, span.End = start, end
			span.Value = strings.TrimSpace(string(in[start:end]))
		}
		al.Spans = append(al.Spans, span)
	}

	return al
}

// Score normalises an alignment of an input of inputLen runes into [0,1]. Characters
// absorbed by variables are excluded from both the cost and the denominator, so the score
// measures how well the literal text of the template was matched.
func (t *Template) Score(al Alignment, inputLen int) float64 {
	literalCost := al.Cost - al.AbsorbCost
	if literalCost < 0 {
		literalCost = 0
	}

	denom := t.literals + inputLen - al.covered
	if denom <= 0 {
		if literalCost == 0 {
			return 0
		}
		return 1
	}

	score := literalCost / float64(denom)
	if score > 1 {
		return 1
	}
	return score
}
