package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileAll(texts ...string) []*Template {
	out := make([]*Template, 0, len(texts))
	for _, text := range texts {
		out = append(out, CompileTemplate(text))
	}
	return out
}

func TestMatcherSortsBestFirst(t *testing.T) {
	m := NewMatcher(DefaultCutoff)
	templates := compileAll("stop", "play {song}", "stop the music")

	results := m.Match("Stahp", templates)

	require.NotEmpty(t, results)
	assert.Equal(t, "stop", results[0].Text)
	assert.InDelta(t, 1.0/3.0, results[0].Score, 1e-9)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestMatcherRejectsUnrelatedInput(t *testing.T) {
	m := NewMatcher(DefaultCutoff)

	results := m.Match("asdkj qpwoe", compileAll("stop"))

	assert.Empty(t, results)
}

func TestMatcherKeepsRegistrationOrderOnTies(t *testing.T) {
	m := NewMatcher(DefaultCutoff)
	templates := compileAll("play {song} from {artist}", "play {track}")

	results := m.Match("play imagine from john lennon", templates)

	require.Len(t, results, 2)
	assert.Zero(t, results[0].Score)
	assert.Zero(t, results[1].Score)
	assert.Equal(t, 0, results[0].Index)
	assert.Equal(t, 1, results[1].Index)
	assert.Equal(t, map[string]string{"track": "imagine from john lennon"}, results[1].Variables)
}

func TestMatcherSkipsEmptyTemplates(t *testing.T) {
	m := NewMatcher(DefaultCutoff)
	templates := []*Template{nil, CompileTemplate(""), CompileTemplate("stop")}

	results := m.Match("stop", templates)

	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Index)
}

func TestMatcherBest(t *testing.T) {
	m := NewMatcher(0)
	assert.Equal(t, DefaultCutoff, m.Cutoff())

	best, ok := m.Best("imagine", []*Template{LiteralTemplate("yesterday"), LiteralTemplate("imagine")})
	require.True(t, ok)
	assert.Equal(t, "imagine", best.Text)
	assert.Zero(t, best.Score)

	_, ok = m.Best("qpwoe", []*Template{LiteralTemplate("imagine")})
	assert.False(t, ok)
}
