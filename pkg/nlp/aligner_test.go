package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileTemplate(t *testing.T) {
	tmpl := CompileTemplate("Play {Song} from {Artist}")

	assert.Equal(t, "play {song} from {artist}", tmpl.String())
	assert.Equal(t, []string{"song", "artist"}, tmpl.Variables())
	assert.Equal(t, 11, tmpl.Literals())

	t.Run("unterminated brace is literal", func(t *testing.T) {
		tmpl := CompileTemplate("say {hello")
		assert.Empty(t, tmpl.Variables())
		assert.Equal(t, 10, tmpl.Literals())
	})

	t.Run("empty braces are literal", func(t *testing.T) {
		tmpl := CompileTemplate("a {} b")
		assert.Empty(t, tmpl.Variables())
	})

	t.Run("literal template ignores braces", func(t *testing.T) {
		tmpl := LiteralTemplate("{song}")
		assert.Empty(t, tmpl.Variables())
		assert.Equal(t, 6, tmpl.Literals())
	})
}

func TestAlignExactLiteral(t *testing.T) {
	tmpl := CompileTemplate("Stop")
	al := Align("stop", tmpl)

	assert.Zero(t, al.Cost)
	assert.Zero(t, tmpl.Score(al, 4))
	assert.Empty(t, al.Variables())
}

func TestAlignExtractsVariables(t *testing.T) {
	input := "play imagine from john lennon"
	tmpl := CompileTemplate("play {Song} from {Artist}")

	al := Align(input, tmpl)

	require.Len(t, al.Spans, 2)
	assert.Equal(t, VariableSpan{Name: "song", Start: 5, End: 12, Value: "imagine"}, al.Spans[0])
	assert.Equal(t, VariableSpan{Name: "artist", Start: 18, End: 29, Value: "john lennon"}, al.Spans[1])
	assert.Equal(t, map[string]string{"song": "imagine", "artist": "john lennon"}, al.Variables())

	assert.InDelta(t, 14.0, al.Cost, 1e-9)
	assert.InDelta(t, 14.0, al.AbsorbCost, 1e-9)
	assert.Zero(t, tmpl.Score(al, len([]rune(input))))
}

func TestAlignTieBreakIsDeterministic(t *testing.T) {
	tmpl := CompileTemplate("{a} {b}")

	first := Align("one two three", tmpl)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Align("one two three", tmpl))
	}

	assert.Equal(t, map[string]string{"a": "one two", "b": "three"}, first.Variables())
}

func TestAlignPrefersAlignOnTies(t *testing.T) {
	// Deleting the variable and aligning it with the last rune cost the same; align wins.
	tmpl := CompileTemplate("stop {thing}")
	al := Align("stop", tmpl)

	assert.InDelta(t, 4.0, al.Cost, 1e-9)
	assert.Equal(t, map[string]string{"thing": "p"}, al.Variables())
	assert.InDelta(t, 0.5, tmpl.Score(al, 4), 1e-9)
}

func TestScoreDegradesMonotonically(t *testing.T) {
	tmpl := CompileTemplate("turn on the lights")
	inputs := []string{
		"turn on the lights",
		"turn on the lighxs",
		"turn on thx lighxs",
		"turx on thx lighxs",
		"turx ox thx lighxs",
	}

	previous := -1.0
	for _, input := range inputs {
		score := tmpl.Score(Align(input, tmpl), len([]rune(input)))
		assert.GreaterOrEqual(t, score, previous, input)
		previous = score
	}
	assert.Greater(t, previous, 0.0)
}

func TestScoreBounds(t *testing.T) {
	tests := []struct {
		input    string
		template string
		want     float64
	}{
		{input: "stahp", template: "stop", want: 1.0 / 3.0},
		{input: "please stop", template: "stop", want: 7.0 / 15.0},
		{input: "play imagine", template: "stop", want: 1},
		{input: "bobby", template: "bob", want: 0.25},
		{input: "", template: "stop", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.input+"/"+tt.template, func(t *testing.T) {
			tmpl := CompileTemplate(tt.template)
			score := tmpl.Score(Align(tt.input, tmpl), len([]rune(tt.input)))
			assert.InDelta(t, tt.want, score, 1e-9)
		})
	}
}
