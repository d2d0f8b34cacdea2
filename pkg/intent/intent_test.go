package intent

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CommandCore/pkg/datatype"
)

func TestExpandTemplate(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "no groups",
			source: "stop",
			want:   []string{"stop"},
		},
		{
			name:   "groups multiply",
			source: "From (here|there) to (Paris|Berlin)",
			want: []string{
				"From here to Paris",
				"From here to Berlin",
				"From there to Paris",
				"From there to Berlin",
			},
		},
		{
			name:   "empty alternative collapses whitespace",
			source: "(please|) stop (the music|)",
			want:   []string{"please stop the music", "please stop", "stop the music", "stop"},
		},
		{
			name:   "duplicates dropped",
			source: "(play|play) {song}",
			want:   []string{"play {song}"},
		},
		{
			name:   "variables untouched",
			source: "(play|put on) {Song} (by|from) {Artist}",
			want: []string{
				"play {Song} by {Artist}",
				"play {Song} from {Artist}",
				"put on {Song} by {Artist}",
				"put on {Song} from {Artist}",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ExpandTemplate(tt.source)); diff != "" {
				t.Errorf("ExpandTemplate(%q) mismatch (-want +got):\n%s", tt.source, diff)
			}
		})
	}
}

func TestNewOperation(t *testing.T) {
	song := datatype.NewEnumeration("song", "song", datatype.DefaultConfig())
	params := []Parameter{
		{Name: "Song", Recognizer: song},
		{Name: "Volume", Recognizer: datatype.NewNumber(datatype.DefaultConfig()), Optional: true},
	}

	op, warnings, err := NewOperation("music", "play", params,
		"play {Song}",
		"play {song} at volume {Volume}",
		"play {Song} by {Artist}",
		"(play|play) {Song}",
	)
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Equal(t, "play {Song} by {Artist}", warnings[0].Template)
	assert.Contains(t, warnings[0].String(), "{artist}")

	var texts []string
	for _, tmpl := range op.Templates() {
		texts = append(texts, tmpl.String())
	}
	assert.Equal(t, []string{"play {song}", "play {song} at volume {volume}"}, texts)

	assert.Equal(t, "music/play", op.Key())
	assert.True(t, op.HasRequired())

	p, ok := op.Parameter("VOLUME")
	require.True(t, ok)
	assert.Equal(t, "Volume", p.Name)
}

func TestNewOperationErrors(t *testing.T) {
	num := datatype.NewNumber(datatype.DefaultConfig())

	_, _, err := NewOperation("music", " ", nil, "stop")
	assert.ErrorIs(t, err, ErrEmptyOperationID)

	_, _, err = NewOperation("music", "seek", []Parameter{{Name: "to"}}, "seek {to}")
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, _, err = NewOperation("music", "seek", []Parameter{{Name: "To", Recognizer: num}, {Name: "to", Recognizer: num}}, "seek {to}")
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestApp(t *testing.T) {
	app := NewApp("music", "Music")
	stop, _, err := NewOperation("music", "stop", nil, "stop")
	require.NoError(t, err)

	require.NoError(t, app.Add(stop))
	assert.ErrorIs(t, app.Add(stop), ErrDuplicateOperation)
	assert.Same(t, stop, app.Operation("stop"))
	assert.Nil(t, app.Operation("play"))
	assert.False(t, stop.HasRequired())
}
