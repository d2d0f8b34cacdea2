package speech

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestPrompt(t *testing.T) {
	assert.Equal(t, "Imagine, John Lennon", Prompt([]string{"Imagine", " ", "John Lennon"}))
	assert.Empty(t, Prompt(nil))

	long := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		long = append(long, "Yesterday")
	}
	prompt := Prompt(long)
	assert.LessOrEqual(t, len([]rune(prompt)), maxPromptRunes)
	assert.True(t, strings.HasSuffix(prompt, "Yesterday"))
}

func TestTranscribe(t *testing.T) {
	var gotPrompt, gotModel, gotAudio string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			http.NotFound(w, r)
			return
		}
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		gotPrompt = r.FormValue("prompt")
		gotModel = r.FormValue("model")

		file, _, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		data, _ := io.ReadAll(file)
		gotAudio = string(data)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":" play imagine "}`))
	}))
	defer srv.Close()

	tr, err := New(Config{APIKey: "test", BaseURL: srv.URL + "/v1/"})
	require.NoError(t, err)

	text, err := tr.Transcribe(context.Background(), "clip.wav", strings.NewReader("RIFF"), []string{"Imagine", "Yesterday"})
	require.NoError(t, err)

	assert.Equal(t, "play imagine", text)
	assert.Equal(t, "Imagine, Yesterday", gotPrompt)
	assert.Equal(t, "whisper-1", gotModel)
	assert.Equal(t, "RIFF", gotAudio)
}

func TestTranscribeSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	tr, err := New(Config{APIKey: "test", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	_, err = tr.Transcribe(context.Background(), "clip.wav", strings.NewReader("RIFF"), nil)
	assert.Error(t, err)
}
