package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// maxPromptRunes keeps the biasing prompt inside the transcription model's prompt window.
const maxPromptRunes = 800

var ErrNotConfigured = errors.New("speech recognition is not configured")

type ITranscriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader, vocabulary []string) (string, error)
}

type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Language string
}

func ConfigFromEnv() Config {
	model := os.Getenv("TRANSCRIPTION_MODEL")
	if model == "" {
		model = openai.Whisper1
	}
	return Config{
		APIKey:   os.Getenv("OPENAI_API_KEY"),
		BaseURL:  os.Getenv("OPENAI_BASE_URL"),
		Model:    model,
		Language: os.Getenv("TRANSCRIPTION_LANGUAGE"),
	}
}

func (c Config) Enabled() bool {
	return c.APIKey != ""
}

type transcriptionService struct {
	client   *openai.Client
	model    string
	language string
}

func New(cfg Config) (ITranscriber, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}

	return &transcriptionService{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    model,
		language: cfg.Language,
	}, nil
}

// Transcribe sends audio to the transcription endpoint. vocabulary is passed as the prompt
// so catalog terms are spelled the way templates and enumerations expect them.
func (t *transcriptionService) Transcribe(ctx context.Context, filename string, audio io.Reader, vocabulary []string) (string, error) {
	req := openai.AudioRequest{
		Model:    t.model,
		FilePath: filename,
		Reader:   audio,
		Prompt:   Prompt(vocabulary),
		Language: t.language,
	}

	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", filename, err)
	}

	return strings.TrimSpace(resp.Text), nil
}

// Prompt joins vocabulary terms into a comma separated list, dropping whole terms once the
// prompt would exceed its limit.
func Prompt(vocabulary []string) string {
	var b strings.Builder
	size := 0
	for _, term := range vocabulary {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		n := len([]rune(term))
		if size > 0 {
			n += 2
		}
		if size+n > maxPromptRunes {
			break
		}
		if size > 0 {
			b.WriteString(", ")
		}
		b.WriteString(term)
		size += n
	}
	return b.String()
}
