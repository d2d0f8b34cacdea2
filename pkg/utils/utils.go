package utils

import (
	"crypto/rand"
	"errors"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ErrNoFile           = errors.New("no file uploaded")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
	ErrUnsupportedAudio = errors.New("uploaded file is not a supported audio format")
)

// audioExtensions are the containers accepted by the transcription endpoint.
var audioExtensions = map[string]struct{}{
	".flac": {}, ".m4a": {}, ".mp3": {}, ".mp4": {}, ".mpeg": {},
	".mpga": {}, ".oga": {}, ".ogg": {}, ".wav": {}, ".webm": {},
}

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	ValidateAudioFile(file *multipart.FileHeader) error
}

type utils struct {
	maxFileSize int64

	mu      sync.Mutex
	entropy io.Reader
}

func New() IUtils {
	return &utils{
		maxFileSize: 25 * 1024 * 1024,
		entropy:     ulid.Monotonic(rand.Reader, 0),
	}
}

// NewULIDFromTimestamp returns IDs that sort in creation order, also within one millisecond.
func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(t), u.entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func (u *utils) ValidateAudioFile(file *multipart.FileHeader) error {
	if file == nil {
		return ErrNoFile
	}

	if file.Size > u.maxFileSize {
		return ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "audio/") {
		return nil
	}
	if _, ok := audioExtensions[strings.ToLower(filepath.Ext(file.Filename))]; ok {
		return nil
	}

	return ErrUnsupportedAudio
}
