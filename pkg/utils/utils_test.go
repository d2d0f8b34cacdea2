package utils

import (
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewULIDFromTimestamp(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	u := New()

	id, err := u.NewULIDFromTimestamp(at)
	require.NoError(t, err)

	parsed, err := ulid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(at), parsed.Time())

	prev := id
	for i := 0; i < 100; i++ {
		next, err := u.NewULIDFromTimestamp(at)
		require.NoError(t, err)
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestValidateAudioFile(t *testing.T) {
	header := func(name, contentType string, size int64) *multipart.FileHeader {
		h := textproto.MIMEHeader{}
		if contentType != "" {
			h.Set("Content-Type", contentType)
		}
		return &multipart.FileHeader{Filename: name, Header: h, Size: size}
	}

	tests := []struct {
		name string
		file *multipart.FileHeader
		want error
	}{
		{"missing", nil, ErrNoFile},
		{"wav by extension", header("clip.WAV", "application/octet-stream", 10), nil},
		{"audio content type", header("clip", "audio/ogg", 10), nil},
		{"too large", header("clip.mp3", "audio/mpeg", 26*1024*1024), ErrFileTooLarge},
		{"image", header("photo.png", "image/png", 10), ErrUnsupportedAudio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().ValidateAudioFile(tt.file)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
