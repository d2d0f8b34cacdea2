package command

import "CommandCore/pkg/response"

var (
	ErrEmptyUtterance   = response.NewError(400, "utterance is empty")
	ErrInvalidRequest   = response.NewError(400, "invalid request body")
	ErrExecutionPanic   = response.NewError(500, "command execution failed")
	ErrHistoryUnwritten = response.NewError(500, "failed to record command in history")

	ErrCommandLogUnavailable = response.NewError(503, "command log is not configured")
	ErrCommandLogNotFound    = response.NewError(404, "command log entry not found")
	ErrCommandLogExists      = response.NewError(409, "command log entry already exists")

	ErrSpeechUnavailable   = response.NewError(503, "speech recognition is not configured")
	ErrInvalidAudio        = response.NewError(400, "audio file is missing or unreadable")
	ErrAudioTooLarge       = response.NewError(413, "audio file is too large")
	ErrTranscriptionFailed = response.NewError(502, "speech recognition failed")
	ErrEmptyTranscript     = response.NewError(422, "no speech recognised in audio")
)

// TranscribedError carries the transcript of a voice command that failed after recognition.
type TranscribedError struct {
	Transcript string
	Err        error
}

func (e *TranscribedError) Error() string {
	return e.Err.Error()
}

func (e *TranscribedError) Unwrap() error {
	return e.Err
}
