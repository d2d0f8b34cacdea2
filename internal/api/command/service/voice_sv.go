package commandService

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"CommandCore/internal/api/command"
	"CommandCore/internal/entity"
	contextPkg "CommandCore/pkg/context"
)

// ExecuteVoice transcribes audio, biased towards the registered vocabulary, and executes
// the transcript like a typed utterance.
func (s *commandService) ExecuteVoice(ctx context.Context, filename string, audio io.Reader) (*command.VoiceResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.transcriber == nil {
		return nil, command.ErrSpeechUnavailable
	}

	vocabulary := append(s.registry.Vocabulary(), s.engine.Phrases()...)
	transcript, err := s.transcriber.Transcribe(ctx, filename, audio, vocabulary)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"file":       filename,
			"error":      err.Error(),
		}).Error("Transcription failed")
		return nil, command.ErrTranscriptionFailed
	}
	if transcript == "" {
		return nil, command.ErrEmptyTranscript
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"transcript": transcript,
	}).Debug("Audio transcribed")

	result, err := s.execute(ctx, transcript, entity.CommandSourceVoice)
	if err != nil {
		return nil, &command.TranscribedError{Transcript: transcript, Err: err}
	}

	return &command.VoiceResponse{
		Transcript: transcript,
		Result:     *result,
	}, nil
}
