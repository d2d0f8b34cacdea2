package entity

import (
	"time"
)

// CommandLog is the durable record of one executed utterance.
type CommandLog struct {
	ID        string                 `json:"id"`
	RequestID string                 `json:"request_id"`
	Input     string                 `json:"input"`
	Operation string                 `json:"operation"`
	Arguments map[string]interface{} `json:"arguments"`
	Score     float64                `json:"score"`
	Reply     string                 `json:"reply"`
	Source    CommandSource          `json:"source"`
	CreatedAt time.Time              `json:"created_at"`
}

type CommandSource uint8

const (
	CommandSourceUnknown CommandSource = 0
	CommandSourceText    CommandSource = 1
	CommandSourceVoice   CommandSource = 2
)

var CommandSourceMap = map[CommandSource]string{
	CommandSourceText:  "text",
	CommandSourceVoice: "voice",
}

func (s CommandSource) String() string {
	if name, ok := CommandSourceMap[s]; ok {
		return name
	}
	return "unknown"
}
