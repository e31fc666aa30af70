package obs

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/prasannaarjun/multihop-research-agent/internal/observability"
)

// ZerologLogger adapts the global zerolog logger to research.Logger. Error
// fields are redacted before logging since they may echo back
// retriever/LLM error payloads that embed request headers or keys.
type ZerologLogger struct{}

func (ZerologLogger) Info(msg string, fields map[string]any) {
	log.Info().Fields(fields).Msg(msg)
}

func (ZerologLogger) Error(msg string, fields map[string]any) {
	log.Error().Fields(redactFields(fields)).Msg(msg)
}

func (ZerologLogger) Debug(msg string, fields map[string]any) {
	log.Debug().Fields(fields).Msg(msg)
}

func redactFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return fields
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return fields
	}
	var redacted map[string]any
	if err := json.Unmarshal(observability.RedactJSON(raw), &redacted); err != nil {
		return fields
	}
	return redacted
}
