// Package events emits structured pipeline lifecycle events. Emission is
// best-effort: a payload that fails to serialize is logged without its data
// and never aborts the pipeline.
package events

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Keys scrubbed from event payloads and adapter logs.
var redactKeys = []string{"access_token", "refresh_token", "open_id", "authorization"}

// Emitter writes lifecycle events as single-line JSON records.
type Emitter struct {
	log zerolog.Logger
}

// New wraps a zerolog logger as an event emitter.
func New(log zerolog.Logger) *Emitter {
	return &Emitter{log: log}
}

// Emit logs one lifecycle event (plan/generate/approve/render/publish) with
// a serializable payload.
func (e *Emitter) Emit(event string, payload any) {
	ev := e.log.Info().
		Str("event", event).
		Str("ts", time.Now().UTC().Format(time.RFC3339))

	data, err := json.Marshal(payload)
	if err != nil {
		ev.Msg("pipeline event (payload not serializable)")
		return
	}
	ev.RawJSON("data", redactJSON(data)).Msg("pipeline event")
}

// redactJSON replaces sensitive values in a marshalled payload. Input that
// is not a JSON object passes through unchanged.
func redactJSON(data []byte) []byte {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return data
	}
	redactMap(m)
	out, err := json.Marshal(m)
	if err != nil {
		return data
	}
	return out
}

func redactMap(m map[string]any) {
	for k, v := range m {
		if isSensitive(k) {
			m[k] = "[redacted]"
			continue
		}
		redactValue(v)
	}
}

// redactValue walks nested objects and arrays so sensitive keys are scrubbed
// at any depth.
func redactValue(v any) {
	switch t := v.(type) {
	case map[string]any:
		redactMap(t)
	case []any:
		for _, item := range t {
			redactValue(item)
		}
	}
}

func isSensitive(key string) bool {
	k := strings.ToLower(key)
	for _, r := range redactKeys {
		if k == r {
			return true
		}
	}
	return false
}
