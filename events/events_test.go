package events

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitWritesEventField(t *testing.T) {
	var buf bytes.Buffer
	em := New(zerolog.New(&buf))

	em.Emit("planned", map[string]any{"week": 5, "items": 12})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "planned", rec["event"])

	data, ok := rec["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(5), data["week"])
}

func TestEmitRedactsSensitiveKeys(t *testing.T) {
	var buf bytes.Buffer
	em := New(zerolog.New(&buf))

	em.Emit("published", map[string]any{
		"entry_id":     "A__b__1",
		"access_token": "secret-token",
		"status":       map[string]any{"open_id": "user-1", "code": 0},
	})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	data := rec["data"].(map[string]any)
	assert.Equal(t, "[redacted]", data["access_token"])
	assert.Equal(t, "[redacted]", data["status"].(map[string]any)["open_id"])
	assert.Equal(t, "A__b__1", data["entry_id"])
}

func TestEmitRedactsInsideArrays(t *testing.T) {
	var buf bytes.Buffer
	em := New(zerolog.New(&buf))

	em.Emit("published", map[string]any{
		"uploads": []any{
			map[string]any{"entry_id": "A__b__1", "access_token": "secret-1"},
			map[string]any{"entry_id": "C__d__1", "access_token": "secret-2"},
		},
	})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	uploads := rec["data"].(map[string]any)["uploads"].([]any)
	for _, u := range uploads {
		assert.Equal(t, "[redacted]", u.(map[string]any)["access_token"])
	}
	assert.NotContains(t, buf.String(), "secret-1")
	assert.NotContains(t, buf.String(), "secret-2")
}

func TestEmitUnserializablePayloadDoesNotPanic(t *testing.T) {
	var buf bytes.Buffer
	em := New(zerolog.New(&buf))

	em.Emit("rendered", map[string]any{"bad": func() {}})
	assert.Contains(t, buf.String(), "not serializable")
}
