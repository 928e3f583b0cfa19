package relay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContentEnvelope(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	env := NewContentEnvelope(json.RawMessage(`{"headline":"Storm warning"}`), at)

	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"content","data":{"headline":"Storm warning"},"timestamp":"2025-03-14T09:26:53Z"}`,
		string(data))
}

func TestNewConnectedEnvelope(t *testing.T) {
	data, err := json.Marshal(NewConnectedEnvelope())
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"connected","message":"Connected to live content server"}`,
		string(data))
}

func TestFormatTimestamp_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	at := time.Date(2025, 3, 14, 10, 26, 53, 0, loc)

	assert.Equal(t, "2025-03-14T09:26:53Z", FormatTimestamp(at))
}

func TestEnvelope_RoundTripsOpaquePayload(t *testing.T) {
	payload := json.RawMessage(`{"nested":{"a":[1,2,3]},"b":null}`)
	env := NewContentEnvelope(payload, time.Now())

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded Envelope
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.JSONEq(t, string(payload), string(decoded.Data))
}
