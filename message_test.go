package equitywire

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeartbeatMessage(t *testing.T) {
	before := time.Now().UnixMilli()
	m := NewHeartbeatMessage()
	after := time.Now().UnixMilli()

	assert.True(t, m.Type().IsData())

	var payload struct {
		Type string `json:"type"`
		Ts   int64  `json:"ts"`
	}
	require.NoError(t, json.Unmarshal(m.Data(), &payload))
	assert.Equal(t, "ping", payload.Type)
	assert.GreaterOrEqual(t, payload.Ts, before)
	assert.LessOrEqual(t, payload.Ts, after)
}

func TestMessageTypePredicates(t *testing.T) {
	assert.True(t, NewDataMessage(nil).Type().IsData())
	assert.True(t, NewBinaryMessage(nil).Type().IsBinary())
	assert.True(t, NewPingMessage(nil).Type().IsPing())
	assert.True(t, NewPongMessage(nil).Type().IsPong())
	assert.False(t, NewPongMessage(nil).Type().IsData())
}

func TestMessageString(t *testing.T) {
	m := NewDataMessage([]byte(`{"query":"aapl"}`))
	assert.Contains(t, m.String(), `{"query":"aapl"}`)
}
