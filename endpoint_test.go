package equitywire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndpointURL(t *testing.T) {
	u := EndpointURL(false, "", "abc-123")
	assert.Equal(t, "ws://127.0.0.1:8000/ws/abc-123", u.String())

	u = EndpointURL(true, "research.example.com", "abc-123")
	assert.Equal(t, "wss://research.example.com/ws/abc-123", u.String())

	u = EndpointURL(false, "localhost:9999", "client")
	assert.Equal(t, "ws://localhost:9999/ws/client", u.String())
}
