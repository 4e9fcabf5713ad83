package equitywire

import (
	"net/url"
	"path"
)

// DefaultHost is where the research backend listens when run locally.
const DefaultHost = "127.0.0.1:8000"

// EndpointURL builds the channel address for a client:
// ws(s)://host/ws/{clientID}. An empty host falls back to DefaultHost.
func EndpointURL(secure bool, host, clientID string) url.URL {
	scheme := "ws"
	if secure {
		scheme = "wss"
	}
	if host == "" {
		host = DefaultHost
	}
	return url.URL{
		Scheme: scheme,
		Host:   host,
		Path:   path.Join("/ws", clientID),
	}
}
