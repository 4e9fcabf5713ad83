package equitywire

import (
	"context"
	"net/http"
	"time"
)

type (
	// Client maintains one logical persistent channel to the research
	// backend: it dials on Open, keeps the channel alive with heartbeats,
	// and transparently re-establishes it after unexpected loss until Close
	// is called.
	Client interface {
		// Open starts connecting and returns immediately; the channel is
		// established in the background and reported via an EventOpen
		// notification. Open fails only on misuse (client already closed or
		// already opened).
		Open(ctx context.Context) error

		// Send serializes the given record and transmits it. It reports
		// false when the channel is not currently open or the transmission
		// failed; failed sends are not queued or retried.
		Send(v any) bool

		// Close permanently shuts the client down. Idempotent; no reconnect
		// is ever attempted afterwards.
		Close()

		// CloseChan returns a channel that is closed once the client has
		// fully stopped.
		CloseChan() CloseChan
	}

	CloseChan chan struct{}
)

// Defaults mirror the backend's reference configuration.
const (
	DefaultHeartbeatInterval = 20 * time.Second
	DefaultReconnectBase     = 2500 * time.Millisecond
	DefaultReconnectJitter   = 2000 * time.Millisecond
)

type clientOptions struct {
	secure            bool
	host              string
	header            http.Header
	heartbeatInterval time.Duration
	backoff           BackoffCalculator
	dialTimeout       time.Duration
	logger            Logger
	connFactory       ConnectionFactory
}

func defaultClientOptions() clientOptions {
	return clientOptions{
		host:              DefaultHost,
		heartbeatInterval: DefaultHeartbeatInterval,
		backoff:           UniformJitterBackoff(DefaultReconnectBase, DefaultReconnectJitter),
	}
}

// Option configures a client at construction time.
type Option func(*clientOptions)

// WithSecure toggles wss:// instead of ws://.
func WithSecure(secure bool) Option {
	return func(o *clientOptions) {
		o.secure = secure
	}
}

// WithHost sets the backend host:port. Defaults to DefaultHost.
func WithHost(host string) Option {
	return func(o *clientOptions) {
		o.host = host
	}
}

// WithHeader sets extra headers sent on the websocket handshake.
func WithHeader(header http.Header) Option {
	return func(o *clientOptions) {
		o.header = header
	}
}

// WithHeartbeatInterval overrides the keep-alive period.
func WithHeartbeatInterval(interval time.Duration) Option {
	return func(o *clientOptions) {
		o.heartbeatInterval = interval
	}
}

// WithReconnectDelay overrides the jittered reconnect window: the delay is
// drawn uniformly from [base, base+jitter).
func WithReconnectDelay(base, jitter time.Duration) Option {
	return func(o *clientOptions) {
		o.backoff = UniformJitterBackoff(base, jitter)
	}
}

// WithBackoffCalculator replaces the reconnect delay policy altogether.
func WithBackoffCalculator(calc BackoffCalculator) Option {
	return func(o *clientOptions) {
		o.backoff = calc
	}
}

// WithDialTimeout bounds the websocket handshake. Zero means no bound, which
// is the reference behavior.
func WithDialTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.dialTimeout = timeout
	}
}

// WithLogger replaces the default logrus-backed logger.
func WithLogger(logger Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithConnectionFactory replaces the websocket transport. Mainly a seam for
// tests and embedding.
func WithConnectionFactory(factory ConnectionFactory) Option {
	return func(o *clientOptions) {
		o.connFactory = factory
	}
}

// Open constructs a client and immediately starts connecting. Most callers
// want this; use NewClient when construction and start must be separate.
func Open(ctx context.Context, clientID string, observer Observer, opts ...Option) (Client, error) {
	cli := NewClient(clientID, observer, opts...)
	if err := cli.Open(ctx); err != nil {
		return nil, err
	}
	return cli, nil
}
