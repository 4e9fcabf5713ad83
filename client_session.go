package equitywire

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/fasthttp/websocket"
)

const recvBuffer = 32

// sessionClient implements Client. A single run goroutine owns all timing
// (dial, heartbeat, reconnect delay), so the connection lifecycle needs no
// locking beyond the guard around the current connection handle, which Send
// and Close touch from caller goroutines.
type sessionClient struct {
	clientID string
	endpoint url.URL

	observer Observer
	emitter  *EventEmitterCallback[EventType, Event]

	connFactory ConnectionFactory
	logger      Logger

	heartbeatInterval time.Duration
	backoff           BackoffCalculator

	mu         sync.RWMutex
	conn       Connection // current open connection, nil otherwise
	userClosed bool
	started    bool

	closeC    CloseChan
	closeOnce sync.Once
}

// NewClient builds a client for the given identifier. An empty clientID is
// replaced with a random UUID, matching what the browser front end does.
// The client starts connecting when Open is called.
func NewClient(clientID string, observer Observer, opts ...Option) Client {
	o := defaultClientOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if clientID == "" {
		clientID = uuid.NewString()
	}
	if o.logger == nil {
		o.logger = newDefaultLogger()
	}

	endpoint := EndpointURL(o.secure, o.host, clientID)

	factory := o.connFactory
	if factory == nil {
		dialer := &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: o.dialTimeout,
		}
		factory = NewWebsocketFactory(o.logger, dialer, endpoint, o.header)
	}

	return &sessionClient{
		clientID:          clientID,
		endpoint:          endpoint,
		observer:          observer,
		emitter:           NewEventEmitter[EventType, Event](),
		connFactory:       factory,
		logger:            o.logger.WithField("client_id", clientID),
		heartbeatInterval: o.heartbeatInterval,
		backoff:           o.backoff,
		closeC:            make(CloseChan),
	}
}

func (c *sessionClient) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.userClosed {
		c.mu.Unlock()
		return ErrClientClosed
	}
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyOpened
	}
	c.started = true
	c.mu.Unlock()

	for _, et := range []EventType{
		EventOpen, EventClose, EventError, EventRaw, EventRecord,
	} {
		c.emitter.On(et, c.notify)
	}

	go c.run(ctx)

	return nil
}

func (c *sessionClient) Send(v any) bool {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return false
	}

	bts, err := json.Marshal(v)
	if err != nil {
		c.logger.Errorf("cannot serialize outbound message: %s", err)
		return false
	}

	if err := conn.Write(NewDataMessage(bts)); err != nil {
		c.logger.Warnf("send failed: %s", err)
		return false
	}

	return true
}

func (c *sessionClient) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.userClosed = true
		conn := c.conn
		c.mu.Unlock()

		close(c.closeC)

		if conn != nil {
			conn.Close()
		}
	})
}

func (c *sessionClient) CloseChan() CloseChan {
	return c.closeC
}

func (c *sessionClient) notify(ev Event) {
	if c.observer != nil {
		c.observer(ev)
	}
}

func (c *sessionClient) emit(ev Event) {
	c.emitter.Emit(ev.Type, ev)
}

// run is the client's only loop: dial, serve until loss, wait the jittered
// delay, dial again. It exits on Close or context cancellation.
func (c *sessionClient) run(ctx context.Context) {
	defer c.emitter.Close()

	attempts := 0

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.closeC:
			return
		default:
		}

		recv := make(chan Message, recvBuffer)
		conn := c.connFactory(ctx, recv)

		if err := conn.Open(ctx); err != nil {
			conn.Close()
			c.emit(Event{Type: EventError, Err: err.Error()})
			c.emit(Event{Type: EventClose})
			attempts++
			if !c.waitReconnect(ctx, attempts) {
				return
			}
			continue
		}

		c.mu.Lock()
		if c.userClosed {
			// Close raced the dial; the fresh connection must not survive it.
			c.mu.Unlock()
			conn.Close()
			c.emit(Event{Type: EventClose})
			return
		}
		c.conn = conn
		c.mu.Unlock()

		attempts = 0
		c.logger.Infof("channel open to %s", c.endpoint.String())
		c.emit(Event{Type: EventOpen})

		c.serve(ctx, conn, recv)

		c.mu.Lock()
		c.conn = nil
		closed := c.userClosed
		c.mu.Unlock()

		c.drain(recv)

		if reason := conn.CloseErr(); reason != nil && !closed &&
			!errors.Is(reason, ErrTerminated) {
			c.emit(Event{Type: EventError, Err: reason.Error()})
		}
		c.emit(Event{Type: EventClose})

		if closed {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		attempts++
		if !c.waitReconnect(ctx, attempts) {
			return
		}
	}
}

// serve pumps one open connection: inbound messages go to the observer and
// the heartbeat ticker fires for exactly as long as the channel is open.
func (c *sessionClient) serve(ctx context.Context, conn Connection, recv <-chan Message) {
	ticker := time.NewTicker(c.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.Close()
			return
		case <-c.closeC:
			conn.Close()
			return
		case <-conn.CloseChan():
			return
		case m := <-recv:
			c.dispatch(m)
		case <-ticker.C:
			// Best-effort; a broken channel surfaces through the reader.
			if err := conn.Write(NewHeartbeatMessage()); err != nil {
				c.logger.Debugf("heartbeat dropped: %s", err)
			}
		}
	}
}

// drain flushes messages that were received before the connection went away,
// so they are observed ahead of the close notification.
func (c *sessionClient) drain(recv <-chan Message) {
	for {
		select {
		case m := <-recv:
			c.dispatch(m)
		default:
			return
		}
	}
}

func (c *sessionClient) dispatch(m Message) {
	rec, err := ParseRecord(m.Data())
	if err != nil || rec == nil {
		c.logger.Debugf("unparseable inbound payload, forwarding raw")
		c.emit(Event{Type: EventRaw, Raw: m.Data()})
		return
	}
	c.emit(Event{Type: EventRecord, Record: rec})
}

// waitReconnect sleeps the calculator-derived delay. It reports false when
// the client was closed or the context cancelled while waiting, in which
// case no further dial happens. Only the run loop calls it, so at most one
// reconnect is ever pending.
func (c *sessionClient) waitReconnect(ctx context.Context, attempts int) bool {
	delay := c.backoff(attempts)
	c.logger.Infof("reconnecting in %s", delay)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-c.closeC:
		return false
	case <-timer.C:
		return true
	}
}
