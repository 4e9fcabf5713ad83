package equitywire

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/fasthttp/websocket"
)

const writeWait = 5 * time.Second

type (
	// WsConnection is a single WebSocket channel to the backend.
	// It implements the Connection interface.
	WsConnection struct {
		dialer   *websocket.Dialer
		endpoint url.URL
		header   http.Header
		logger   Logger

		conn *websocket.Conn

		recv chan<- Message // inbound messages received over the wire

		writeMu sync.Mutex // serializes outbound frames

		closeChan       CloseChan
		closeOnce       sync.Once
		closeReason     error
		closeReasonOnce sync.Once
	}
)

func NewWebsocketConnection(
	dialer *websocket.Dialer,
	endpoint url.URL,
	header http.Header,
	logger Logger,
	recvChan chan<- Message,
) *WsConnection {
	return &WsConnection{
		dialer:    dialer,
		endpoint:  endpoint,
		header:    header,
		recv:      recvChan,
		closeChan: make(CloseChan),
		logger:    logger.WithField("net", "ws_connection"),
	}
}

func NewWebsocketFactory(
	logger Logger,
	dialer *websocket.Dialer,
	endpoint url.URL,
	header http.Header,
) ConnectionFactory {
	return func(ctx context.Context, recvChan chan<- Message) Connection {
		return NewWebsocketConnection(
			dialer,
			endpoint,
			header,
			logger,
			recvChan,
		)
	}
}

// Open dials the backend endpoint. It returns once the handshake completed
// or failed; on success a reader goroutine starts feeding the recv channel.
func (w *WsConnection) Open(ctx context.Context) error {
	conn, resp, err := w.dialer.DialContext(ctx, w.endpoint.String(), w.header)

	if err = w.handleDialError(resp, err); err != nil {
		w.logger.Errorf("connection err to %s: %s", w.endpoint.String(), err)
		return err
	}

	w.logger.Debugf("success opening connection to %s", w.endpoint.String())

	w.conn = conn

	go w.read(ctx)

	return nil
}

// Write sends a message over the WebSocket connection. Writes are serialized
// with a mutex so heartbeats and caller sends never interleave frames.
func (w *WsConnection) Write(m Message) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	select {
	case <-w.closeChan:
		return ErrConnectionClosed
	default:
	}

	if w.conn == nil {
		return ErrCannotConnect
	}

	deadline := time.Now().Add(writeWait)
	_ = w.conn.SetWriteDeadline(deadline)

	var err error

	switch m.Type() {
	case PingMessage:
		w.logger.Debugln("=> [PING]")
		err = w.conn.WriteControl(websocket.PingMessage, m.Data(), deadline)
		if e, ok := err.(net.Error); ok && e.Temporary() {
			err = nil
		}
	case PongMessage:
		w.logger.Debugln("=> [PONG]")
		err = w.conn.WriteControl(websocket.PongMessage, m.Data(), deadline)
	case BinaryMessage:
		w.logger.Debugln("=> [BIN]")
		err = w.conn.WriteMessage(websocket.BinaryMessage, m.Data())
	default:
		w.logger.Debugf("=> [DATA] %s", m.Data())
		err = w.conn.WriteMessage(websocket.TextMessage, m.Data())
	}

	if err != nil {
		if websocket.IsCloseError(err,
			websocket.CloseGoingAway,
			websocket.CloseAbnormalClosure,
		) {
			w.setCloseReason(ErrConnectionClosed)
		} else {
			w.setCloseReason(errors.Wrap(ErrConnectionClosed, err.Error()))
		}
		return errors.Wrap(ErrConnectionClosed, err.Error())
	}

	return nil
}

// Close terminates the WebSocket connection. A close frame is attempted
// best-effort; failures during shutdown are swallowed.
func (w *WsConnection) Close() {
	w.safeClose()
}

// CloseChan returns a channel that will be closed when the WebSocket
// connection is closed, whatever the cause.
func (w *WsConnection) CloseChan() CloseChan {
	return w.closeChan
}

// CloseErr returns an error that explains why the connection was closed.
// Nil when the connection was closed from our side.
func (w *WsConnection) CloseErr() error {
	return w.closeReason
}

func (w *WsConnection) read(ctx context.Context) {
	defer w.safeClose()

	for {
		messageType, bts, err := w.conn.ReadMessage()
		if err != nil {
			select {
			case <-w.closeChan:
				// terminated from our side, reader unblocked by conn.Close
			case <-ctx.Done():
				w.setCloseReason(ErrTerminated)
			default:
				w.logger.Errorf("error occurred on websocket read: %s", err)
				w.setCloseReason(errors.Wrap(
					ErrConnectionClosed,
					"error occurred on websocket read: "+err.Error(),
				))
			}
			return
		}

		var m Message
		switch messageType {
		case websocket.BinaryMessage:
			w.logger.Debugln("<= [BIN]")
			m = NewBinaryMessage(bts)
		default:
			w.logger.Debugf("<= [DATA] %s", string(bts))
			m = NewDataMessage(bts)
		}

		select {
		case w.recv <- m:
		case <-w.closeChan:
			return
		case <-ctx.Done():
			w.setCloseReason(ErrTerminated)
			return
		}
	}
}

func (w *WsConnection) safeClose() {
	w.closeOnce.Do(w.close)
}

func (w *WsConnection) close() {
	if w.conn != nil {
		_ = w.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait),
		)
		_ = w.conn.Close()
	}
	close(w.closeChan)
}

func (w *WsConnection) setCloseReason(err error) {
	w.closeReasonOnce.Do(func() {
		w.closeReason = err
	})
}

func (w *WsConnection) handleDialError(resp *http.Response, err error) error {
	// 1. Check HTTP errors first
	var msg string

	if resp != nil {
		if resp.Body != nil {
			bts, rerr := io.ReadAll(resp.Body)
			if rerr == nil {
				msg = string(bts)
			}
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return errors.Wrap(ErrRateLimit, msg)
		}
	}

	// 2. Network errors
	if err != nil {
		return errors.Wrap(ErrCannotConnect, err.Error())
	}

	return nil
}
