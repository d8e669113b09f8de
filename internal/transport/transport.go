// Package transport adapts a websocket connection to the preview session:
// rendered content goes out as text messages, and a text ping keeps the
// viewer's liveness in check.
//
// A Conn has exactly one writer goroutine. Content published with Publish
// and the periodic ping are serialized through it, so messages are never
// interleaved and arrive in publish order.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Liveness messages exchanged with the viewer.
const (
	PingMessage = "ping"
	PongMessage = "pong"
)

// Defaults.
const (
	DefaultPingInterval = time.Second
	DefaultPongTimeout  = 10 * time.Second
	DefaultWriteTimeout = 5 * time.Second

	maxInboundBytes = 4096
	closeGrace      = time.Second
)

// Sentinel errors.
var (
	ErrClosed          = errors.New("connection closed")
	ErrLivenessTimeout = errors.New("viewer stopped answering pings")
	ErrPeerGone        = errors.New("viewer disconnected")
	ErrUpgrade         = errors.New("websocket upgrade failed")
	ErrWrite           = errors.New("websocket write failed")
)

// Options tunes liveness and write behavior. Zero values take defaults.
type Options struct {
	PingInterval time.Duration
	PongTimeout  time.Duration
	WriteTimeout time.Duration
	Logger       zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.PingInterval <= 0 {
		o.PingInterval = DefaultPingInterval
	}
	if o.PongTimeout <= 0 {
		o.PongTimeout = DefaultPongTimeout
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = DefaultWriteTimeout
	}
	return o
}

// Conn is one viewer connection.
type Conn struct {
	ws   *websocket.Conn
	opts Options
	log  zerolog.Logger

	out       chan string
	done      chan struct{}
	closeOnce sync.Once
	lastSeen  atomic.Int64 // unix nanoseconds of the last inbound message

	mu    sync.Mutex
	cause error
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 64 * 1024,
}

// Upgrade switches an HTTP request to a websocket Conn. On failure the
// upgrader has already answered the request.
func Upgrade(w http.ResponseWriter, r *http.Request, opts Options) (*Conn, error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpgrade, err)
	}
	return New(ws, opts), nil
}

// New wraps an established websocket connection.
func New(ws *websocket.Conn, opts Options) *Conn {
	opts = opts.withDefaults()
	c := &Conn{
		ws:   ws,
		opts: opts,
		log:  opts.Logger,
		out:  make(chan string),
		done: make(chan struct{}),
	}
	c.lastSeen.Store(time.Now().UnixNano())
	return c
}

// Publish hands content to the writer. It blocks until the writer takes
// it, ctx ends, or the connection closes, in which case the error wraps
// ErrClosed and the cause.
func (c *Conn) Publish(ctx context.Context, content string) error {
	select {
	case <-c.done:
		return c.closedErr()
	default:
	}

	select {
	case c.out <- content:
		return nil
	case <-c.done:
		return c.closedErr()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drives the connection until the viewer goes away, liveness fails,
// a write fails or ctx ends. It returns ErrPeerGone, ErrLivenessTimeout,
// an ErrWrite error or ctx.Err() respectively, and nil after Close. The
// connection is closed when Run returns.
func (c *Conn) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return c.closeOnError(c.readLoop()) })
	g.Go(func() error { return c.closeOnError(c.writeLoop(gctx)) })
	g.Go(func() error {
		select {
		case <-gctx.Done():
			c.close(nil)
		case <-c.done:
		}
		return nil
	})

	err := g.Wait()
	c.close(err)

	if err == nil {
		return ctx.Err()
	}
	return err
}

// closeOnError closes with err as cause before the group sees it, so
// Publish callers observe the real cause.
func (c *Conn) closeOnError(err error) error {
	if err != nil {
		c.close(err)
	}
	return err
}

// Done is closed once the connection is closed.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// readLoop records inbound messages as acknowledgements. Content from the
// viewer is otherwise ignored.
func (c *Conn) readLoop() error {
	c.ws.SetReadLimit(maxInboundBytes)
	for {
		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return nil
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug().Msg("viewer closed the connection")
			}
			return fmt.Errorf("%w: %v", ErrPeerGone, err)
		}
		c.lastSeen.Store(time.Now().UnixNano())
		if string(msg) != PongMessage {
			c.log.Debug().Int("bytes", len(msg)).Msg("unexpected viewer message")
		}
	}
}

// writeLoop is the only goroutine writing data frames.
func (c *Conn) writeLoop(ctx context.Context) error {
	ticker := time.NewTicker(c.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.done:
			return nil
		case content := <-c.out:
			if err := c.write(content); err != nil {
				return err
			}
		case <-ticker.C:
			silence := time.Since(time.Unix(0, c.lastSeen.Load()))
			if silence > c.opts.PongTimeout {
				return fmt.Errorf("%w: no message for %s", ErrLivenessTimeout, silence.Round(time.Millisecond))
			}
			if err := c.write(PingMessage); err != nil {
				return err
			}
		}
	}
}

func (c *Conn) write(msg string) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
	if err := c.ws.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// close records cause, says goodbye and releases the socket. Only the
// first call has an effect.
func (c *Conn) close(cause error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.cause = cause
		c.mu.Unlock()
		close(c.done)

		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
		if errors.Is(cause, ErrLivenessTimeout) {
			msg = websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "liveness timeout")
		}
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace))
		_ = c.ws.Close()
	})
}

// Close closes the connection. Pending and later Publish calls fail with
// ErrClosed.
func (c *Conn) Close() error {
	c.close(nil)
	return nil
}

func (c *Conn) closedErr() error {
	c.mu.Lock()
	cause := c.cause
	c.mu.Unlock()
	if cause == nil {
		return ErrClosed
	}
	return fmt.Errorf("%w: %w", ErrClosed, cause)
}
