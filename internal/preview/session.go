package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/alnah/go-resumecli/internal/assets"
	"github.com/alnah/go-resumecli/internal/document"
)

// Session errors.
var (
	ErrTransport   = errors.New("transport failed")
	ErrNoSource    = errors.New("source file path is required")
	ErrNoTemplate  = errors.New("template is required")
	ErrNilRenderer = errors.New("renderer is required")
	ErrNilSink     = errors.New("sink is required")
	ErrRunning     = errors.New("session already started")
)

// Sink receives rendered content. Publish must return an error once the
// destination is gone; the session stops at the first failure.
type Sink interface {
	Publish(ctx context.Context, content string) error
}

// Stream signals source changes. Next blocks until the next change and
// returns nil, io.EOF when the stream has ended, or ctx.Err().
type Stream interface {
	Next(ctx context.Context) error
}

// State is a session lifecycle stage.
type State int32

// Session states.
const (
	StateIdle State = iota
	StateRendering
	StateWatching
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRendering:
		return "rendering"
	case StateWatching:
		return "watching"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Session renders one source file for one viewer. Sessions are not shared:
// each viewer connection owns its session and its Stream.
type Session struct {
	path     string
	tmpl     assets.Template
	renderer Renderer
	sink     Sink
	load     Loader
	log      zerolog.Logger

	state   atomic.Int32
	started atomic.Bool
	renders atomic.Int64
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLoader replaces document.Load.
func WithLoader(load Loader) SessionOption {
	return func(s *Session) {
		if load != nil {
			s.load = load
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) SessionOption {
	return func(s *Session) {
		s.log = l
	}
}

// NewSession validates its arguments up front: a missing path or an
// unknown template is a configuration error reported before any render.
func NewSession(path string, tmpl assets.Template, r Renderer, sink Sink, opts ...SessionOption) (*Session, error) {
	switch {
	case path == "":
		return nil, ErrNoSource
	case tmpl == "":
		return nil, ErrNoTemplate
	case r == nil:
		return nil, ErrNilRenderer
	case sink == nil:
		return nil, ErrNilSink
	}
	if _, err := assets.ParseTemplate(tmpl.String()); err != nil {
		return nil, err
	}

	s := &Session{
		path:     path,
		tmpl:     tmpl,
		renderer: r,
		sink:     sink,
		load:     document.Load,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// State returns the current lifecycle stage.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Renders returns how many render cycles have been published.
func (s *Session) Renders() int64 {
	return s.renders.Load()
}

// Run publishes an initial render, then one render per change signal from
// changes, until the stream ends (nil), ctx ends (ctx.Err()) or the sink
// fails (ErrTransport). Run may be called once.
//
// The caller subscribes changes before calling Run so that an edit made
// during the initial render still produces a signal.
func (s *Session) Run(ctx context.Context, changes Stream) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer s.setState(StateClosed)

	s.log.Debug().Str("template", s.tmpl.String()).Msg("session started")

	s.setState(StateRendering)
	if err := s.cycle(ctx); err != nil {
		return err
	}

	for {
		s.setState(StateWatching)
		if err := changes.Next(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Info().Msg("change stream ended")
				return nil
			}
			return err
		}

		s.setState(StateRendering)
		if err := s.cycle(ctx); err != nil {
			return err
		}
	}
}

// cycle renders the source and publishes the result.
func (s *Session) cycle(ctx context.Context) error {
	res, err := Render(ctx, s.renderer, s.load, s.path, s.tmpl)
	if err != nil {
		return err
	}
	if res.IsErrorPage() {
		s.log.Warn().Err(res.Failure).Msg("publishing error page")
	}

	if err := s.sink.Publish(ctx, res.Content); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	n := s.renders.Add(1)
	s.log.Debug().Int64("render", n).Bool("error_page", res.IsErrorPage()).Msg("published")
	return nil
}

func (s *Session) setState(st State) {
	s.state.Store(int32(st))
}
