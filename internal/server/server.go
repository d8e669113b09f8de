// Package server serves the live preview: a viewer page, a websocket that
// streams re-renders of one source file, and an on-demand PDF of the
// current source.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-resumecli"
	"github.com/alnah/go-resumecli/internal/assets"
	"github.com/alnah/go-resumecli/internal/logger"
	"github.com/alnah/go-resumecli/internal/preview"
	"github.com/alnah/go-resumecli/internal/transport"
	"github.com/alnah/go-resumecli/internal/watch"
)

// Routes.
const (
	ViewerPath = "/"
	SocketPath = "/ws"
	PDFPath    = "/resume.pdf"
	HTMLPath   = "/resume.html"
	HealthPath = "/healthz"
)

// StatusHeader flags downloads that carry an error page instead of the résumé.
const (
	StatusHeader    = "X-Resume-Status"
	StatusErrorPage = "error-page"
)

const (
	DefaultAddr     = "127.0.0.1:8000"
	shutdownTimeout = 5 * time.Second
)

// ErrNilBackend is returned by New without a backend.
var ErrNilBackend = errors.New("server backend is required")

// Backend renders résumés, error pages, the viewer and downloads.
// *resumecli.Renderer implements it.
type Backend interface {
	preview.Renderer
	RenderViewer(page resumecli.ViewerPage) (string, error)
	RenderArtifact(ctx context.Context, source string, tmpl resumecli.Template, htmlOnly bool) (*resumecli.Artifact, error)
}

var _ Backend = (*resumecli.Renderer)(nil)

// Config describes one preview server.
type Config struct {
	Addr      string
	Source    string
	Template  assets.Template
	Transport transport.Options
	Debounce  time.Duration
	Logger    zerolog.Logger
}

// Server is the preview HTTP server.
type Server struct {
	cfg     Config
	backend Backend
	log     zerolog.Logger
	mux     *chi.Mux
	srv     *http.Server

	sessions atomic.Int64
}

// New validates cfg and mounts the routes. A missing source or unknown
// template fails here, before any viewer connects.
func New(cfg Config, backend Backend) (*Server, error) {
	if cfg.Source == "" {
		return nil, preview.ErrNoSource
	}
	if cfg.Template == "" {
		return nil, preview.ErrNoTemplate
	}
	tmpl, err := assets.ParseTemplate(cfg.Template.String())
	if err != nil {
		return nil, err
	}
	if backend == nil {
		return nil, ErrNilBackend
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	cfg.Template = tmpl

	s := &Server{
		cfg:     cfg,
		backend: backend,
		log:     logger.Named(cfg.Logger, "server"),
		mux:     chi.NewRouter(),
	}

	s.mux.Use(chimw.RequestID, chimw.RealIP, s.requestLogger, chimw.Recoverer)
	s.mux.Use(chimw.Heartbeat(HealthPath))
	s.mux.Get(ViewerPath, s.handleViewer)
	s.mux.Get(SocketPath, s.handleSocket)
	s.mux.Group(func(r chi.Router) {
		r.Use(chimw.NoCache)
		r.Get(PDFPath, s.handleDownload(false))
		r.Get(HTMLPath, s.handleDownload(true))
	})

	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr
}

// Sessions returns the number of connected viewers.
func (s *Server) Sessions() int64 {
	return s.sessions.Load()
}

// Run listens on the configured address until ctx ends, then shuts down.
// Viewer sessions derive from ctx and end with it.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info().Str("addr", ln.Addr().String()).Str("source", s.cfg.Source).Msg("preview listening")
		if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	page, err := s.backend.RenderViewer(resumecli.ViewerPage{
		Source:      filepath.Base(s.cfg.Source),
		Template:    s.cfg.Template,
		PDFPath:     PDFPath,
		SocketPath:  SocketPath,
		PingMessage: transport.PingMessage,
		PongMessage: transport.PongMessage,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("rendering viewer")
		http.Error(w, "viewer unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

// handleSocket runs one preview session for one viewer. The change stream
// is subscribed before the session's first render so no edit is missed.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	log := s.log.With().
		Str("session", uuid.NewString()).
		Str("path", s.cfg.Source).
		Logger()

	opts := s.cfg.Transport
	opts.Logger = logger.Named(log, "transport")
	conn, err := transport.Upgrade(w, r, opts)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	changes := s.subscribe(log)
	defer changes.Close()

	session, err := preview.NewSession(s.cfg.Source, s.cfg.Template, s.backend, conn,
		preview.WithLogger(logger.Named(log, "preview")))
	if err != nil {
		log.Error().Err(err).Msg("creating session")
		return
	}

	n := s.sessions.Add(1)
	defer s.sessions.Add(-1)
	log.Info().Int64("sessions", n).Msg("viewer connected")

	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error { return conn.Run(gctx) })
	g.Go(func() error {
		err := session.Run(gctx, changes)
		_ = conn.Close()
		return err
	})

	err = g.Wait()
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		log.Info().Int64("renders", session.Renders()).Msg("session ended")
	default:
		log.Info().Err(err).Int64("renders", session.Renders()).Msg("session ended")
	}
}

// stream is a change stream that can be released.
type stream interface {
	preview.Stream
	Close() error
}

// subscribe watches the source. When the source directory cannot be
// watched the session still serves its first render.
func (s *Server) subscribe(log zerolog.Logger) stream {
	f, err := watch.Subscribe(s.cfg.Source,
		watch.WithDebounce(s.cfg.Debounce),
		watch.WithLogger(logger.Named(log, "watch")))
	if err != nil {
		log.Warn().Err(err).Msg("source is not watched; edits will not refresh the viewer")
		return idleStream{}
	}
	return f
}

// idleStream never signals a change.
type idleStream struct{}

func (idleStream) Next(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (idleStream) Close() error { return nil }

// handleDownload renders the current source through the build path.
func (s *Server) handleDownload(htmlOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		art, err := s.backend.RenderArtifact(r.Context(), s.cfg.Source, s.cfg.Template, htmlOnly)
		if err != nil {
			s.log.Error().Err(err).Bool("html", htmlOnly).Msg("rendering download")
			http.Error(w, "rendering failed", http.StatusInternalServerError)
			return
		}
		if art.IsErrorPage() {
			s.log.Warn().Err(art.Failure).Msg("download is an error page")
			w.Header().Set(StatusHeader, StatusErrorPage)
		}

		if htmlOnly {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		} else {
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", `inline; filename="resume.pdf"`)
		}
		_, _ = w.Write(art.Bytes())
	}
}

// requestLogger logs completed requests at debug level. Websocket
// requests are logged when the viewer disconnects.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}
