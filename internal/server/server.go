// Package server exposes a single shared editor over HTTP and a websocket.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alnah/go-txt2pdf"
)

// Default HTTP timeouts. Exports can take a while, so writes get more room.
const (
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 120 * time.Second
	shutdownTimeout     = 10 * time.Second
)

// Options configures a Server. Editor and Exporter are required.
type Options struct {
	Editor   *txt2pdf.Editor
	Exporter *txt2pdf.Exporter
	Importer *txt2pdf.Importer  // defaults to txt2pdf.NewImporter()
	Saver    *txt2pdf.AutoSaver // nil disables auto-save
	Logger   *slog.Logger       // nil discards

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP API around one editor.
type Server struct {
	router   chi.Router
	editor   *txt2pdf.Editor
	exporter *txt2pdf.Exporter
	importer *txt2pdf.Importer
	saver    *txt2pdf.AutoSaver
	hub      *Hub
	log      *slog.Logger

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// New creates the server and hooks editor changes to auto-save and the live
// session broadcast.
func New(opts Options) (*Server, error) {
	if opts.Editor == nil || opts.Exporter == nil {
		return nil, errors.New("server: editor and exporter are required")
	}
	if opts.Importer == nil {
		opts.Importer = txt2pdf.NewImporter()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}

	s := &Server{
		editor:       opts.Editor,
		exporter:     opts.Exporter,
		importer:     opts.Importer,
		saver:        opts.Saver,
		log:          opts.Logger,
		readTimeout:  opts.ReadTimeout,
		writeTimeout: opts.WriteTimeout,
	}
	s.hub = NewHub(s.log)
	s.editor.OnChange(s.changed)
	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Hub returns the live session hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api/document", func(r chi.Router) {
		r.Get("/", s.handleGetDocument)
		r.Put("/", s.handlePutDocument)
		r.Delete("/", s.handleDeleteDocument)
		r.Post("/commands", s.handleCommand)
		r.Put("/selection", s.handleSelection)
		r.Put("/layout", s.handleLayout)
		r.Post("/import", s.handleImport)
		r.Get("/title", s.handleTitle)
		r.Post("/export", s.handleExport)
		r.Get("/live", s.handleLive)
	})

	s.router = r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully and closes live sessions.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.hub.CloseAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// changed runs after every editor mutation, outside the editor lock.
func (s *Server) changed(markup string) {
	if s.saver != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := s.saver.SaveMarkup(ctx, markup); err != nil {
			s.log.Error("autosave failed", "error", err)
		}
	}
	s.hub.Broadcast(stateMessage(s.editor))
}
