package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/doxify/go-doxify"
	"github.com/doxify/go-doxify/internal/config"
	"github.com/doxify/go-doxify/internal/logging"
)

// shutdownTimeout bounds graceful shutdown after a signal.
const shutdownTimeout = 10 * time.Second

// Error codes returned in JSON error bodies.
const (
	codeBadRequest        = "bad_request"
	codeUnsupportedFormat = "unsupported_format"
	codeTooLarge          = "content_too_large"
	codeFrontmatter       = "frontmatter_error"
	codeUnavailable       = "unavailable"
	codeInternal          = "internal_error"
)

// documentRequest is the body of /v1/parse and /v1/render.
type documentRequest struct {
	Content string `json:"content"`
	Format  string `json:"format"`
}

// renderResponse is the body of a successful /v1/render.
type renderResponse struct {
	HTML string `json:"html"`
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// documentParser is the part of doxify.Parser the server uses.
type documentParser interface {
	Parse(ctx context.Context, content string, format doxify.Format) (*doxify.Result, error)
	Render(ctx context.Context, content string, format doxify.Format) (string, error)
}

// Compile-time interface implementation check.
var _ documentParser = (*doxify.Parser)(nil)

// server exposes the parser over HTTP.
type server struct {
	parser        documentParser
	logger        zerolog.Logger
	maxBody       int64
	defaultFormat doxify.Format
}

// newServer creates a server. maxBody <= 0 disables the body limit.
// defaultFormat applies to requests without a format; empty means markdown.
func newServer(parser documentParser, logger zerolog.Logger, maxBody int64, defaultFormat doxify.Format) *server {
	return &server{parser: parser, logger: logger, maxBody: maxBody, defaultFormat: defaultFormat}
}

// routes returns the HTTP handler with request logging applied.
func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/parse", s.handleParse)
	mux.HandleFunc("POST /v1/render", s.handleRender)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return s.logRequests(mux)
}

func (s *server) handleParse(w http.ResponseWriter, r *http.Request) {
	req, format, ok := s.decode(w, r)
	if !ok {
		return
	}
	result, err := s.parser.Parse(r.Context(), req.Content, format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, format, ok := s.decode(w, r)
	if !ok {
		return
	}
	html, err := s.parser.Render(r.Context(), req.Content, format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, renderResponse{HTML: html})
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// decode reads a documentRequest. On failure it writes the error response
// and returns ok=false.
func (s *server) decode(w http.ResponseWriter, r *http.Request) (documentRequest, doxify.Format, bool) {
	var req documentRequest
	body := r.Body
	if s.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error: fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit),
				Code:  codeTooLarge,
			})
			return req, "", false
		}
		s.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "invalid JSON body: " + err.Error(),
			Code:  codeBadRequest,
		})
		return req, "", false
	}

	if req.Format == "" {
		return req, formatOr(s.defaultFormat, doxify.FormatMarkdown), true
	}
	format, err := doxify.ParseFormat(req.Format)
	if err != nil {
		s.writeError(w, err)
		return req, "", false
	}
	return req, format, true
}

// statusFor maps library errors to HTTP status codes and error codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, doxify.ErrUnsupportedFormat):
		return http.StatusBadRequest, codeUnsupportedFormat
	case errors.Is(err, doxify.ErrContentTooLarge):
		return http.StatusRequestEntityTooLarge, codeTooLarge
	case errors.Is(err, doxify.ErrFrontmatter):
		return http.StatusUnprocessableEntity, codeFrontmatter
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, codeUnavailable
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
		msg = "internal error"
	}
	s.writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn().Err(err).Msg("writing response")
	}
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

// logRequests logs method, path, status and duration for every request.
func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		event := s.logger.Info()
		if rec.status >= http.StatusInternalServerError {
			event = s.logger.Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Int("bytes", rec.bytes).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// newHTTPServer builds the http.Server from configuration.
func newHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
}

// serve runs srv on ln until ctx is cancelled, then shuts down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, logger zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Info().Str("addr", ln.Addr().String()).Msg("listening")

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

// runServe orchestrates the serve command.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, positional[0])
	}
	defaultFormat, err := resolveFormatFlag(flags.parser.format)
	if err != nil {
		return err
	}

	st, err := loadSettings(&flags.common, env, func(cfg *config.Config) {
		mergeParserFlags(&flags.parser, cfg)
		mergeHTMLFlags(flags.highlight, flags.sanitize, cfg)
		if flags.addr != "" {
			cfg.Server.Addr = flags.addr
		}
	})
	if err != nil {
		return err
	}

	logger := logging.Component(st.logger, "server")
	handler := newServer(st.parser, logger, st.cfg.Server.MaxBodyBytes, defaultFormat).routes()
	srv := newHTTPServer(st.cfg.Server, handler)

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", st.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", st.cfg.Server.Addr, err)
	}
	return serve(ctx, srv, ln, logger)
}
