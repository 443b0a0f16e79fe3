// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/stacklok/procenv/cel"
	"github.com/stacklok/procenv/httperr"
	"github.com/stacklok/procenv/procenv"
	"github.com/stacklok/procenv/recovery"
	"github.com/stacklok/procenv/validation/varname"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// EnvironmentReader is the part of procenv.Reader the server uses.
type EnvironmentReader interface {
	Lookup(ctx context.Context, pid int, name string) (procenv.Result, error)
	Environ(ctx context.Context, pid int) (map[string]string, bool, error)
	Match(ctx context.Context, pid int, m *procenv.Matcher) (bool, error)
}

// Server serves environment lookups.
type Server struct {
	reader  EnvironmentReader
	logger  *slog.Logger
	timeout time.Duration
	headers map[string]string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithTimeout bounds each lookup. Zero means no bound beyond the request.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.timeout = d
	}
}

// WithResponseHeaders sets headers added to every response. They must have
// been validated with the validation/http package.
func WithResponseHeaders(h map[string]string) Option {
	return func(s *Server) {
		s.headers = h
	}
}

// New creates a Server backed by reader.
func New(reader EnvironmentReader, opts ...Option) *Server {
	s := &Server{reader: reader, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VariableResponse is the body of a successful variable lookup.
type VariableResponse struct {
	PID   int    `json:"pid"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// EnvironmentResponse is the body of a successful enumeration.
type EnvironmentResponse struct {
	PID         int               `json:"pid"`
	Environment map[string]string `json:"environment"`
}

// MatchResponse is the body of a predicate evaluation.
type MatchResponse struct {
	PID        int    `json:"pid"`
	Expression string `json:"expression"`
	Matched    bool   `json:"matched"`
}

// Handler returns the routed handler wrapped in panic recovery.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/processes/{pid}/environment/{name}", s.handleVariable)
	mux.HandleFunc("GET /v1/processes/{pid}/environment", s.handleEnvironment)
	mux.HandleFunc("GET /v1/processes/{pid}/match", s.handleMatch)

	return recovery.Middleware(s.logger)(s.withHeaders(mux))
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("server listening", "address", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) withHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for name, value := range s.headers {
			w.Header().Set(name, value)
		}
		next.ServeHTTP(w, r)
	})
}

func (*Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVariable(w http.ResponseWriter, r *http.Request) {
	pid, err := parsePID(r.PathValue("pid"))
	if err != nil {
		httperr.Write(w, err)
		return
	}
	name := r.PathValue("name")
	if err := varname.ValidateName(name); err != nil {
		httperr.Write(w, httperr.WithCode(err, http.StatusBadRequest))
		return
	}

	ctx, cancel := s.lookupContext(r.Context())
	defer cancel()

	res, err := s.reader.Lookup(ctx, pid, name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	value, found := res.Get()
	if !found {
		httperr.Write(w, httperr.New(
			fmt.Sprintf("variable %q not available in process %d: %s", name, pid, res.Status),
			http.StatusNotFound))
		return
	}
	writeJSON(w, http.StatusOK, VariableResponse{PID: pid, Name: name, Value: value})
}

func (s *Server) handleEnvironment(w http.ResponseWriter, r *http.Request) {
	pid, err := parsePID(r.PathValue("pid"))
	if err != nil {
		httperr.Write(w, err)
		return
	}

	ctx, cancel := s.lookupContext(r.Context())
	defer cancel()

	environ, found, err := s.reader.Environ(ctx, pid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !found {
		httperr.Write(w, httperr.New(
			fmt.Sprintf("environment of process %d could not be read", pid), http.StatusNotFound))
		return
	}
	writeJSON(w, http.StatusOK, EnvironmentResponse{PID: pid, Environment: environ})
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	pid, err := parsePID(r.PathValue("pid"))
	if err != nil {
		httperr.Write(w, err)
		return
	}
	expr := r.URL.Query().Get("expr")
	if expr == "" {
		httperr.Write(w, httperr.New("query parameter expr is required", http.StatusBadRequest))
		return
	}
	m, err := procenv.CompileMatcher(expr)
	if err != nil {
		httperr.Write(w, httperr.WithCode(err, http.StatusBadRequest))
		return
	}

	ctx, cancel := s.lookupContext(r.Context())
	defer cancel()

	matched, err := s.reader.Match(ctx, pid, m)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MatchResponse{PID: pid, Expression: expr, Matched: matched})
}

func (s *Server) lookupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

// writeError maps reader errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, procenv.ErrInvalidProcess), errors.Is(err, procenv.ErrEmptyVariableName):
		err = httperr.WithCode(err, http.StatusBadRequest)
	case errors.Is(err, procenv.ErrUnsupportedPlatform), errors.Is(err, procenv.ErrEnumerationUnsupported):
		err = httperr.WithCode(err, http.StatusNotImplemented)
	case errors.Is(err, cel.ErrEvaluation), errors.Is(err, cel.ErrInvalidResult):
		err = httperr.WithCode(err, http.StatusUnprocessableEntity)
	}
	if httperr.Code(err) >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	httperr.Write(w, err)
}

func parsePID(raw string) (int, error) {
	pid, err := strconv.Atoi(raw)
	if err != nil || pid <= 0 {
		return 0, httperr.WithCode(
			fmt.Errorf("%w: %q", procenv.ErrInvalidProcess, raw), http.StatusBadRequest)
	}
	return pid, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
