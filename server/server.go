// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package server serves the node APIs over HTTP.
package server

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

var errNotHijacker = errors.New("response writer does not support hijacking")

// PathAdder registers handlers. The controller only needs this much.
type PathAdder interface {
	// AddRoute registers [handler] at /[base][endpoint].
	AddRoute(handler http.Handler, base, endpoint string) error
}

type Config struct {
	AllowedOrigins    []string      `json:"allowedOrigins"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout"`
	ShutdownTimeout   time.Duration `json:"shutdownTimeout"`
}

type Server struct {
	log      logging.Logger
	config   Config
	router   *mux.Router
	srv      *http.Server
	listener net.Listener

	lock   sync.Mutex
	routes []string
}

// New returns a server for [listener]. Nothing is served until Dispatch.
func New(log logging.Logger, listener net.Listener, config Config) *Server {
	s := &Server{
		log:      log,
		config:   config,
		router:   mux.NewRouter(),
		listener: listener,
	}
	s.router.Use(s.logRequests)
	handler := cors.New(cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowCredentials: true,
	}).Handler(s.router)
	s.srv = &http.Server{
		Handler:           gziphandler.GzipHandler(handler),
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}
	return s
}

func (s *Server) AddRoute(handler http.Handler, base, endpoint string) error {
	path := "/" + base + endpoint
	if err := s.router.Handle(path, handler).GetError(); err != nil {
		return err
	}
	s.lock.Lock()
	s.routes = append(s.routes, path)
	s.lock.Unlock()
	return nil
}

// Routes returns the registered paths in registration order.
func (s *Server) Routes() []string {
	s.lock.Lock()
	defer s.lock.Unlock()

	return append([]string(nil), s.routes...)
}

// Dispatch serves until Shutdown is called, then returns
// http.ErrServerClosed.
func (s *Server) Dispatch() error {
	s.log.Info("serving",
		zap.Stringer("address", s.listener.Addr()),
		zap.Strings("routes", s.Routes()),
		zap.Strings("allowedOrigins", s.config.AllowedOrigins),
	)
	return s.srv.Serve(s.listener)
}

// Shutdown waits up to the shutdown timeout for requests in flight, then
// drops the remaining connections.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	err := s.srv.Shutdown(ctx)
	_ = s.srv.Close()
	return err
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &recorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("served request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// recorder keeps the status written through it. Websocket upgrades need
// Hijack to reach the underlying writer.
type recorder struct {
	http.ResponseWriter
	status int
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errNotHijacker
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}
