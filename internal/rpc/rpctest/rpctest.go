// Package rpctest provides an in-process fake of the backend's RPC
// surface for tests: register a handler per function name and point an
// HTTPGateway at the server URL.
package rpctest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Handler receives the decoded parameter object of one call and returns
// the value to encode as the response body.
type Handler func(params map[string]any) (any, *Fault)

// Fault is a canned backend failure with an optional SQLSTATE code.
type Fault struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Server is a fake backend bound to an httptest server.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]Handler
	calls    []string
}

// NewServer starts a fake backend. Callers own Close.
func NewServer() *Server {
	s := &Server{handlers: make(map[string]Handler)}

	r := chi.NewRouter()
	r.Post("/rest/v1/rpc/{fn}", s.serveCall)
	s.Server = httptest.NewServer(r)
	return s
}

// Handle registers (or replaces) the handler for a function name.
func (s *Server) Handle(fn string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[fn] = h
}

// Calls returns the function names invoked so far, in order.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *Server) serveCall(w http.ResponseWriter, r *http.Request) {
	fn := chi.URLParam(r, "fn")

	s.mu.Lock()
	s.calls = append(s.calls, fn)
	h, ok := s.handlers[fn]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(Fault{Message: "function " + fn + " does not exist", Code: "42883"})
		return
	}

	var params map[string]any
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(Fault{Message: "invalid request body"})
		return
	}

	result, fault := h(params)
	if fault != nil {
		status := fault.Status
		if status == 0 {
			status = http.StatusBadRequest
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(fault)
		return
	}
	_ = json.NewEncoder(w).Encode(result)
}
