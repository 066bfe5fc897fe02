// Package apitest provides an in-process fake of the marketplace backend for
// tests. Routes are registered per test; every request is recorded.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"auctioneer/internal/api"

	"github.com/gorilla/mux"
)

// Request is a recorded call to the fake backend.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// JSONBody decodes the recorded body into a generic map.
func (r Request) JSONBody() map[string]any {
	var m map[string]any
	_ = json.Unmarshal(r.Body, &m)
	return m
}

// Server is a fake backend rooted at /api/v1.
type Server struct {
	*httptest.Server
	router *mux.Router

	mu       sync.Mutex
	requests []Request
}

// New starts a fake backend that is closed when t finishes.
func New(t testing.TB) *Server {
	s := &Server{router: mux.NewRouter()}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	s.mu.Unlock()

	s.router.ServeHTTP(w, r)
}

// BaseURL is the API root to hand to api.NewClient.
func (s *Server) BaseURL() string {
	return s.URL + "/api/v1"
}

// Client returns an API client pointed at the fake backend.
func (s *Server) Client() *api.Client {
	return api.NewClient(api.Options{BaseURL: s.BaseURL()})
}

// Handle registers h for method and a mux path pattern relative to the API
// root, e.g. "/auctions/{id:[0-9]+}".
func (s *Server) Handle(method, pattern string, h http.HandlerFunc) {
	s.router.HandleFunc("/api/v1"+pattern, h).Methods(method)
}

// Requests returns every recorded request in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many requests matched method and the full API path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == "/api/v1"+path {
			n++
		}
	}
	return n
}

// Last returns the most recent request for method and path.
func (s *Server) Last(method, path string) (Request, bool) {
	reqs := s.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == "/api/v1"+path {
			return reqs[i], true
		}
	}
	return Request{}, false
}

// JSON returns a handler that writes v with the given status.
func JSON(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Status returns a handler that replies with an empty body and code.
func Status(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}
}

// Image returns a handler that serves data as contentType.
func Image(contentType string, data []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(data)
	}
}

// Blocking wraps h so that it waits for release to be closed first. started
// is closed when the first request arrives.
func Blocking(h http.HandlerFunc, started chan<- struct{}, release <-chan struct{}) http.HandlerFunc {
	var once sync.Once
	return func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(started) })
		<-release
		h(w, r)
	}
}
