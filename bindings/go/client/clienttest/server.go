// Package clienttest provides an in-memory bindle server for tests.
package clienttest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/BurntSushi/toml"

	"ocm.software/open-component-model/bindle/bindings/go/invoice"
)

// APIPrefix is the path under which the server exposes the bindle API.
const APIPrefix = "/v1"

// Server serves invoices and parcels from memory.
type Server struct {
	srv *httptest.Server

	mu       sync.RWMutex
	invoices map[string]*invoice.Invoice
	parcels  map[string][]byte

	username, password string

	// Requests counts the requests received.
	Requests atomic.Int64
}

// Option configures the Server.
type Option func(*Server)

// WithBasicAuth makes the server reject requests that do not carry the
// given basic credentials.
func WithBasicAuth(username, password string) Option {
	return func(s *Server) {
		s.username, s.password = username, password
	}
}

// NewServer starts a plain HTTP server that is closed with the test.
func NewServer(tb testing.TB, opts ...Option) *Server {
	tb.Helper()
	s := newServer(opts...)
	s.srv = httptest.NewServer(s)
	tb.Cleanup(s.srv.Close)
	return s
}

// NewTLSServer starts a HTTPS server with a self-signed certificate.
func NewTLSServer(tb testing.TB, opts ...Option) *Server {
	tb.Helper()
	s := newServer(opts...)
	s.srv = httptest.NewTLSServer(s)
	tb.Cleanup(s.srv.Close)
	return s
}

func newServer(opts ...Option) *Server {
	s := &Server{
		invoices: make(map[string]*invoice.Invoice),
		parcels:  make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the base URL of the bindle API.
func (s *Server) URL() string {
	return s.srv.URL + APIPrefix
}

// AddInvoice stores an invoice.
func (s *Server) AddInvoice(inv *invoice.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.ID()] = inv
}

// AddParcel stores the content of a parcel of the invoice with the given id.
func (s *Server) AddParcel(id, sha string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parcels[id+"@"+sha] = data
}

// Invoice returns a stored invoice.
func (s *Server) Invoice(id string) (*invoice.Invoice, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	return inv, ok
}

// Parcel returns stored parcel content.
func (s *Server) Parcel(id, sha string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.parcels[id+"@"+sha]
	return data, ok
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Requests.Add(1)
	if s.username != "" {
		username, password, ok := r.BasicAuth()
		if !ok || username != s.username || password != s.password {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
	}

	path, ok := strings.CutPrefix(r.URL.Path, APIPrefix+"/_i")
	if !ok {
		http.NotFound(w, r)
		return
	}
	path = strings.TrimPrefix(path, "/")

	switch {
	case r.Method == http.MethodPost && path == "":
		s.createInvoice(w, r)
	case r.Method == http.MethodPost:
		s.createParcel(w, r, path)
	case r.Method == http.MethodGet && strings.Contains(path, "@"):
		s.getParcel(w, path)
	case r.Method == http.MethodGet:
		s.getInvoice(w, path)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) getInvoice(w http.ResponseWriter, id string) {
	inv, ok := s.Invoice(id)
	if !ok {
		http.Error(w, "invoice not found", http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := invoice.Encode(&buf, inv, invoice.FormatTOML); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", invoice.MediaTypeTOML)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) getParcel(w http.ResponseWriter, ref string) {
	s.mu.RLock()
	data, ok := s.parcels[ref]
	s.mu.RUnlock()
	if !ok {
		http.Error(w, "parcel not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

func (s *Server) createInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := invoice.Decode(r.Body, invoice.FormatTOML)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, exists := s.Invoice(inv.ID()); exists {
		http.Error(w, "invoice already exists", http.StatusConflict)
		return
	}
	s.AddInvoice(inv)

	response := struct {
		Invoice *invoice.Invoice `toml:"invoice"`
		Missing []invoice.Label  `toml:"missing,omitempty"`
	}{Invoice: inv}
	for _, p := range inv.Parcels {
		if _, ok := s.Parcel(inv.ID(), p.Label.SHA256); !ok {
			response.Missing = append(response.Missing, p.Label)
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", invoice.MediaTypeTOML)
	if len(response.Missing) > 0 {
		w.WriteHeader(http.StatusAccepted)
	} else {
		w.WriteHeader(http.StatusCreated)
	}
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) createParcel(w http.ResponseWriter, r *http.Request, ref string) {
	id, sha, ok := strings.Cut(ref, "@")
	if !ok {
		http.Error(w, "missing parcel fingerprint", http.StatusBadRequest)
		return
	}
	if _, exists := s.Invoice(id); !exists {
		http.Error(w, "invoice not found", http.StatusNotFound)
		return
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.AddParcel(id, sha, data)
	w.WriteHeader(http.StatusOK)
}
