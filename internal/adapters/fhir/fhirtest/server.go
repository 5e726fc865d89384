package fhirtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"feasibility/internal/adapters/fhir"

	"github.com/gorilla/websocket"
)

// Server is an in-process DSF FHIR endpoint with REST reads and a websocket subscription
type Server struct {
	*httptest.Server

	SubscriptionID string

	mu        sync.Mutex
	resources map[string][]byte
	reads     map[string]int
	conns     map[*websocket.Conn]struct{}
	binds     int
	bound     chan struct{}
	failures  map[string]int

	upgrader websocket.Upgrader
}

// NewServer starts a Server that is closed on test cleanup
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		SubscriptionID: "sub-1",
		resources:      map[string][]byte{},
		reads:          map[string]int{},
		conns:          map[*websocket.Conn]struct{}{},
		bound:          make(chan struct{}, 64),
		failures:       map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("GET /Subscription", s.serveSearch)
	mux.HandleFunc("GET /{type}/{id}", s.serveRead)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// WebsocketURL is the ws:// endpoint of the subscription
func (s *Server) WebsocketURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http") + "/ws"
}

// Put stores a document served at /Type/id
func (s *Server) Put(resourceType, id string, doc []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[resourceType+"/"+id] = doc
}

// FailNext makes the next n reads of Type/id answer 503
func (s *Server) FailNext(resourceType, id string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[resourceType+"/"+id] = n
}

// Reads reports how many GETs hit Type/id
func (s *Server) Reads(resourceType, id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads[resourceType+"/"+id]
}

// Binds reports how many successful bind handshakes happened
func (s *Server) Binds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.binds
}

// WaitBound blocks until a client has bound or fails the test
func (s *Server) WaitBound(t testing.TB, timeout time.Duration) {
	t.Helper()
	select {
	case <-s.bound:
	case <-time.After(timeout):
		t.Fatalf("no websocket client bound within %s", timeout)
	}
}

// Push sends msg to every bound websocket client
func (s *Server) Push(msg []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		_ = c.WriteMessage(websocket.TextMessage, msg)
	}
}

// DropConnections closes every websocket client connection
func (s *Server) DropConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		_ = c.Close()
		delete(s.conns, c)
	}
}

func (s *Server) serveRead(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("type") + "/" + r.PathValue("id")

	s.mu.Lock()
	s.reads[key]++
	fail := s.failures[key]
	if fail > 0 {
		s.failures[key] = fail - 1
	}
	doc, ok := s.resources[key]
	s.mu.Unlock()

	if fail > 0 {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	if !ok {
		w.Header().Set("Content-Type", "application/fhir+json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"resourceType":"OperationOutcome"}`))
		return
	}
	w.Header().Set("Content-Type", "application/fhir+json")
	_, _ = w.Write(doc)
}

func (s *Server) serveSearch(w http.ResponseWriter, r *http.Request) {
	entry := map[string]any{
		"fullUrl": s.URL + "/Subscription/" + s.SubscriptionID,
		"resource": map[string]any{
			"resourceType": fhir.TypeSubscription,
			"id":           s.SubscriptionID,
			"status":       r.URL.Query().Get("status"),
			"criteria":     r.URL.Query().Get("criteria"),
			"channel":      map[string]any{"type": r.URL.Query().Get("type")},
		},
	}
	w.Header().Set("Content-Type", "application/fhir+json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"resourceType": fhir.TypeBundle,
		"type":         "searchset",
		"total":        1,
		"entry":        []any{entry},
	})
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer c.Close()

	_, msg, err := c.ReadMessage()
	if err != nil {
		return
	}
	want := "bind " + s.SubscriptionID
	if strings.TrimSpace(string(msg)) != want {
		_ = c.WriteMessage(websocket.TextMessage, []byte("error unknown subscription"))
		return
	}

	s.mu.Lock()
	err = c.WriteMessage(websocket.TextMessage, []byte("bound "+s.SubscriptionID))
	if err == nil {
		s.conns[c] = struct{}{}
		s.binds++
	}
	s.mu.Unlock()
	if err != nil {
		return
	}
	select {
	case s.bound <- struct{}{}:
	default:
	}

	// hold the connection until the client goes away
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}
