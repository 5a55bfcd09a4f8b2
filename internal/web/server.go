// Package web serves the interactive prediction form, the JSON API, and the
// WebSocket stream of served predictions.
package web

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"co2-predictor/internal/predict"
	"co2-predictor/internal/storage"
)

// ServerMetrics defines the metrics methods the web layer needs.
type ServerMetrics interface {
	RequestErrorInc()
	HistoryWriteInc()
}

// Server hosts the browser UI and JSON API on a single port. The predictor it
// wraps is immutable, so handlers run concurrently without locking; only the
// WebSocket client set needs synchronization.
type Server struct {
	predictor   *predict.Predictor
	store       *storage.Store // nil when persistence is disabled
	metrics     ServerMetrics  // nil when metrics are disabled
	historySize int

	server   *http.Server
	tmpl     *template.Template
	upgrader websocket.Upgrader

	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex
}

// New creates the web server. store may be nil to disable the history panel
// and endpoint; metrics may be nil.
func New(predictor *predict.Predictor, store *storage.Store, metrics ServerMetrics, port int, timeout time.Duration, historySize int) *Server {
	s := &Server{
		predictor:   predictor,
		store:       store,
		metrics:     metrics,
		historySize: historySize,
		tmpl:        template.Must(template.New("page").Parse(pageTemplate)),
		upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:     make(map[*websocket.Conn]bool),
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods("GET")
	r.HandleFunc("/predict", s.handlePredictForm).Methods("POST")
	r.HandleFunc("/api/v1/predict", s.handleAPIPredict).Methods("POST")
	r.HandleFunc("/api/v1/history", s.handleHistory).Methods("GET")
	r.HandleFunc("/api/v1/model", s.handleModelInfo).Methods("GET")
	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	r.HandleFunc("/ws", s.handleWebSocket).Methods("GET")
	r.Use(s.logRequests)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
		IdleTimeout:       120 * time.Second,
	}

	return s
}

// Start begins serving HTTP requests and blocks until the server stops.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("starting web server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and closes all WebSocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.clientsMu.Lock()
	for client := range s.clients {
		client.Close()
	}
	s.clients = make(map[*websocket.Conn]bool)
	s.clientsMu.Unlock()

	return s.server.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request served")
	})
}
