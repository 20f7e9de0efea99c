// Package web serves the local form UI: a single page that submits a run
// and watches its progress over a WebSocket.
package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/process"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/internal/logging"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/internal/pagerange"
)

//go:embed index.html
var indexHTML []byte

// RunRequest is the JSON body of POST /api/run.
type RunRequest struct {
	PDF           string `json:"pdf"`
	Book          string `json:"book"`
	Database      string `json:"database"`
	XFDF          string `json:"xfdf,omitempty"`
	Output        string `json:"output,omitempty"`
	NoFuzzy       bool   `json:"no_fuzzy,omitempty"`
	Threshold     int    `json:"threshold,omitempty"`
	MaxCandidates int    `json:"max_candidates,omitempty"`
	Pages         string `json:"pages,omitempty"`
}

// Server is the local web UI. One run may be in flight at a time.
type Server struct {
	addr string
	hub  *Hub
	mux  *http.ServeMux

	mu      sync.Mutex
	running bool
}

// NewServer builds the server for addr.
func NewServer(addr string) *Server {
	s := &Server{
		addr: addr,
		hub:  NewHub(),
		mux:  http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /", s.handleIndex)
	s.mux.HandleFunc("POST /api/run", s.handleRun)
	s.mux.HandleFunc("GET /ws", s.hub.ServeWS)
	return s
}

// ListenAndServe starts the hub and serves until the listener fails.
func (s *Server) ListenAndServe() error {
	go s.hub.Run()
	logging.Info("web form listening", "addr", s.addr)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler returns the server's HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.PDF == "" {
		http.Error(w, "pdf is required", http.StatusBadRequest)
		return
	}
	if req.XFDF == "" && (req.Database == "" || req.Book == "") {
		http.Error(w, "database and book are required", http.StatusBadRequest)
		return
	}

	var pages *pagerange.Set
	if req.Pages != "" {
		var err error
		pages, err = pagerange.Parse(req.Pages)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		http.Error(w, "a run is already in progress", http.StatusConflict)
		return
	}
	s.running = true
	s.mu.Unlock()

	cfg := process.JobConfig{
		PDFPath:       req.PDF,
		Book:          req.Book,
		DBPath:        req.Database,
		XFDFPath:      req.XFDF,
		OutputPath:    req.Output,
		Fuzzy:         !req.NoFuzzy,
		Threshold:     req.Threshold,
		MaxCandidates: req.MaxCandidates,
		Pages:         pages,
		OnProgress: func(p process.Progress) {
			s.hub.Broadcast(ProgressMessage{
				Type:    "progress",
				Index:   p.Index,
				Total:   p.Total,
				Message: p.Message,
			})
		},
	}

	go s.run(cfg)

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "started"})
}

// run executes the job off the request goroutine, pushing the outcome to
// connected clients.
func (s *Server) run(cfg process.JobConfig) {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	report, err := process.RunJob(context.Background(), cfg)
	if err != nil {
		logging.Error("run failed", "error", err.Error())
		s.hub.Broadcast(ProgressMessage{
			Type:    "error",
			Message: err.Error(),
			Report:  report,
		})
		return
	}

	s.hub.Broadcast(ProgressMessage{
		Type:    "complete",
		Message: report.Summary(),
		Report:  report,
	})
}
