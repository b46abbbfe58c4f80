// Package http provides the HTTP server infrastructure.
// Framework/driver layer - an optional JSON API over the same ask pipeline
// the chat loop uses.
package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/shelfrag/bookrag/internal/domain/entities"
	"github.com/shelfrag/bookrag/internal/domain/ports"
)

// Asker is the server-facing subset of the application core.
type Asker interface {
	Ask(ctx context.Context, question string) (*entities.ChatResponse, error)
}

// Server exposes the book Q&A pipeline over HTTP.
type Server struct {
	asker Asker
	store ports.VectorStore
	addr  string
}

// NewServer creates a new HTTP server.
func NewServer(asker Asker, store ports.VectorStore, addr string) *Server {
	if addr == "" {
		addr = ":8080"
	}
	return &Server{asker: asker, store: store, addr: addr}
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ask", s.handleAsk)
	mux.HandleFunc("/api/health", s.handleHealth)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", s.addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	resp, err := s.asker.Ask(r.Context(), req.Question)
	if err != nil {
		log.Printf("ask failed: %v", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	documents := 0
	if n, err := s.store.Count(r.Context()); err == nil {
		documents = n
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"documents": documents,
	})
}
