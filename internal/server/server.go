// Package server exposes citation generation as a single HTTP endpoint.
// Each request gets a fresh data source and resolver; no walker or cursor
// state is shared between requests.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/citeworks/ghcite/internal/github"
)

// GenerateFunc produces the XML document for one repository. The token
// comes from the request body and applies to that request only.
type GenerateFunc func(ctx context.Context, owner, project, token string) (string, error)

// Server handles POST /generate.
type Server struct {
	generate GenerateFunc
}

// New creates a server around the given generator.
func New(generate GenerateFunc) *Server {
	return &Server{generate: generate}
}

// Handler returns the routed handler with permissive CORS.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("OPTIONS /generate", func(w http.ResponseWriter, r *http.Request) {
		writeCORS(w)
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

// ListenAndServe blocks serving the handler on the given port.
func (s *Server) ListenAndServe(port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

type generateRequest struct {
	Owner    string `json:"owner"`
	Project  string `json:"project"`
	APIToken string `json:"apiToken"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		http.Error(w, "Request must be JSON", http.StatusUnsupportedMediaType)
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Request must be JSON", http.StatusUnsupportedMediaType)
		return
	}

	doc, err := s.generate(r.Context(), req.Owner, req.Project, req.APIToken)
	if err != nil {
		var upstream *github.UpstreamError
		if errors.As(err, &upstream) {
			http.Error(w, upstream.Message, upstream.StatusCode)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusCreated)
	fmt.Fprint(w, doc)
}

func writeCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
}
