// Package api exposes the HTTP surface: the interact endpoint, REST CRUD
// for tasks/projects/reminders, chat history and liveness.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/LadiesMan0217/Projeto-Karen/internal/assistant"
	"github.com/LadiesMan0217/Projeto-Karen/internal/store"
)

const version = "1.0.0"

// ServiceStatus reports which collaborators came up at boot; it is exposed
// verbatim by the health endpoint.
type ServiceStatus struct {
	Groq        bool `json:"groq"`
	Database    bool `json:"database"`
	HuggingFace bool `json:"huggingface"`
	Calendar    bool `json:"calendar"`
}

// Server handles HTTP requests for the assistant API.
type Server struct {
	assistant *assistant.Assistant
	store     *store.Store
	status    ServiceStatus
	apiToken  string
	addr      string
	logger    *zap.Logger
}

// New creates a new API server. An empty apiToken leaves the API open
// (development mode).
func New(a *assistant.Assistant, s *store.Store, status ServiceStatus, apiToken, addr string, logger *zap.Logger) *Server {
	return &Server{
		assistant: a,
		store:     s,
		status:    status,
		apiToken:  apiToken,
		addr:      addr,
		logger:    logger,
	}
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	s.logger.Info("starting server", zap.String("addr", s.addr))
	return http.ListenAndServe(s.addr, s.Handler())
}

// Handler builds the full route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/interact", s.requireAuth(s.interact))

	mux.HandleFunc("GET /api/tasks", s.requireAuth(s.listTasks))
	mux.HandleFunc("POST /api/tasks", s.requireAuth(s.createTask))
	mux.HandleFunc("PUT /api/tasks/{id}", s.requireAuth(s.updateTask))
	mux.HandleFunc("DELETE /api/tasks/{id}", s.requireAuth(s.deleteTask))

	mux.HandleFunc("GET /api/projects", s.requireAuth(s.listProjects))
	mux.HandleFunc("POST /api/projects", s.requireAuth(s.createProject))
	mux.HandleFunc("PUT /api/projects/{id}", s.requireAuth(s.updateProject))
	mux.HandleFunc("DELETE /api/projects/{id}", s.requireAuth(s.deleteProject))

	mux.HandleFunc("GET /api/reminders", s.requireAuth(s.listReminders))
	mux.HandleFunc("POST /api/reminders", s.requireAuth(s.createReminder))
	mux.HandleFunc("DELETE /api/reminders/{id}", s.requireAuth(s.deleteReminder))

	mux.HandleFunc("GET /api/chat-history", s.requireAuth(s.chatHistory))
	mux.HandleFunc("DELETE /api/chat-history", s.requireAuth(s.clearChat))

	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("GET /{$}", s.root)

	return s.withRecover(withCORS(mux))
}

// withCORS adds CORS headers for the web frontend.
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

// withRecover is the outermost boundary: an unexpected panic in a handler
// becomes a generic 500 JSON error, never a stack trace to the caller.
func (s *Server) withRecover(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("handler panic", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				writeError(w, http.StatusInternalServerError, "Erro interno do servidor")
			}
		}()
		h.ServeHTTP(w, r)
	})
}

// requireAuth enforces the static bearer token when one is configured.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiToken != "" {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.apiToken {
				writeError(w, http.StatusUnauthorized, "Token inválido")
				return
			}
		}
		next(w, r)
	}
}

type interactRequest struct {
	Text   string `json:"text"`
	UserID string `json:"userId"`
}

func (s *Server) interact(w http.ResponseWriter, r *http.Request) {
	var req interactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "o campo text é obrigatório")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "o campo userId é obrigatório")
		return
	}

	s.logger.Info("interaction",
		zap.String("userId", req.UserID),
		zap.Int("textLen", len(req.Text)))

	result := s.assistant.Process(r.Context(), req.UserID, req.Text)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"services":  s.status,
	})
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Karen Backend API está rodando!",
		"version":   version,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// requireUserID pulls the mandatory userId query parameter.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "o parâmetro userId é obrigatório")
		return "", false
	}
	return userID, true
}

func notFoundOr500(w http.ResponseWriter, err error, entity string) {
	if strings.Contains(err.Error(), "not found") {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s não encontrado", entity))
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
