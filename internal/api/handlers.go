package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LadiesMan0217/Projeto-Karen/internal/domain"
	"github.com/LadiesMan0217/Projeto-Karen/internal/store"
)

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var f store.TaskFilter
	if v := r.URL.Query().Get("completed"); v != "" {
		completed := v == "true"
		f.Completed = &completed
	}
	f.Category = r.URL.Query().Get("category")
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Limit = n
		}
	}

	tasks, err := s.store.ListTasks(userID, f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks, "count": len(tasks)})
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var t domain.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if strings.TrimSpace(t.UserID) == "" || strings.TrimSpace(t.What) == "" {
		writeError(w, http.StatusBadRequest, "os campos userId e what são obrigatórios")
		return
	}

	created, err := s.store.CreateTask(t)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type taskUpdateRequest struct {
	UserID    string      `json:"userId"`
	What      *string     `json:"what"`
	Priority  *string     `json:"priority"`
	Category  *string     `json:"category"`
	Completed *bool       `json:"completed"`
	DueDate   *time.Time `json:"dueDate"`
	Tags      []string   `json:"tags"`
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	var req taskUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "o campo userId é obrigatório")
		return
	}

	task, err := s.store.UpdateTask(req.UserID, r.PathValue("id"), store.TaskUpdate{
		What:      req.What,
		Priority:  req.Priority,
		Category:  req.Category,
		Completed: req.Completed,
		DueDate:   req.DueDate,
		Tags:      req.Tags,
	})
	if err != nil {
		notFoundOr500(w, err, "tarefa")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteTask(userID, r.PathValue("id")); err != nil {
		notFoundOr500(w, err, "tarefa")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "tarefa removida"})
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var f store.ProjectFilter
	if v := r.URL.Query().Get("completed"); v != "" {
		completed := v == "true"
		f.Completed = &completed
	}
	f.Category = r.URL.Query().Get("category")

	projects, err := s.store.ListProjects(userID, f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects, "count": len(projects)})
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var p domain.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if strings.TrimSpace(p.UserID) == "" || strings.TrimSpace(p.Name) == "" {
		writeError(w, http.StatusBadRequest, "os campos userId e name são obrigatórios")
		return
	}

	created, err := s.store.CreateProject(p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type projectUpdateRequest struct {
	UserID      string   `json:"userId"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Completed   *bool    `json:"completed"`
	Tags        []string `json:"tags"`
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	var req projectUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "o campo userId é obrigatório")
		return
	}

	project, err := s.store.UpdateProject(req.UserID, r.PathValue("id"), store.ProjectUpdate{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Completed:   req.Completed,
		Tags:        req.Tags,
	})
	if err != nil {
		notFoundOr500(w, err, "projeto")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteProject(userID, r.PathValue("id")); err != nil {
		notFoundOr500(w, err, "projeto")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "projeto removido"})
}

func (s *Server) listReminders(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	reminders, err := s.store.ListReminders(userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reminders": reminders, "count": len(reminders)})
}

func (s *Server) createReminder(w http.ResponseWriter, r *http.Request) {
	var rem domain.Reminder
	if err := json.NewDecoder(r.Body).Decode(&rem); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if strings.TrimSpace(rem.UserID) == "" || strings.TrimSpace(rem.What) == "" || rem.When.IsZero() {
		writeError(w, http.StatusBadRequest, "os campos userId, what e when são obrigatórios")
		return
	}

	created, err := s.store.CreateReminder(rem)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) deleteReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteReminder(userID, r.PathValue("id")); err != nil {
		notFoundOr500(w, err, "lembrete")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "lembrete removido"})
}

func (s *Server) chatHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	messages, err := s.store.ListChatHistory(userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": messages, "count": len(messages)})
}

func (s *Server) clearChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	n, err := s.store.ClearChatHistory(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("%d mensagens removidas", n),
	})
}
