// Package store is the persistence collaborator: tasks, projects,
// reminders and chat history keyed by user, backed by sqlite.
package store

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/LadiesMan0217/Projeto-Karen/internal/domain"
)

//go:embed schema.sql
var schema string

const (
	DefaultPriority = "media"
	DefaultCategory = "geral"
)

// Store handles database operations.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and applies the schema.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ---- tasks ----

// CreateTask inserts a task, filling ID, defaults and timestamps.
func (s *Store) CreateTask(t domain.Task) (*domain.Task, error) {
	t.ID = uuid.New().String()
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Priority == "" {
		t.Priority = DefaultPriority
	}
	if t.Category == "" {
		t.Category = DefaultCategory
	}

	_, err := s.db.Exec(
		"INSERT INTO tasks (id, user_id, what, priority, category, completed, due_date, tags, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		t.ID, t.UserID, t.What, t.Priority, t.Category, t.Completed, t.DueDate, encodeTags(t.Tags), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return &t, nil
}

// GetTask retrieves one task scoped to a user.
func (s *Store) GetTask(userID, id string) (*domain.Task, error) {
	row := s.db.QueryRow(
		"SELECT id, user_id, what, priority, category, completed, due_date, tags, created_at, updated_at FROM tasks WHERE user_id = ? AND id = ?",
		userID, id,
	)
	return scanTask(row)
}

// TaskFilter narrows ListTasks with equality filters.
type TaskFilter struct {
	Completed *bool
	Category  string
	Limit     int
}

// ListTasks returns a user's tasks, newest first.
func (s *Store) ListTasks(userID string, f TaskFilter) ([]domain.Task, error) {
	query := "SELECT id, user_id, what, priority, category, completed, due_date, tags, created_at, updated_at FROM tasks WHERE user_id = ?"
	args := []any{userID}
	if f.Completed != nil {
		query += " AND completed = ?"
		args = append(args, *f.Completed)
	}
	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, f.Category)
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// TaskUpdate carries the fields to change; nil pointers are left untouched.
type TaskUpdate struct {
	What      *string
	Priority  *string
	Category  *string
	Completed *bool
	DueDate   *time.Time
	Tags      []string
}

// UpdateTask applies a partial update and returns the fresh row.
func (s *Store) UpdateTask(userID, id string, upd TaskUpdate) (*domain.Task, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now()}
	if upd.What != nil {
		sets = append(sets, "what = ?")
		args = append(args, *upd.What)
	}
	if upd.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *upd.Priority)
	}
	if upd.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *upd.Category)
	}
	if upd.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *upd.Completed)
	}
	if upd.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, *upd.DueDate)
	}
	if upd.Tags != nil {
		sets = append(sets, "tags = ?")
		args = append(args, encodeTags(upd.Tags))
	}
	args = append(args, userID, id)

	res, err := s.db.Exec("UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE user_id = ? AND id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("task not found: %s", id)
	}
	return s.GetTask(userID, id)
}

// DeleteTask removes a task scoped to a user.
func (s *Store) DeleteTask(userID, id string) error {
	res, err := s.db.Exec("DELETE FROM tasks WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task not found: %s", id)
	}
	return nil
}

// ---- projects ----

func (s *Store) CreateProject(p domain.Project) (*domain.Project, error) {
	p.ID = uuid.New().String()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Category == "" {
		p.Category = DefaultCategory
	}

	_, err := s.db.Exec(
		"INSERT INTO projects (id, user_id, name, description, category, completed, tags, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.UserID, p.Name, p.Description, p.Category, p.Completed, encodeTags(p.Tags), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return &p, nil
}

func (s *Store) GetProject(userID, id string) (*domain.Project, error) {
	row := s.db.QueryRow(
		"SELECT id, user_id, name, description, category, completed, tags, created_at, updated_at FROM projects WHERE user_id = ? AND id = ?",
		userID, id,
	)
	return scanProject(row)
}

// ProjectFilter narrows ListProjects with equality filters.
type ProjectFilter struct {
	Completed *bool
	Category  string
	Limit     int
}

func (s *Store) ListProjects(userID string, f ProjectFilter) ([]domain.Project, error) {
	query := "SELECT id, user_id, name, description, category, completed, tags, created_at, updated_at FROM projects WHERE user_id = ?"
	args := []any{userID}
	if f.Completed != nil {
		query += " AND completed = ?"
		args = append(args, *f.Completed)
	}
	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, f.Category)
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// ProjectUpdate carries the fields to change; nil pointers are left untouched.
type ProjectUpdate struct {
	Name        *string
	Description *string
	Category    *string
	Completed   *bool
	Tags        []string
}

func (s *Store) UpdateProject(userID, id string, upd ProjectUpdate) (*domain.Project, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now()}
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *upd.Category)
	}
	if upd.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *upd.Completed)
	}
	if upd.Tags != nil {
		sets = append(sets, "tags = ?")
		args = append(args, encodeTags(upd.Tags))
	}
	args = append(args, userID, id)

	res, err := s.db.Exec("UPDATE projects SET "+strings.Join(sets, ", ")+" WHERE user_id = ? AND id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("project not found: %s", id)
	}
	return s.GetProject(userID, id)
}

func (s *Store) DeleteProject(userID, id string) error {
	res, err := s.db.Exec("DELETE FROM projects WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("project not found: %s", id)
	}
	return nil
}

// ---- reminders ----

func (s *Store) CreateReminder(r domain.Reminder) (*domain.Reminder, error) {
	r.ID = uuid.New().String()
	r.CreatedAt = time.Now()

	_, err := s.db.Exec(
		"INSERT INTO reminders (id, user_id, what, when_at, created_at) VALUES (?, ?, ?, ?, ?)",
		r.ID, r.UserID, r.What, r.When, r.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reminder: %w", err)
	}
	return &r, nil
}

// ListReminders returns a user's reminders in chronological order.
func (s *Store) ListReminders(userID string, limit int) ([]domain.Reminder, error) {
	query := "SELECT id, user_id, what, when_at, created_at FROM reminders WHERE user_id = ? ORDER BY when_at ASC"
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []domain.Reminder
	for rows.Next() {
		var r domain.Reminder
		if err := rows.Scan(&r.ID, &r.UserID, &r.What, &r.When, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

func (s *Store) DeleteReminder(userID, id string) error {
	res, err := s.db.Exec("DELETE FROM reminders WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("reminder not found: %s", id)
	}
	return nil
}

// ---- chat history ----

// AddChatMessage appends one exchange to the user's history. IDs are ULIDs
// so lexical order follows time order.
func (s *Store) AddChatMessage(userID, userMessage, karenResponse string) (*domain.ChatMessage, error) {
	m := domain.ChatMessage{
		ID:            ulid.Make().String(),
		UserID:        userID,
		UserMessage:   userMessage,
		KarenResponse: karenResponse,
		Timestamp:     time.Now(),
	}

	_, err := s.db.Exec(
		"INSERT INTO chat_messages (id, user_id, user_message, karen_response, timestamp) VALUES (?, ?, ?, ?, ?)",
		m.ID, m.UserID, m.UserMessage, m.KarenResponse, m.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert chat message: %w", err)
	}
	return &m, nil
}

// ListChatHistory returns a user's exchanges in chronological order.
func (s *Store) ListChatHistory(userID string, limit int) ([]domain.ChatMessage, error) {
	query := "SELECT id, user_id, user_message, karen_response, timestamp FROM chat_messages WHERE user_id = ? ORDER BY timestamp ASC"
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list chat history: %w", err)
	}
	defer rows.Close()

	var history []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.UserMessage, &m.KarenResponse, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		history = append(history, m)
	}
	return history, rows.Err()
}

// ClearChatHistory deletes a user's history and reports how many messages
// were removed.
func (s *Store) ClearChatHistory(userID string) (int64, error) {
	res, err := s.db.Exec("DELETE FROM chat_messages WHERE user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("clear chat history: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ---- helpers ----

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var due sql.NullTime
	var tags string
	if err := row.Scan(&t.ID, &t.UserID, &t.What, &t.Priority, &t.Category, &t.Completed, &due, &tags, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task not found")
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	if due.Valid {
		t.DueDate = &due.Time
	}
	t.Tags = decodeTags(tags)
	return &t, nil
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var tags string
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Category, &p.Completed, &tags, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project not found")
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}
	p.Tags = decodeTags(tags)
	return &p, nil
}

func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeTags(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil
	}
	return tags
}
