package domain

import "time"

// Intent is the normalized classification of an utterance's purpose.
type Intent string

const (
	IntentCreateTask      Intent = "create_task"
	IntentListTasks       Intent = "list_tasks"
	IntentUpdateTask      Intent = "update_task"
	IntentCompleteTask    Intent = "complete_task"
	IntentDeleteTask      Intent = "delete_task"
	IntentCreateProject   Intent = "create_project"
	IntentListProjects    Intent = "list_projects"
	IntentUpdateProject   Intent = "update_project"
	IntentCompleteProject Intent = "complete_project"
	IntentDeleteProject   Intent = "delete_project"
	IntentCreateReminder  Intent = "create_reminder"
	IntentListReminders   Intent = "list_reminders"
	IntentGeneralChat     Intent = "general_chat"
)

// KnownIntent reports whether s is one of the enumerated intents.
func KnownIntent(s string) bool {
	switch Intent(s) {
	case IntentCreateTask, IntentListTasks, IntentUpdateTask, IntentCompleteTask, IntentDeleteTask,
		IntentCreateProject, IntentListProjects, IntentUpdateProject, IntentCompleteProject, IntentDeleteProject,
		IntentCreateReminder, IntentListReminders, IntentGeneralChat:
		return true
	}
	return false
}

// MemoryUpdate is a fact the classifier asked to persist.
type MemoryUpdate struct {
	Category string `json:"category"`
	Content  string `json:"content"`
}

// IntentResult is the normalized output of classification. It is produced
// fresh per utterance and never mutated afterwards.
type IntentResult struct {
	Intent       Intent        `json:"intent"`
	Details      Details       `json:"details"`
	Response     string        `json:"response"`
	MemoryUpdate *MemoryUpdate `json:"memory_update,omitempty"`
}

// Task is the field shape owned by the persistence collaborator.
type Task struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	What      string     `json:"what"`
	Priority  string     `json:"priority"`
	Category  string     `json:"category"`
	Completed bool       `json:"completed"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type Project struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Completed   bool      `json:"completed"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Reminder struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	What      string    `json:"what"`
	When      time.Time `json:"when"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatMessage is one user/assistant exchange in the per-user history.
type ChatMessage struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	UserMessage   string    `json:"userMessage"`
	KarenResponse string    `json:"karenResponse"`
	Timestamp     time.Time `json:"timestamp"`
}

// MemoryEntry is an immutable, append-only categorized fact.
type MemoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
}
