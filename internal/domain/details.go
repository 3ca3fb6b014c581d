package domain

import "strings"

// Details carries the structured parameters of an intent. Each intent has
// its own variant so handlers receive typed fields instead of a loose map.
type Details interface {
	isDetails()
}

type NoDetails struct{}

type CreateTaskDetails struct {
	What     string `json:"what"`
	Priority string `json:"priority,omitempty"`
	Category string `json:"category,omitempty"`
	DueText  string `json:"due_date,omitempty"`
}

type UpdateTaskDetails struct {
	TaskID    string `json:"task_id"`
	What      string `json:"what,omitempty"`
	Priority  string `json:"priority,omitempty"`
	Category  string `json:"category,omitempty"`
	Completed *bool  `json:"completed,omitempty"`
	DueText   string `json:"due_date,omitempty"`
}

type CompleteTaskDetails struct {
	TaskID string `json:"task_id"`
}

type DeleteTaskDetails struct {
	TaskID string `json:"task_id"`
}

type CreateProjectDetails struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

type UpdateProjectDetails struct {
	ProjectID   string `json:"project_id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Completed   *bool  `json:"completed,omitempty"`
}

type CompleteProjectDetails struct {
	ProjectID string `json:"project_id"`
}

type DeleteProjectDetails struct {
	ProjectID string `json:"project_id"`
}

type CreateReminderDetails struct {
	What     string `json:"what"`
	WhenText string `json:"when,omitempty"`
}

func (NoDetails) isDetails()              {}
func (CreateTaskDetails) isDetails()      {}
func (UpdateTaskDetails) isDetails()      {}
func (CompleteTaskDetails) isDetails()    {}
func (DeleteTaskDetails) isDetails()      {}
func (CreateProjectDetails) isDetails()   {}
func (UpdateProjectDetails) isDetails()   {}
func (CompleteProjectDetails) isDetails() {}
func (DeleteProjectDetails) isDetails()   {}
func (CreateReminderDetails) isDetails()  {}

// DecodeDetails converts the schemaless details map produced by the
// classifier into the typed variant for the given intent. Unknown keys are
// ignored; missing keys leave zero values so handlers can report what is
// absent (a missing task_id is a handler-level soft error, not a decode
// failure).
func DecodeDetails(intent Intent, raw map[string]any) Details {
	switch intent {
	case IntentCreateTask:
		return CreateTaskDetails{
			What:     getString(raw, "what", "title", "name"),
			Priority: getString(raw, "priority"),
			Category: getString(raw, "category"),
			DueText:  getString(raw, "due_date", "dueDate", "when"),
		}
	case IntentUpdateTask:
		return UpdateTaskDetails{
			TaskID:    getString(raw, "task_id", "taskId", "id"),
			What:      getString(raw, "what", "title"),
			Priority:  getString(raw, "priority"),
			Category:  getString(raw, "category"),
			Completed: getBool(raw, "completed"),
			DueText:   getString(raw, "due_date", "dueDate", "when"),
		}
	case IntentCompleteTask:
		return CompleteTaskDetails{TaskID: getString(raw, "task_id", "taskId", "id")}
	case IntentDeleteTask:
		return DeleteTaskDetails{TaskID: getString(raw, "task_id", "taskId", "id")}
	case IntentCreateProject:
		return CreateProjectDetails{
			Name:        getString(raw, "name", "what", "title"),
			Description: getString(raw, "description"),
			Category:    getString(raw, "category"),
		}
	case IntentUpdateProject:
		return UpdateProjectDetails{
			ProjectID:   getString(raw, "project_id", "projectId", "id"),
			Name:        getString(raw, "name", "title"),
			Description: getString(raw, "description"),
			Completed:   getBool(raw, "completed"),
		}
	case IntentCompleteProject:
		return CompleteProjectDetails{ProjectID: getString(raw, "project_id", "projectId", "id")}
	case IntentDeleteProject:
		return DeleteProjectDetails{ProjectID: getString(raw, "project_id", "projectId", "id")}
	case IntentCreateReminder:
		return CreateReminderDetails{
			What:     getString(raw, "what", "title", "summary"),
			WhenText: getString(raw, "when", "due_date", "date"),
		}
	default:
		return NoDetails{}
	}
}

func getString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if s, ok := v.(string); ok {
				if t := strings.TrimSpace(s); t != "" {
					return t
				}
			}
		}
	}
	return ""
}

func getBool(raw map[string]any, key string) *bool {
	if v, ok := raw[key]; ok {
		if b, ok := v.(bool); ok {
			return &b
		}
	}
	return nil
}
