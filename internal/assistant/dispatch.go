package assistant

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/LadiesMan0217/Projeto-Karen/internal/calendar"
	"github.com/LadiesMan0217/Projeto-Karen/internal/dates"
	"github.com/LadiesMan0217/Projeto-Karen/internal/domain"
	"github.com/LadiesMan0217/Projeto-Karen/internal/store"
)

const dateDisplayLayout = "02/01/2006 15:04"

// Dispatch routes a resolved intent to its effect handler and returns the
// user-facing response. Unmapped intents (general_chat included) pass the
// classifier's own response straight through. Handlers never propagate
// errors; every failure becomes a readable string.
func (a *Assistant) Dispatch(result domain.IntentResult, userID string) string {
	switch result.Intent {
	case domain.IntentCreateTask:
		return a.handleCreateTask(userID, result)
	case domain.IntentListTasks:
		return a.handleListTasks(userID)
	case domain.IntentUpdateTask:
		return a.handleUpdateTask(userID, result)
	case domain.IntentCompleteTask:
		return a.handleCompleteTask(userID, result)
	case domain.IntentDeleteTask:
		return a.handleDeleteTask(userID, result)
	case domain.IntentCreateProject:
		return a.handleCreateProject(userID, result)
	case domain.IntentListProjects:
		return a.handleListProjects(userID)
	case domain.IntentUpdateProject:
		return a.handleUpdateProject(userID, result)
	case domain.IntentCompleteProject:
		return a.handleCompleteProject(userID, result)
	case domain.IntentDeleteProject:
		return a.handleDeleteProject(userID, result)
	case domain.IntentCreateReminder:
		return a.handleCreateReminder(userID, result)
	case domain.IntentListReminders:
		return a.handleListReminders(userID)
	default:
		return result.Response
	}
}

func (a *Assistant) handleCreateTask(userID string, result domain.IntentResult) string {
	d, ok := result.Details.(domain.CreateTaskDetails)
	if !ok || strings.TrimSpace(d.What) == "" {
		return "Desculpe, não entendi qual tarefa devo criar. Pode repetir?"
	}

	task := domain.Task{
		UserID:   userID,
		What:     d.What,
		Priority: d.Priority,
		Category: d.Category,
	}
	if d.DueText != "" {
		due := dates.ParseRelative(d.DueText, a.now())
		task.DueDate = &due
	}

	created, err := a.store.CreateTask(task)
	if err != nil {
		a.logger.Error("create task failed", zap.Error(err))
		return "Tive um problema ao salvar sua tarefa. Pode tentar de novo?"
	}

	msg := fmt.Sprintf("Tarefa criada: %s (prioridade %s)", created.What, created.Priority)
	if created.DueDate != nil {
		msg += fmt.Sprintf(", para %s", created.DueDate.Format(dateDisplayLayout))
	}
	return msg + "."
}

func (a *Assistant) handleListTasks(userID string) string {
	pending := false
	tasks, err := a.store.ListTasks(userID, store.TaskFilter{Completed: &pending})
	if err != nil {
		a.logger.Error("list tasks failed", zap.Error(err))
		return "Não consegui buscar suas tarefas agora. Tente novamente em instantes."
	}
	if len(tasks) == 0 {
		return "Você não tem tarefas pendentes no momento."
	}

	var b strings.Builder
	b.WriteString("Suas tarefas pendentes:\n")
	for i, t := range tasks {
		fmt.Fprintf(&b, "%d. %s (prioridade %s)", i+1, t.What, t.Priority)
		if t.DueDate != nil {
			fmt.Fprintf(&b, " — para %s", t.DueDate.Format(dateDisplayLayout))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *Assistant) handleUpdateTask(userID string, result domain.IntentResult) string {
	d, ok := result.Details.(domain.UpdateTaskDetails)
	if !ok || strings.TrimSpace(d.TaskID) == "" {
		return "Não consegui identificar o ID da tarefa que devo atualizar. Pode me dizer qual é?"
	}

	upd := store.TaskUpdate{Completed: d.Completed}
	if d.What != "" {
		upd.What = &d.What
	}
	if d.Priority != "" {
		upd.Priority = &d.Priority
	}
	if d.Category != "" {
		upd.Category = &d.Category
	}
	if d.DueText != "" {
		due := dates.ParseRelative(d.DueText, a.now())
		upd.DueDate = &due
	}

	if _, err := a.store.UpdateTask(userID, d.TaskID, upd); err != nil {
		a.logger.Warn("update task failed", zap.String("taskId", d.TaskID), zap.Error(err))
		return fmt.Sprintf("Não encontrei a tarefa %s para atualizar.", d.TaskID)
	}
	return "Tarefa atualizada com sucesso."
}

func (a *Assistant) handleCompleteTask(userID string, result domain.IntentResult) string {
	d, ok := result.Details.(domain.CompleteTaskDetails)
	if !ok || strings.TrimSpace(d.TaskID) == "" {
		return "Não consegui identificar o ID da tarefa concluída. Pode me dizer qual é?"
	}

	done := true
	if _, err := a.store.UpdateTask(userID, d.TaskID, store.TaskUpdate{Completed: &done}); err != nil {
		a.logger.Warn("complete task failed", zap.String("taskId", d.TaskID), zap.Error(err))
		return fmt.Sprintf("Não encontrei a tarefa %s para concluir.", d.TaskID)
	}
	return "Tarefa concluída, bom trabalho!"
}

func (a *Assistant) handleDeleteTask(userID string, result domain.IntentResult) string {
	d, ok := result.Details.(domain.DeleteTaskDetails)
	if !ok || strings.TrimSpace(d.TaskID) == "" {
		return "Não consegui identificar o ID da tarefa que devo remover. Pode me dizer qual é?"
	}

	if err := a.store.DeleteTask(userID, d.TaskID); err != nil {
		a.logger.Warn("delete task failed", zap.String("taskId", d.TaskID), zap.Error(err))
		return fmt.Sprintf("Não encontrei a tarefa %s para remover.", d.TaskID)
	}
	return "Tarefa removida."
}

func (a *Assistant) handleCreateProject(userID string, result domain.IntentResult) string {
	d, ok := result.Details.(domain.CreateProjectDetails)
	if !ok || strings.TrimSpace(d.Name) == "" {
		return "Desculpe, não entendi qual projeto devo criar. Pode repetir?"
	}

	created, err := a.store.CreateProject(domain.Project{
		UserID:      userID,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
	})
	if err != nil {
		a.logger.Error("create project failed", zap.Error(err))
		return "Tive um problema ao salvar seu projeto. Pode tentar de novo?"
	}
	return fmt.Sprintf("Projeto criado: %s. Vamos nessa!", created.Name)
}

func (a *Assistant) handleListProjects(userID string) string {
	pending := false
	projects, err := a.store.ListProjects(userID, store.ProjectFilter{Completed: &pending})
	if err != nil {
		a.logger.Error("list projects failed", zap.Error(err))
		return "Não consegui buscar seus projetos agora. Tente novamente em instantes."
	}
	if len(projects) == 0 {
		return "Você não tem projetos em andamento no momento."
	}

	var b strings.Builder
	b.WriteString("Seus projetos em andamento:\n")
	for i, p := range projects {
		fmt.Fprintf(&b, "%d. %s", i+1, p.Name)
		if p.Description != "" {
			fmt.Fprintf(&b, " — %s", p.Description)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *Assistant) handleUpdateProject(userID string, result domain.IntentResult) string {
	d, ok := result.Details.(domain.UpdateProjectDetails)
	if !ok || strings.TrimSpace(d.ProjectID) == "" {
		return "Não consegui identificar o ID do projeto que devo atualizar. Pode me dizer qual é?"
	}

	upd := store.ProjectUpdate{Completed: d.Completed}
	if d.Name != "" {
		upd.Name = &d.Name
	}
	if d.Description != "" {
		upd.Description = &d.Description
	}

	if _, err := a.store.UpdateProject(userID, d.ProjectID, upd); err != nil {
		a.logger.Warn("update project failed", zap.String("projectId", d.ProjectID), zap.Error(err))
		return fmt.Sprintf("Não encontrei o projeto %s para atualizar.", d.ProjectID)
	}
	return "Projeto atualizado com sucesso."
}

func (a *Assistant) handleCompleteProject(userID string, result domain.IntentResult) string {
	d, ok := result.Details.(domain.CompleteProjectDetails)
	if !ok || strings.TrimSpace(d.ProjectID) == "" {
		return "Não consegui identificar o ID do projeto concluído. Pode me dizer qual é?"
	}

	done := true
	if _, err := a.store.UpdateProject(userID, d.ProjectID, store.ProjectUpdate{Completed: &done}); err != nil {
		a.logger.Warn("complete project failed", zap.String("projectId", d.ProjectID), zap.Error(err))
		return fmt.Sprintf("Não encontrei o projeto %s para concluir.", d.ProjectID)
	}
	return "Projeto concluído, parabéns!"
}

func (a *Assistant) handleDeleteProject(userID string, result domain.IntentResult) string {
	d, ok := result.Details.(domain.DeleteProjectDetails)
	if !ok || strings.TrimSpace(d.ProjectID) == "" {
		return "Não consegui identificar o ID do projeto que devo remover. Pode me dizer qual é?"
	}

	if err := a.store.DeleteProject(userID, d.ProjectID); err != nil {
		a.logger.Warn("delete project failed", zap.String("projectId", d.ProjectID), zap.Error(err))
		return fmt.Sprintf("Não encontrei o projeto %s para remover.", d.ProjectID)
	}
	return "Projeto removido."
}

func (a *Assistant) handleCreateReminder(userID string, result domain.IntentResult) string {
	d, ok := result.Details.(domain.CreateReminderDetails)
	if !ok || strings.TrimSpace(d.What) == "" {
		return "Desculpe, não entendi do que devo te lembrar. Pode repetir?"
	}

	when := dates.ParseRelative(d.WhenText, a.now())
	created, err := a.store.CreateReminder(domain.Reminder{
		UserID: userID,
		What:   d.What,
		When:   when,
	})
	if err != nil {
		a.logger.Error("create reminder failed", zap.Error(err))
		return "Tive um problema ao salvar seu lembrete. Pode tentar de novo?"
	}

	if a.calendar.Enabled() {
		_, err := a.calendar.InsertEvent(calendar.Event{
			Summary:         created.What,
			Description:     "Lembrete criado pela Karen",
			Start:           created.When,
			End:             created.When.Add(30 * time.Minute),
			Timezone:        a.loc.String(),
			ReminderMinutes: 10,
		})
		if err != nil {
			a.logger.Warn("calendar insert failed", zap.Error(err))
		}
	}

	return fmt.Sprintf("Lembrete criado para %s: %s.", created.When.Format(dateDisplayLayout), created.What)
}

func (a *Assistant) handleListReminders(userID string) string {
	reminders, err := a.store.ListReminders(userID, 0)
	if err != nil {
		a.logger.Error("list reminders failed", zap.Error(err))
		return "Não consegui buscar seus lembretes agora. Tente novamente em instantes."
	}
	if len(reminders) == 0 {
		return "Você não tem lembretes agendados no momento."
	}

	var b strings.Builder
	b.WriteString("Seus lembretes:\n")
	for i, r := range reminders {
		fmt.Fprintf(&b, "%d. %s — %s\n", i+1, r.When.Format(dateDisplayLayout), r.What)
	}
	return strings.TrimRight(b.String(), "\n")
}
