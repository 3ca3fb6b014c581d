package intent

import (
	"fmt"
	"strings"

	"github.com/LadiesMan0217/Projeto-Karen/internal/domain"
)

var responses = map[domain.Intent]string{
	domain.IntentListTasks:       "Claro! Aqui estão suas tarefas.",
	domain.IntentListProjects:    "Claro! Aqui estão seus projetos.",
	domain.IntentListReminders:   "Claro! Aqui estão seus lembretes.",
	domain.IntentCompleteTask:    "Ótimo trabalho! Vou marcar a tarefa como concluída.",
	domain.IntentCompleteProject: "Parabéns! Vou marcar o projeto como concluído.",
	domain.IntentUpdateTask:      "Certo, vou atualizar a tarefa.",
	domain.IntentUpdateProject:   "Certo, vou atualizar o projeto.",
	domain.IntentDeleteTask:      "Entendido, vou remover a tarefa.",
	domain.IntentDeleteProject:   "Entendido, vou remover o projeto.",
	domain.IntentCreateTask:      "Anotado! Criei a tarefa: %s",
	domain.IntentCreateProject:   "Ótimo! Iniciei o projeto: %s",
	domain.IntentCreateReminder:  "Perfeito! Vou te lembrar de: %s",
}

// Fallback maps free text to an intent using the ordered rule table. It
// never fails: anything unrecognized becomes general_chat with the original
// text echoed back in the response.
func Fallback(text string) domain.IntentResult {
	lower := strings.ToLower(text)

	for _, rule := range rules {
		trigger, ok := match(lower, rule)
		if !ok {
			continue
		}
		if rule.Strip {
			what := stripTrigger(text, lower, trigger)
			return creationResult(rule.Intent, what, text)
		}
		return domain.IntentResult{
			Intent:   rule.Intent,
			Details:  emptyDetails(rule.Intent),
			Response: responses[rule.Intent],
		}
	}

	return domain.IntentResult{
		Intent:   domain.IntentGeneralChat,
		Details:  domain.NoDetails{},
		Response: fmt.Sprintf("Desculpe, não entendi muito bem. Você disse: \"%s\". Pode reformular?", text),
	}
}

func match(lower string, rule Rule) (string, bool) {
	for _, req := range rule.Requires {
		if !strings.Contains(lower, req) {
			return "", false
		}
	}
	for _, trigger := range rule.Triggers {
		if strings.Contains(lower, trigger) {
			return trigger, true
		}
	}
	return "", false
}

// stripTrigger removes the matched trigger phrase from the original text to
// derive the "what" of a creation intent. An empty remainder falls back to
// the full original text.
func stripTrigger(text, lower, trigger string) string {
	idx := strings.Index(lower, trigger)
	if idx < 0 {
		return strings.TrimSpace(text)
	}
	rest := text[:idx] + text[idx+len(trigger):]
	rest = strings.Trim(rest, " \t\n:,.-")
	if rest == "" {
		return strings.TrimSpace(text)
	}
	return rest
}

func creationResult(it domain.Intent, what, original string) domain.IntentResult {
	var details domain.Details
	switch it {
	case domain.IntentCreateTask:
		details = domain.CreateTaskDetails{What: what}
	case domain.IntentCreateProject:
		details = domain.CreateProjectDetails{Name: what}
	case domain.IntentCreateReminder:
		// The raw utterance keeps any temporal expression for the date parser.
		details = domain.CreateReminderDetails{What: what, WhenText: original}
	default:
		details = domain.NoDetails{}
	}
	return domain.IntentResult{
		Intent:   it,
		Details:  details,
		Response: fmt.Sprintf(responses[it], what),
	}
}

func emptyDetails(it domain.Intent) domain.Details {
	switch it {
	case domain.IntentUpdateTask:
		return domain.UpdateTaskDetails{}
	case domain.IntentCompleteTask:
		return domain.CompleteTaskDetails{}
	case domain.IntentDeleteTask:
		return domain.DeleteTaskDetails{}
	case domain.IntentUpdateProject:
		return domain.UpdateProjectDetails{}
	case domain.IntentCompleteProject:
		return domain.CompleteProjectDetails{}
	case domain.IntentDeleteProject:
		return domain.DeleteProjectDetails{}
	default:
		return domain.NoDetails{}
	}
}
