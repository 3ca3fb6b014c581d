package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/LadiesMan0217/Projeto-Karen/internal/domain"
)

// fakeGroq serves an OpenAI-shaped chat completion whose message content is
// the given payload.
func fakeGroq(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-test",
			"object": "chat.completion",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": payload},
					"finish_reason": "stop",
				},
			},
		})
	}))
}

func newTestClassifier(t *testing.T, srv *httptest.Server) *Classifier {
	t.Helper()
	c, err := New(Options{APIKey: "test-key", BaseURL: srv.URL}, zap.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := New(Options{}, zap.NewNop()); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestClassify_FlatShape(t *testing.T) {
	srv := fakeGroq(t, `{"intent":"create_task","details":{"what":"comprar pão","priority":"alta"},"response":"Anotado!"}`)
	defer srv.Close()

	got, err := newTestClassifier(t, srv).Classify(context.Background(), "preciso comprar pão", "")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if got.Intent != domain.IntentCreateTask {
		t.Errorf("Intent = %q, want create_task", got.Intent)
	}
	details, ok := got.Details.(domain.CreateTaskDetails)
	if !ok {
		t.Fatalf("Details = %T, want CreateTaskDetails", got.Details)
	}
	if details.What != "comprar pão" || details.Priority != "alta" {
		t.Errorf("Details = %+v", details)
	}
	if got.Response != "Anotado!" {
		t.Errorf("Response = %q", got.Response)
	}
}

func TestClassify_CommandShape(t *testing.T) {
	srv := fakeGroq(t, `{"command":{"intent":"complete_task","details":{"task_id":"abc-123"}},"responseText":"Feito!"}`)
	defer srv.Close()

	got, err := newTestClassifier(t, srv).Classify(context.Background(), "terminei a tarefa abc-123", "")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if got.Intent != domain.IntentCompleteTask {
		t.Errorf("Intent = %q, want complete_task", got.Intent)
	}
	if details := got.Details.(domain.CompleteTaskDetails); details.TaskID != "abc-123" {
		t.Errorf("TaskID = %q", details.TaskID)
	}
	if got.Response != "Feito!" {
		t.Errorf("Response = %q", got.Response)
	}
}

func TestClassify_MarkdownFences(t *testing.T) {
	srv := fakeGroq(t, "```json\n{\"intent\":\"list_tasks\",\"details\":{},\"response\":\"Aqui estão!\"}\n```")
	defer srv.Close()

	got, err := newTestClassifier(t, srv).Classify(context.Background(), "listar tarefas", "")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if got.Intent != domain.IntentListTasks {
		t.Errorf("Intent = %q, want list_tasks", got.Intent)
	}
}

func TestClassify_MemoryUpdate(t *testing.T) {
	srv := fakeGroq(t, `{"intent":"general_chat","details":{},"response":"Prazer, Ana!","memory_update":{"category":"nome","content":"O nome da usuária é Ana"}}`)
	defer srv.Close()

	got, err := newTestClassifier(t, srv).Classify(context.Background(), "meu nome é Ana", "")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if got.MemoryUpdate == nil {
		t.Fatal("MemoryUpdate missing")
	}
	if got.MemoryUpdate.Category != "nome" {
		t.Errorf("Category = %q", got.MemoryUpdate.Category)
	}
}

func TestClassify_MemoryUpdateNeedsBothFields(t *testing.T) {
	srv := fakeGroq(t, `{"intent":"general_chat","details":{},"response":"Olá!","memory_update":{"category":"nome","content":""}}`)
	defer srv.Close()

	got, err := newTestClassifier(t, srv).Classify(context.Background(), "oi", "")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if got.MemoryUpdate != nil {
		t.Error("half-empty memory_update should be dropped")
	}
}

func TestClassify_GarbageOutputIsClassificationError(t *testing.T) {
	srv := fakeGroq(t, "Claro! Vou criar essa tarefa para você.")
	defer srv.Close()

	_, err := newTestClassifier(t, srv).Classify(context.Background(), "qualquer coisa", "")
	var cerr *ClassificationError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want *ClassificationError", err)
	}
}

func TestClassify_UnknownIntentIsClassificationError(t *testing.T) {
	srv := fakeGroq(t, `{"intent":"launch_rocket","details":{},"response":"ok"}`)
	defer srv.Close()

	_, err := newTestClassifier(t, srv).Classify(context.Background(), "lançar foguete", "")
	var cerr *ClassificationError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want *ClassificationError", err)
	}
}

func TestClassify_ServiceDownIsClassificationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClassifier(t, srv).Classify(context.Background(), "oi", "")
	var cerr *ClassificationError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want *ClassificationError", err)
	}
}
