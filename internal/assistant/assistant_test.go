package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LadiesMan0217/Projeto-Karen/internal/calendar"
	"github.com/LadiesMan0217/Projeto-Karen/internal/classifier"
	"github.com/LadiesMan0217/Projeto-Karen/internal/domain"
	"github.com/LadiesMan0217/Projeto-Karen/internal/intent"
	"github.com/LadiesMan0217/Projeto-Karen/internal/memory"
	"github.com/LadiesMan0217/Projeto-Karen/internal/store"
)

func newTestAssistant(t *testing.T, svc Services) *Assistant {
	t.Helper()
	dir := t.TempDir()

	if svc.Store == nil {
		s, err := store.New(filepath.Join(dir, "karen.db"))
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		svc.Store = s
	}
	if svc.Memory == nil {
		svc.Memory = memory.NewLog(filepath.Join(dir, "karen_memory.txt"), zap.NewNop())
	}

	a := New(svc)
	a.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	return a
}

// groqStub answers every chat completion with the given message content.
func groqStub(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-test",
			"object": "chat.completion",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"},
			},
		})
	}))
}

func stubClassifier(t *testing.T, srv *httptest.Server) *classifier.Classifier {
	t.Helper()
	c, err := classifier.New(classifier.Options{APIKey: "test", BaseURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestProcess_CreateTaskWithoutPrimaryClassifier(t *testing.T) {
	a := newTestAssistant(t, Services{})

	got := a.Process(context.Background(), "u1", "preciso fazer relatório")

	assert.Equal(t, domain.IntentCreateTask, got.Intent)
	details, ok := got.Details.(domain.CreateTaskDetails)
	require.True(t, ok, "Details = %T", got.Details)
	assert.Contains(t, details.What, "relatório")
	assert.NotEmpty(t, got.ResponseText)
	assert.Empty(t, got.AudioURL, "audio must be disabled without a token")

	// The side effect actually happened.
	tasks, err := a.store.ListTasks("u1", store.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Contains(t, tasks[0].What, "relatório")

	// And the exchange landed in the chat history.
	history, err := a.store.ListChatHistory("u1", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "preciso fazer relatório", history[0].UserMessage)
}

func TestProcess_DelegationEquivalenceOnGarbageOutput(t *testing.T) {
	srv := groqStub(t, "claro, vou te ajudar com isso!")
	defer srv.Close()

	a := newTestAssistant(t, Services{Classifier: stubClassifier(t, srv)})

	const text = "qual é a capital da França?"
	got := a.Process(context.Background(), "u1", text)
	want := intent.Fallback(text)

	assert.Equal(t, want.Intent, got.Intent)
	assert.Equal(t, want.Details, got.Details)
	assert.Equal(t, want.Response, got.ResponseText)
}

func TestProcess_MemoryUpdatePersistedBeforeDispatch(t *testing.T) {
	srv := groqStub(t, `{"intent":"general_chat","details":{},"response":"Prazer, Ana!","memory_update":{"category":"nome","content":"A usuária se chama Ana"}}`)
	defer srv.Close()

	a := newTestAssistant(t, Services{Classifier: stubClassifier(t, srv)})

	got := a.Process(context.Background(), "u1", "meu nome é Ana")
	assert.Equal(t, "Prazer, Ana!", got.ResponseText)

	ctx := a.memory.ReadContext(10)
	assert.Contains(t, ctx, "NOME")
	assert.Contains(t, ctx, "Ana")
}

func TestProcess_GeneralChatPassesResponseThrough(t *testing.T) {
	srv := groqStub(t, `{"intent":"general_chat","details":{},"response":"Tudo ótimo por aqui!"}`)
	defer srv.Close()

	a := newTestAssistant(t, Services{Classifier: stubClassifier(t, srv)})

	got := a.Process(context.Background(), "u1", "tudo bem?")
	assert.Equal(t, domain.IntentGeneralChat, got.Intent)
	assert.Equal(t, "Tudo ótimo por aqui!", got.ResponseText)
}

func TestProcess_ReminderInsertsCalendarEvent(t *testing.T) {
	var inserted calendar.Event
	calSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&inserted))
		inserted.ID = "ev-1"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(inserted)
	}))
	defer calSrv.Close()

	a := newTestAssistant(t, Services{Calendar: calendar.New(calSrv.URL, "token")})

	got := a.Process(context.Background(), "u1", "me lembre de pagar a conta amanhã às 10h")
	assert.Equal(t, domain.IntentCreateReminder, got.Intent)
	assert.Contains(t, got.ResponseText, "02/01/2024 10:00")

	assert.Contains(t, inserted.Summary, "pagar a conta")
	assert.Equal(t, time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), inserted.Start.UTC())

	reminders, err := a.store.ListReminders("u1", 0)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
}
