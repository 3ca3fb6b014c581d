package memory

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/LadiesMan0217/Projeto-Karen/internal/domain"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()
	return NewLog(filepath.Join(t.TempDir(), "karen_memory.txt"), zap.NewNop())
}

func TestWriteEntryThenReadContext(t *testing.T) {
	l := newTestLog(t)

	if err := l.WriteEntry("nome", "O usuário se chama Vinícius"); err != nil {
		t.Fatalf("WriteEntry failed: %v", err)
	}

	ctx := l.ReadContext(10)
	if !strings.Contains(ctx, "NOME") {
		t.Errorf("context %q should contain the category", ctx)
	}
	if !strings.Contains(ctx, "Vinícius") {
		t.Errorf("context %q should contain the content", ctx)
	}
	if !strings.Contains(ctx, contextHeader) || !strings.Contains(ctx, contextFooter) {
		t.Errorf("context %q missing framing text", ctx)
	}
}

func TestReadContext_EmptyLogHasNoFraming(t *testing.T) {
	l := newTestLog(t)
	if got := l.ReadContext(10); got != "" {
		t.Errorf("ReadContext on missing log = %q, want empty", got)
	}

	// A file holding only junk lines is also an empty context.
	if err := os.WriteFile(l.Path(), []byte("not a memory line\n\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := l.ReadContext(10); got != "" {
		t.Errorf("ReadContext over junk lines = %q, want empty", got)
	}
}

func TestReadContext_KeepsMostRecentN(t *testing.T) {
	l := newTestLog(t)
	for i := 0; i < 15; i++ {
		if err := l.WriteEntry("preferencia", "fato número "+string(rune('a'+i))); err != nil {
			t.Fatalf("WriteEntry failed: %v", err)
		}
	}

	ctx := l.ReadContext(10)
	if strings.Contains(ctx, "fato número a") {
		t.Error("oldest entry should have been dropped from the context window")
	}
	if !strings.Contains(ctx, "fato número o") {
		t.Error("newest entry missing from context")
	}
}

func TestWriteEntry_AppendOnly(t *testing.T) {
	l := newTestLog(t)
	if err := l.WriteEntry("objetivo", "aprender Go"); err != nil {
		t.Fatal(err)
	}
	if err := l.WriteEntry("objetivo", "lançar o app"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), string(data))
	}
	for _, line := range lines {
		if !entryPattern.MatchString(line) {
			t.Errorf("line %q does not match entry format", line)
		}
	}
	if !strings.Contains(lines[0], "aprender Go") {
		t.Error("first entry was rewritten")
	}
}

func TestWriteEntry_RejectsBlankFields(t *testing.T) {
	l := newTestLog(t)
	if err := l.WriteEntry("", "conteúdo"); err == nil {
		t.Error("expected error for empty category")
	}
	if err := l.WriteEntry("nome", "   "); err == nil {
		t.Error("expected error for empty content")
	}
}

func TestExtractAndStore_CategoryTriggers(t *testing.T) {
	l := newTestLog(t)

	l.ExtractAndStore("Meu nome é Ana e eu gosto de café", "Prazer, Ana!", domain.IntentResult{
		Intent:  domain.IntentGeneralChat,
		Details: domain.NoDetails{},
	})

	ctx := l.ReadContext(10)
	if !strings.Contains(ctx, "NOME") {
		t.Errorf("context %q missing NOME entry", ctx)
	}
	if !strings.Contains(ctx, "PREFERENCIA") {
		t.Errorf("context %q missing PREFERENCIA entry", ctx)
	}
}

func TestExtractAndStore_TruncatesLongUtterances(t *testing.T) {
	l := newTestLog(t)

	long := "meu objetivo é " + strings.Repeat("crescer muito ", 30)
	l.ExtractAndStore(long, "", domain.IntentResult{Intent: domain.IntentGeneralChat, Details: domain.NoDetails{}})

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "...") {
		t.Error("long excerpt should be ellipsis-suffixed")
	}
}

func TestExtractAndStore_CreationIntentRecordsActivity(t *testing.T) {
	l := newTestLog(t)

	l.ExtractAndStore("criar tarefa comprar pão", "Anotado!", domain.IntentResult{
		Intent:  domain.IntentCreateTask,
		Details: domain.CreateTaskDetails{What: "comprar pão"},
	})

	ctx := l.ReadContext(10)
	if !strings.Contains(ctx, "ATIVIDADE") {
		t.Errorf("context %q missing ATIVIDADE entry", ctx)
	}
	if !strings.Contains(ctx, "comprar pão") {
		t.Errorf("context %q missing created detail", ctx)
	}
}

func TestClear(t *testing.T) {
	l := newTestLog(t)
	if err := l.WriteEntry("nome", "Ana"); err != nil {
		t.Fatal(err)
	}
	if err := l.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := l.ReadContext(10); got != "" {
		t.Errorf("context after clear = %q, want empty", got)
	}
}
