// Package memory manages Karen's long-term memory: an append-only UTF-8
// text file of timestamped, categorized facts that get summarized into the
// classifier prompt.
package memory

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/LadiesMan0217/Projeto-Karen/internal/domain"
)

const (
	// DefaultContextLimit is how many recent entries are injected into the
	// classifier prompt.
	DefaultContextLimit = 10

	excerptLimit = 200

	contextHeader = "INFORMAÇÕES QUE VOCÊ JÁ SABE SOBRE O USUÁRIO (memória de longo prazo):"
	contextFooter = "Use essas informações quando forem relevantes para a resposta."
)

// entryPattern matches a well-formed memory line: [YYYY-MM-DD HH:MM(:SS)?] CATEGORY: content
var entryPattern = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}(:\d{2})?\] `)

// categoryTriggers drives the heuristic extraction of salient statements.
// The first matching trigger per category stores one excerpt.
var categoryTriggers = []struct {
	category string
	triggers []string
}{
	{"nome", []string{"meu nome é", "me chamo", "pode me chamar de"}},
	{"projeto", []string{"estou trabalhando no", "estou trabalhando em", "meu projeto", "estou desenvolvendo"}},
	{"preferencia", []string{"eu gosto de", "eu prefiro", "não gosto de", "eu amo", "eu odeio"}},
	{"objetivo", []string{"meu objetivo", "minha meta", "quero conseguir", "meu sonho"}},
	{"profissional", []string{"trabalho como", "minha profissão", "trabalho na", "trabalho no", "minha empresa"}},
}

// Log is the append-only memory store adapter.
type Log struct {
	path   string
	logger *zap.Logger
}

func NewLog(path string, logger *zap.Logger) *Log {
	return &Log{path: path, logger: logger}
}

// Path returns the backing file location.
func (l *Log) Path() string {
	return l.path
}

// ReadContext returns the most recent limit entries wrapped in the fixed
// prompt-injection framing. An empty or missing log yields an empty string
// with no framing at all.
func (l *Log) ReadContext(limit int) string {
	if limit <= 0 {
		limit = DefaultContextLimit
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Warn("memory read failed", zap.Error(err))
		}
		return ""
	}

	var entries []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if entryPattern.MatchString(line) {
			entries = append(entries, line)
		}
	}
	if len(entries) == 0 {
		return ""
	}
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	return contextHeader + "\n" + strings.Join(entries, "\n") + "\n" + contextFooter
}

// WriteEntry appends a single categorized fact. Prior lines are never
// rewritten or deleted.
func (l *Log) WriteEntry(category, content string) error {
	category = strings.ToUpper(strings.TrimSpace(category))
	content = strings.TrimSpace(content)
	if category == "" || content == "" {
		return fmt.Errorf("memory entry needs category and content")
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open memory log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s: %s\n", time.Now().Format("2006-01-02 15:04:05"), category, content)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append memory entry: %w", err)
	}

	l.logger.Debug("memory entry added",
		zap.String("category", category),
		zap.String("content", excerpt(content, 50)))
	return nil
}

// ExtractAndStore scans the utterance for salient statements and records
// them. It is best-effort enrichment: failures are logged and swallowed.
func (l *Log) ExtractAndStore(userText, responseText string, result domain.IntentResult) {
	lower := strings.ToLower(userText)

	for _, ct := range categoryTriggers {
		for _, trigger := range ct.triggers {
			if !strings.Contains(lower, trigger) {
				continue
			}
			if err := l.WriteEntry(ct.category, excerpt(userText, excerptLimit)); err != nil {
				l.logger.Warn("memory extraction failed", zap.String("category", ct.category), zap.Error(err))
			}
			break
		}
	}

	switch result.Intent {
	case domain.IntentCreateTask:
		if d, ok := result.Details.(domain.CreateTaskDetails); ok && d.What != "" {
			if err := l.WriteEntry("atividade", "Criou a tarefa: "+d.What); err != nil {
				l.logger.Warn("memory extraction failed", zap.Error(err))
			}
		}
	case domain.IntentCreateProject:
		if d, ok := result.Details.(domain.CreateProjectDetails); ok && d.Name != "" {
			if err := l.WriteEntry("atividade", "Iniciou o projeto: "+d.Name); err != nil {
				l.logger.Warn("memory extraction failed", zap.Error(err))
			}
		}
	}
}

// Clear truncates the memory file. Used by the maintenance CLI command.
func (l *Log) Clear() error {
	if err := os.WriteFile(l.path, nil, 0644); err != nil {
		return fmt.Errorf("clear memory log: %w", err)
	}
	return nil
}

func excerpt(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
