// Package assistant wires the interaction pipeline: memory context in,
// classification with an explicit fallback branch, dispatch to the effect
// handlers, memory enrichment and response assembly. No component failure
// in here may crash a request; every layer has a degraded output.
package assistant

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/LadiesMan0217/Projeto-Karen/internal/calendar"
	"github.com/LadiesMan0217/Projeto-Karen/internal/classifier"
	"github.com/LadiesMan0217/Projeto-Karen/internal/domain"
	"github.com/LadiesMan0217/Projeto-Karen/internal/intent"
	"github.com/LadiesMan0217/Projeto-Karen/internal/memory"
	"github.com/LadiesMan0217/Projeto-Karen/internal/store"
	"github.com/LadiesMan0217/Projeto-Karen/internal/tts"
)

// Services is the explicit dependency context. Store and Memory are
// required; the other collaborators may be nil, which disables their
// feature without failing requests.
type Services struct {
	Classifier *classifier.Classifier
	Store      *store.Store
	Memory     *memory.Log
	Calendar   *calendar.Client
	Speech     *tts.Service
	Location   *time.Location
	Logger     *zap.Logger
}

// Interaction is the payload returned for one processed utterance.
type Interaction struct {
	ResponseText string         `json:"responseText"`
	AudioURL     string         `json:"audioUrl,omitempty"`
	Intent       domain.Intent  `json:"intent"`
	Details      domain.Details `json:"details"`
}

type Assistant struct {
	classifier *classifier.Classifier
	store      *store.Store
	memory     *memory.Log
	calendar   *calendar.Client
	speech     *tts.Service
	loc        *time.Location
	logger     *zap.Logger

	// now is swappable so date resolution is deterministic in tests.
	now func() time.Time
}

func New(svc Services) *Assistant {
	loc := svc.Location
	if loc == nil {
		loc = time.UTC
	}
	logger := svc.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Assistant{
		classifier: svc.Classifier,
		store:      svc.Store,
		memory:     svc.Memory,
		calendar:   svc.Calendar,
		speech:     svc.Speech,
		loc:        loc,
		logger:     logger,
	}
	a.now = func() time.Time { return time.Now().In(a.loc) }
	return a
}

// Process runs one utterance through the full pipeline and always returns
// a well-formed interaction.
func (a *Assistant) Process(ctx context.Context, userID, text string) Interaction {
	memoryContext := a.memory.ReadContext(memory.DefaultContextLimit)

	result := a.resolve(ctx, text, memoryContext)

	if mu := result.MemoryUpdate; mu != nil {
		if err := a.memory.WriteEntry(mu.Category, mu.Content); err != nil {
			a.logger.Warn("memory update failed", zap.Error(err))
		}
	}

	responseText := a.Dispatch(result, userID)

	a.memory.ExtractAndStore(text, responseText, result)

	if _, err := a.store.AddChatMessage(userID, text, responseText); err != nil {
		a.logger.Warn("chat history save failed", zap.Error(err))
	}

	audioURL := ""
	if a.speech.Enabled() {
		if audio, err := a.speech.Synthesize(responseText); err != nil {
			a.logger.Warn("speech synthesis failed", zap.Error(err))
		} else {
			audioURL = tts.DataURI(audio)
		}
	}

	return Interaction{
		ResponseText: responseText,
		AudioURL:     audioURL,
		Intent:       result.Intent,
		Details:      result.Details,
	}
}

// resolve runs the primary classifier and makes the fallback path an
// explicit branch: any ClassificationError (or an unconfigured classifier)
// means the keyword rules decide.
func (a *Assistant) resolve(ctx context.Context, text, memoryContext string) domain.IntentResult {
	if a.classifier == nil {
		return intent.Fallback(text)
	}

	result, err := a.classifier.Classify(ctx, text, memoryContext)
	if err != nil {
		a.logger.Info("primary classifier unavailable, using keyword fallback", zap.Error(err))
		return intent.Fallback(text)
	}
	return result
}
