package alignment

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kbukum/chatalign/chat"
	"github.com/kbukum/chatalign/errors"
	"github.com/kbukum/chatalign/logger"
)

// Runner executes alignment tasks against registered engines. It owns
// the task lifecycle: the task enters Processing before the engine is
// invoked and ends in Completed or Failed, with the failure message
// recorded verbatim. Errors never escape Run; callers read the task
// status.
type Runner struct {
	mu        sync.RWMutex
	providers map[string]Provider
	log       *logger.Logger
}

// NewRunner creates a Runner with no engines registered.
func NewRunner() *Runner {
	return &Runner{
		providers: make(map[string]Provider),
		log:       logger.Get("alignment"),
	}
}

// Register adds an alignment engine under its backend name.
func (r *Runner) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// Run drives the task to a terminal state. The transcript source is
// resolved by precedence, the engine is chosen by the task's Engine
// policy, and the aligned document is flattened into the task's word
// table.
func (r *Runner) Run(ctx context.Context, task *Task) {
	task.Status = StatusProcessing
	task.Error = ""

	words, err := r.align(ctx, task)
	if err != nil {
		task.Status = StatusFailed
		task.Error = err.Error()
		r.log.Error("alignment task failed", logger.Fields(
			logger.FieldTaskID, task.ID,
			logger.FieldEngine, task.Engine.String(),
			logger.FieldError, task.Error,
		))
		return
	}

	task.Words = words
	task.Status = StatusCompleted
	r.log.Info("alignment task completed", logger.Fields(
		logger.FieldTaskID, task.ID,
		logger.FieldEngine, task.Engine.String(),
		logger.FieldWords, len(words),
	))
}

func (r *Runner) align(ctx context.Context, task *Task) ([]WordTimestamp, error) {
	text := r.resolveText(task)

	r.mu.RLock()
	providers := make(map[string]Provider, len(r.providers))
	for k, v := range r.providers {
		providers[k] = v
	}
	r.mu.RUnlock()

	engine, err := task.Engine.Selector().Select(ctx, providers)
	if err != nil {
		return nil, errors.EngineUnavailable(task.Engine.String())
	}

	resp, err := engine.Align(ctx, Request{
		AudioPath: task.AudioPath,
		Text:      text,
		Language:  task.Language,
	})
	if err != nil {
		return nil, err
	}

	return ExtractWordTimestamps(resp.Document), nil
}

// resolveText picks the transcript source by precedence: the explicit
// transcript file, then a convention-named companion file next to the
// audio, then the linked transcript body with speaker markers
// stripped, then nothing (audio-only alignment). Each source is tried
// in order and the first success wins.
func (r *Runner) resolveText(task *Task) string {
	if task.TranscriptPath != "" {
		if data, err := os.ReadFile(task.TranscriptPath); err == nil {
			return string(data)
		}
	}

	if data, err := os.ReadFile(companionPath(task.AudioPath)); err == nil {
		return string(data)
	}

	if task.TranscriptText != "" {
		return chat.StripSpeakers(task.TranscriptText)
	}

	return ""
}

// companionPath is the conventional transcript location for an audio
// file: same directory, same base name, .cha extension.
func companionPath(audioPath string) string {
	ext := filepath.Ext(audioPath)
	return strings.TrimSuffix(audioPath, ext) + ".cha"
}
