// Package observability lets callers watch a packopt run.
//
// The pipeline reports every stage batch, every confirmation gate and the
// archive write through [PipelineHooks]. Nothing is reported unless a
// caller installs hooks; the default is [NoopPipelineHooks].
//
// Install hooks before starting a run:
//
//	observability.SetPipelineHooks(&stageTimer{})
//	defer observability.Reset()
//
// OnStageStart and OnStageComplete fire once per batch on the goroutine that
// runs the batch. Implementations must be safe for concurrent use when
// several runs share a process.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the build pipeline.
type PipelineHooks interface {
	// Stage events
	OnStageStart(ctx context.Context, stage string, units int)
	OnStageComplete(ctx context.Context, stage string, units int, duration time.Duration, err error)

	// OnConfirm records the outcome of a confirmation gate.
	OnConfirm(ctx context.Context, prompt string, approved bool)

	// OnArchive records a finished (or failed) archive write.
	OnArchive(ctx context.Context, path string, files int, size int64, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, string, int) {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnConfirm(context.Context, string, bool) {}
func (NoopPipelineHooks) OnArchive(context.Context, string, int, int64, time.Duration, error) {
}

// =============================================================================
// Registry
// =============================================================================

var (
	mu      sync.RWMutex
	current PipelineHooks = NoopPipelineHooks{}
)

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	mu.Lock()
	current = h
	mu.Unlock()
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Reset reinstalls NoopPipelineHooks.
func Reset() {
	mu.Lock()
	current = NoopPipelineHooks{}
	mu.Unlock()
}
