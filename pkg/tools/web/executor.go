package web

import (
	"context"
	"fmt"
	"sync"

	"github.com/tickr-ai/tickr/pkg/config"
)

// executor serializes browser tasks on one worker goroutine. Headless
// chromium sessions are heavyweight and must not run concurrently with
// each other; a single worker with a bounded wait keeps the blocking
// browser call away from the caller's goroutine.
type executor struct {
	cfg   *config.Config
	tasks chan func()
	start sync.Once
}

func newExecutor(cfg *config.Config) *executor {
	return &executor{cfg: cfg, tasks: make(chan func())}
}

func (e *executor) worker() {
	for task := range e.tasks {
		task()
	}
}

// do runs fn on the worker and waits for its snapshot. The wait is bounded
// by the browser timeout; on timeout the caller gets an error while the
// worker finishes the task and tears the session down on its own thread.
func (e *executor) do(ctx context.Context, fn func(ctx context.Context) (*pageSnapshot, error)) (*pageSnapshot, error) {
	e.start.Do(func() { go e.worker() })

	timeout := e.cfg.BrowserTimeout()
	taskCtx, cancel := context.WithTimeout(context.Background(), timeout)

	type outcome struct {
		snapshot *pageSnapshot
		err      error
	}
	done := make(chan outcome, 1)

	task := func() {
		defer cancel()
		snapshot, err := fn(taskCtx)
		done <- outcome{snapshot: snapshot, err: err}
	}

	select {
	case e.tasks <- task:
	case <-ctx.Done():
		cancel()
		return nil, ctx.Err()
	}

	select {
	case result := <-done:
		return result.snapshot, result.err
	case <-taskCtx.Done():
		// The worker still owns the session and closes it when the task
		// unwinds; the buffered channel lets it finish without a reader.
		return nil, fmt.Errorf("browser task timed out after %s", timeout)
	case <-ctx.Done():
		cancel()
		return nil, ctx.Err()
	}
}
