package task

import (
	"context"
	"log/slog"
	"sync"
)

// ChapterPool bounds how many chapter jobs run at once across all
// document tasks. Every document task dispatches its chapters here, so
// total model concurrency stays fixed no matter how many documents are
// in flight.
type ChapterPool struct {
	jobs   chan func()
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewChapterPool builds a pool of size workers. Invalid sizes fall
// back to 1.
func NewChapterPool(size int, logger *slog.Logger) *ChapterPool {
	if size <= 0 {
		logger.Warn("invalid chapter pool size, using 1", "specified_size", size)
		size = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &ChapterPool{
		jobs:   make(chan func()),
		ctx:    ctx,
		cancel: cancel,
		logger: logger.With("component", "chapter_pool"),
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	return p
}

// Submit hands a job to the pool, blocking until a worker accepts it.
// Returns ErrPoolClosed once the pool has been stopped.
func (p *ChapterPool) Submit(job func()) error {
	select {
	case p.jobs <- job:
		return nil
	case <-p.ctx.Done():
		return ErrPoolClosed
	}
}

// Stop shuts the pool down. Jobs already accepted by a worker run to
// completion; pending submissions fail with ErrPoolClosed.
func (p *ChapterPool) Stop() {
	p.cancel()
	p.wg.Wait()
}

func (p *ChapterPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobs:
			job()
		case <-p.ctx.Done():
			p.logger.Debug("stopping chapter worker", "worker_id", id)
			return
		}
	}
}
