package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"blog-api/internal/core/metrics"
)

var (
	ErrQueueFull = errors.New("worker: queue full")
	ErrStopped   = errors.New("worker: pool stopped")
)

type Job func(ctx context.Context) error

// Pool 固定 worker 数 + 有界队列，队列满时丢弃
type Pool struct {
	jobs   chan Job
	log    *zap.Logger
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
}

func NewPool(workers, queueSize int, l *zap.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 16
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		jobs:   make(chan Job, queueSize),
		log:    l,
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.run(i)
	}
	return p
}

func (p *Pool) run(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		metrics.NotifyQueueDepth.Set(float64(len(p.jobs)))
		p.exec(id, job)
	}
}

func (p *Pool) exec(id int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("worker job panic", zap.Int("worker", id), zap.Any("panic", r))
		}
	}()
	if err := job(p.ctx); err != nil {
		p.log.Warn("worker job failed", zap.Int("worker", id), zap.Error(err))
	}
}

// TrySubmit 不阻塞调用方
func (p *Pool) TrySubmit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrStopped
	}
	select {
	case p.jobs <- job:
		metrics.NotifyQueueDepth.Set(float64(len(p.jobs)))
		return nil
	default:
		metrics.NotifyDropped.Inc()
		return ErrQueueFull
	}
}

// Stop 停止接收新任务，等待队列排空或 ctx 到期
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		return ctx.Err()
	}
}
