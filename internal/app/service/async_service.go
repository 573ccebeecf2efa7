package service

import (
	"schedule-bot/pkg/workerpool"
)

// AsyncService funnels background work (update checks, downloads, exports)
// onto the shared pool so it never blocks a bot handler on the hot path.
type AsyncService struct {
	Pool *workerpool.Pool
}

func NewAsyncService(pool *workerpool.Pool) *AsyncService {
	return &AsyncService{Pool: pool}
}

// Fire runs fn on the pool without waiting; cb, when non-nil, receives the
// outcome on the worker goroutine.
func (a *AsyncService) Fire(fn func() (any, error), cb func(any, error)) {
	a.Pool.Submit(workerpool.Job{Run: fn, Done: cb})
}
