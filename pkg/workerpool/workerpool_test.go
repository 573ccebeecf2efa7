package workerpool

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolRunsEveryJob(t *testing.T) {
	p := New(2, 4)
	defer p.Close()

	var wg sync.WaitGroup
	var mu sync.Mutex
	got := map[int]bool{}
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(1)
		p.Submit(Job{
			Run: func() (any, error) { return i, nil },
			Done: func(v any, err error) {
				mu.Lock()
				got[v.(int)] = err == nil
				mu.Unlock()
				wg.Done()
			},
		})
	}
	wg.Wait()
	assert.Len(t, got, 8)
	for i := 0; i < 8; i++ {
		assert.True(t, got[i], i)
	}
}

func TestPoolReportsErrors(t *testing.T) {
	p := New(1, 1)
	defer p.Close()

	done := make(chan error, 1)
	p.Submit(Job{
		Run:  func() (any, error) { return nil, errors.New("boom") },
		Done: func(_ any, err error) { done <- err },
	})
	assert.EqualError(t, <-done, "boom")
}
