// Package workerpool runs background jobs (update checks, downloads, exports)
// off the bot's handler goroutines.
package workerpool

// Job is one unit of background work. Done, when non-nil, receives the outcome
// on the worker goroutine that ran it.
type Job struct {
	Run  func() (any, error)
	Done func(any, error)
}

// Pool is a fixed set of workers draining a bounded queue. Submit blocks when
// the queue is full rather than spawning unbounded goroutines.
type Pool struct {
	jobs chan Job
}

func New(workers, queueSize int) *Pool {
	p := &Pool{jobs: make(chan Job, queueSize)}
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for job := range p.jobs {
		v, err := job.Run()
		if job.Done != nil {
			job.Done(v, err)
		}
	}
}

func (p *Pool) Submit(job Job) {
	p.jobs <- job
}

// Close stops the workers once queued jobs drain. Submitting after Close
// panics; close only on shutdown.
func (p *Pool) Close() {
	close(p.jobs)
}
