// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package parallel splits per-pixel work into row bands and runs them on
// a fixed set of worker goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool runs batches of jobs on a fixed set of workers. Run blocks until
// the whole batch is done, so a batch sees a consistent destination.
//
// Pool is safe for concurrent use.
type Pool struct {
	workers int
	jobs    chan func()
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewPool starts a pool. If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		workers: workers,
		jobs:    make(chan func(), workers*4),
	}
	p.running.Store(true)
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

// IsRunning reports whether the pool accepts work.
func (p *Pool) IsRunning() bool { return p.running.Load() }

// Run executes every job and waits for all of them. After Close the jobs
// run on the calling goroutine.
func (p *Pool) Run(jobs []func()) {
	if len(jobs) == 0 {
		return
	}
	if !p.running.Load() || len(jobs) == 1 {
		for _, job := range jobs {
			job()
		}
		return
	}
	var done sync.WaitGroup
	done.Add(len(jobs))
	for _, job := range jobs {
		p.jobs <- func() {
			defer done.Done()
			job()
		}
	}
	done.Wait()
}

// Rows splits rows [0, height) into at most Workers() contiguous bands
// of at least minRows each and runs fn on every band.
func (p *Pool) Rows(height, minRows int, fn func(y0, y1 int)) {
	bands := Bands(height, p.workers, minRows)
	jobs := make([]func(), len(bands))
	for i, b := range bands {
		jobs[i] = func() { fn(b[0], b[1]) }
	}
	p.Run(jobs)
}

// Close stops the workers. Close is safe to call more than once but must
// not race with Run.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.jobs)
	p.wg.Wait()
}

// Bands splits [0, n) into at most parts half-open ranges of at least
// minSize elements. The ranges are contiguous and cover [0, n).
func Bands(n, parts, minSize int) [][2]int {
	if n <= 0 {
		return nil
	}
	minSize = max(minSize, 1)
	parts = max(min(parts, n/minSize), 1)
	out := make([][2]int, 0, parts)
	start := 0
	for i := range parts {
		end := n * (i + 1) / parts
		out = append(out, [2]int{start, end})
		start = end
	}
	return out
}
