package mapgen

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Worker runs generation requests on background goroutines and publishes
// their results on a channel. A newer request supersedes older ones: a
// superseded run stops emitting at its next phase boundary, so consumers only
// need to drop results whose RequestID is not Latest().
type Worker struct {
	mu  sync.Mutex
	gen *Generator

	latest  atomic.Uint64
	results chan Result

	stopChan chan struct{}
	wg       sync.WaitGroup
	closed   bool
}

// NewWorker creates a worker with the given options. buffer sizes the results
// channel.
func NewWorker(opts Options, buffer int) *Worker {
	if buffer < 1 {
		buffer = 1
	}
	return &Worker{
		gen:      New(opts),
		results:  make(chan Result, buffer),
		stopChan: make(chan struct{}),
	}
}

// Setup replaces the generator options used by subsequent requests.
func (w *Worker) Setup(opts Options) {
	w.mu.Lock()
	w.gen = New(opts)
	w.mu.Unlock()
}

// Results returns the channel results are published on. It is closed by Close.
func (w *Worker) Results() <-chan Result {
	return w.results
}

// Latest returns the ID of the most recent request.
func (w *Worker) Latest() uint64 {
	return w.latest.Load()
}

// Generate starts a request and returns its ID. Incremental requests publish
// every phase followed by the final map; others publish the final map only.
// Returns 0 if the worker is closed.
func (w *Worker) Generate(seed string, incremental bool) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return 0
	}

	id := w.latest.Add(1)
	gen := w.gen
	w.wg.Add(1)
	go w.run(gen, id, seed, incremental)
	return id
}

// Supersede invalidates every request issued so far and returns a new ID
// that no run publishes under. Callers installing a map from another source
// use it so in-flight results become stale.
func (w *Worker) Supersede() uint64 {
	return w.latest.Add(1)
}

func (w *Worker) run(gen *Generator, id uint64, seed string, incremental bool) {
	defer w.wg.Done()

	start := time.Now()
	opts := gen.Options()
	slog.Info("map generation started",
		"request_id", id,
		"seed", seed,
		"width", opts.Width,
		"height", opts.Height,
		"incremental", incremental,
	)

	publish := func(r Result) bool {
		if w.latest.Load() != id {
			return false
		}
		r.RequestID = id
		select {
		case w.results <- r:
			return true
		case <-w.stopChan:
			return false
		}
	}

	finished := false
	if incremental {
		for r := range gen.Steps(seed) {
			if !publish(r) {
				break
			}
			finished = r.Final
		}
	} else {
		finished = publish(gen.Generate(seed))
	}

	if !finished {
		slog.Info("map generation superseded", "request_id", id, "seed", seed)
		return
	}
	slog.Info("map generation finished",
		"request_id", id,
		"seed", seed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// Close stops in-flight requests, waits for them and closes the results
// channel.
func (w *Worker) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.stopChan)
	w.mu.Unlock()

	w.wg.Wait()
	close(w.results)
}
