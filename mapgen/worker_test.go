package mapgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, w *Worker) Result {
	t.Helper()
	select {
	case r, ok := <-w.Results():
		require.True(t, ok, "results channel closed")
		return r
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for generation result")
	}
	return Result{}
}

func TestWorkerGenerateFinal(t *testing.T) {
	w := NewWorker(testOptions(60, 40), 4)
	defer w.Close()

	id := w.Generate("abc123", false)
	require.NotZero(t, id)

	r := receive(t, w)
	assert.Equal(t, id, r.RequestID)
	assert.True(t, r.Final)
	assert.Equal(t, "abc123", r.Seed)

	want := New(testOptions(60, 40)).Generate("abc123")
	assert.Equal(t, want.Walls, r.Walls)
	assert.Equal(t, want.Food, r.Food)
}

func TestWorkerIncremental(t *testing.T) {
	w := NewWorker(testOptions(40, 30), 1)
	defer w.Close()

	id := w.Generate("inc", true)
	var results []Result
	for {
		r := receive(t, w)
		assert.Equal(t, id, r.RequestID)
		results = append(results, r)
		if r.Final {
			break
		}
	}
	require.Greater(t, len(results), 1)
	for _, r := range results[:len(results)-1] {
		assert.False(t, r.Final)
	}
}

func TestWorkerSetup(t *testing.T) {
	w := NewWorker(testOptions(40, 30), 1)
	defer w.Close()

	w.Setup(testOptions(24, 18))
	w.Generate("resized", false)
	r := receive(t, w)
	assert.Equal(t, 24, r.Width())
	assert.Equal(t, 18, r.Height())
}

func TestWorkerLastWriterWins(t *testing.T) {
	// The first run may still be publishing when the second supersedes it;
	// stale results are skipped by ID.
	w := NewWorker(testOptions(40, 30), 1)
	defer w.Close()

	first := w.Generate("first", true)
	second := w.Generate("second", false)
	assert.Greater(t, second, first)
	assert.Equal(t, second, w.Latest())

	var final Result
	for {
		r := receive(t, w)
		if r.RequestID != w.Latest() {
			continue
		}
		if r.Final {
			final = r
			break
		}
	}
	assert.Equal(t, "second", final.Seed)
}

func TestWorkerSupersede(t *testing.T) {
	w := NewWorker(testOptions(60, 45), 1)
	first := w.Generate("pending", false)
	id := w.Supersede()
	assert.Greater(t, id, first)
	assert.Equal(t, id, w.Latest())
	w.Close()

	// Anything the run published before being superseded is stale.
	for r := range w.Results() {
		assert.NotEqual(t, id, r.RequestID)
	}
}

func TestWorkerClose(t *testing.T) {
	w := NewWorker(testOptions(40, 30), 1)
	w.Generate("a", true)
	w.Close()
	w.Close()

	assert.Zero(t, w.Generate("b", false))

	// Drain whatever was buffered; the channel must end closed.
	for range w.Results() {
	}
}
