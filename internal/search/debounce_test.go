package search

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	values []string
	fired  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{fired: make(chan struct{}, 16)}
}

func (r *recorder) record(v string) {
	r.mu.Lock()
	r.values = append(r.values, v)
	r.mu.Unlock()
	r.fired <- struct{}{}
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values...)
}

func TestDebouncer_CollapsesToFinalValue(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(30*time.Millisecond, rec.record)

	for _, v := range []string{"c", "ch", "cha", "char"} {
		d.Call(v)
		time.Sleep(5 * time.Millisecond)
	}
	assert.True(t, d.Pending())

	select {
	case <-rec.fired:
	case <-time.After(time.Second):
		t.Fatal("debounced callback never fired")
	}

	// Give a stray timer the chance to fire a second time.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"char"}, rec.snapshot())
	assert.False(t, d.Pending())
}

func TestDebouncer_Flush(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(time.Hour, rec.record)

	d.Call("pika")
	d.Call("pikachu")
	d.Flush()

	require.Equal(t, []string{"pikachu"}, rec.snapshot())
	assert.False(t, d.Pending())

	d.Flush()
	assert.Len(t, rec.snapshot(), 1, "flush without pending input is a no-op")
}

func TestDebouncer_Cancel(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(20*time.Millisecond, rec.record)

	d.Call("mew")
	d.Cancel()
	assert.False(t, d.Pending())

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestDebouncer_SeparateBursts(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(10*time.Millisecond, rec.record)

	d.Call("a")
	<-rec.fired
	d.Call("b")
	<-rec.fired

	assert.Equal(t, []string{"a", "b"}, rec.snapshot())
}

func TestDebouncer_BlockingCallbackDoesNotDelayNext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	started := make(chan string, 4)

	d := NewDebouncer(10*time.Millisecond, func(v string) {
		started <- v
		if v == "slow" {
			<-release
		}
	})

	d.Call("slow")
	select {
	case v := <-started:
		require.Equal(t, "slow", v)
	case <-time.After(time.Second):
		t.Fatal("first callback did not fire")
	}

	d.Call("next")
	select {
	case v := <-started:
		assert.Equal(t, "next", v)
	case <-time.After(200 * time.Millisecond):
		t.Fatal("second callback waited for the first to return")
	}
}
