package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeSource is a swappable snapshot source guarded by a mutex
type fakeSource struct {
	mu    sync.Mutex
	items []string
	err   error
}

func (f *fakeSource) set(items []string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = items
	f.err = err
}

func (f *fakeSource) source(ctx context.Context) (interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, len(f.items))
	copy(out, f.items)
	return out, nil
}

func waitForSnapshot(t *testing.T, sub *Subscription) Snapshot {
	t.Helper()
	select {
	case snap := <-sub.C:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestSubscribeDeliversFullSnapshots(t *testing.T) {
	src := &fakeSource{items: []string{"a"}}
	feedSync := NewSynchronizer()
	defer feedSync.Close()
	feedSync.Register("clips", src.source)

	sub, ok := feedSync.Subscribe("clips")
	assert.True(t, ok)
	defer sub.Cancel()

	snap := waitForSnapshot(t, sub)
	assert.Equal(t, "clips", snap.Stream)
	assert.Equal(t, []string{"a"}, snap.Items)

	// A mutation triggers a full re-derivation, not a delta
	src.set([]string{"b", "a"}, nil)
	feedSync.Notify("clips")

	snap = waitForSnapshot(t, sub)
	assert.Equal(t, []string{"b", "a"}, snap.Items)
}

func TestSlowSubscriberGetsLatestSnapshot(t *testing.T) {
	src := &fakeSource{items: []string{"v1"}}
	feedSync := NewSynchronizer()
	defer feedSync.Close()
	feedSync.Register("clips", src.source)

	sub, _ := feedSync.Subscribe("clips")
	defer sub.Cancel()
	waitForSnapshot(t, sub)

	// Push several versions without draining; intermediate states may be
	// lost but the final one must arrive.
	for _, v := range []string{"v2", "v3", "v4"} {
		src.set([]string{v}, nil)
		feedSync.Notify("clips")
		time.Sleep(20 * time.Millisecond)
	}

	var last Snapshot
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-sub.C:
			last = snap
			if items, ok := snap.Items.([]string); ok && len(items) == 1 && items[0] == "v4" {
				assert.Equal(t, []string{"v4"}, last.Items)
				return
			}
		case <-deadline:
			t.Fatalf("never saw final snapshot, last was %v", last.Items)
		}
	}
}

func TestSourceFailureKeepsPreviousSnapshot(t *testing.T) {
	src := &fakeSource{items: []string{"good"}}
	feedSync := NewSynchronizer()
	defer feedSync.Close()
	feedSync.Register("clips", src.source)

	sub, _ := feedSync.Subscribe("clips")
	defer sub.Cancel()
	waitForSnapshot(t, sub)

	src.set(nil, errors.New("store down"))
	feedSync.Notify("clips")
	time.Sleep(50 * time.Millisecond)

	// The failed refresh delivers nothing; a new subscriber still gets
	// the last good snapshot.
	sub2, _ := feedSync.Subscribe("clips")
	defer sub2.Cancel()
	snap := waitForSnapshot(t, sub2)
	assert.Equal(t, []string{"good"}, snap.Items)
}

func TestCancelStopsDelivery(t *testing.T) {
	src := &fakeSource{items: []string{"a"}}
	feedSync := NewSynchronizer()
	defer feedSync.Close()
	feedSync.Register("clips", src.source)

	sub, _ := feedSync.Subscribe("clips")
	waitForSnapshot(t, sub)

	sub.Cancel()
	sub.Cancel() // idempotent

	src.set([]string{"b"}, nil)
	feedSync.Notify("clips")
	time.Sleep(50 * time.Millisecond)

	select {
	case snap, ok := <-sub.C:
		if ok {
			// A snapshot delivered before cancellation may still be
			// buffered; it must not reflect the post-cancel state.
			assert.NotEqual(t, []string{"b"}, snap.Items)
		}
	default:
	}
}

func TestSubscribeUnknownStream(t *testing.T) {
	feedSync := NewSynchronizer()
	defer feedSync.Close()

	sub, ok := feedSync.Subscribe("nope")
	assert.False(t, ok)
	assert.Nil(t, sub)
	assert.False(t, feedSync.Has("nope"))

	// Notify on an unknown stream is a no-op, not a panic
	feedSync.Notify("nope")
}

func TestIndependentStreams(t *testing.T) {
	clips := &fakeSource{items: []string{"clip"}}
	lfg := &fakeSource{items: []string{"lfg"}}

	feedSync := NewSynchronizer()
	defer feedSync.Close()
	feedSync.Register("clips", clips.source)
	feedSync.Register("lfg", lfg.source)

	clipSub, _ := feedSync.Subscribe("clips")
	defer clipSub.Cancel()
	lfgSub, _ := feedSync.Subscribe("lfg")
	defer lfgSub.Cancel()

	assert.Equal(t, []string{"clip"}, waitForSnapshot(t, clipSub).Items)
	assert.Equal(t, []string{"lfg"}, waitForSnapshot(t, lfgSub).Items)

	// A clips mutation must not wake the lfg stream
	clips.set([]string{"clip2", "clip"}, nil)
	feedSync.Notify("clips")
	assert.Equal(t, []string{"clip2", "clip"}, waitForSnapshot(t, clipSub).Items)

	select {
	case snap := <-lfgSub.C:
		assert.Equal(t, []string{"lfg"}, snap.Items)
	case <-time.After(100 * time.Millisecond):
	}
}
