// internal/feed/synchronizer.go
package feed

import (
	"context"
	"log"
	"sync"
)

// Source produces the full ordered snapshot for one stream. The
// synchronizer never diffs: every change re-derives the whole list.
type Source func(ctx context.Context) (interface{}, error)

// Snapshot is a full point-in-time result set for a stream, as delivered
// to subscribers.
type Snapshot struct {
	Stream string      `json:"stream"`
	Items  interface{} `json:"items"`
}

// Subscription is a live, cancellable feed of snapshots. C carries the
// latest snapshot; a slow consumer only ever loses intermediate states,
// never the final one. Cancel must be called when the consuming view goes
// away, or the callback leaks.
type Subscription struct {
	C chan Snapshot

	stream *stream
	once   sync.Once
}

// Cancel detaches the subscription from its stream. Idempotent.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		if s.stream != nil {
			s.stream.unsubscribe(s)
		}
	})
}

type stream struct {
	name   string
	source Source

	mu          sync.RWMutex
	subscribers map[*Subscription]bool
	last        *Snapshot

	notify chan struct{}
	done   chan struct{}
}

// Synchronizer keeps named content streams ("clips", "lfg") in sync with
// the store. Writers call Notify after any mutation; each stream then
// serially re-queries its snapshot and pushes it to every subscriber. One
// goroutine per stream guarantees that no two refresh passes of the same
// stream run concurrently.
type Synchronizer struct {
	mu      sync.RWMutex
	streams map[string]*stream
}

func NewSynchronizer() *Synchronizer {
	return &Synchronizer{
		streams: make(map[string]*stream),
	}
}

// Register creates a stream backed by the given source and starts its
// refresh loop.
func (s *Synchronizer) Register(name string, source Source) {
	st := &stream{
		name:        name,
		source:      source,
		subscribers: make(map[*Subscription]bool),
		notify:      make(chan struct{}, 1),
		done:        make(chan struct{}),
	}

	s.mu.Lock()
	s.streams[name] = st
	s.mu.Unlock()

	go st.run()
}

// Subscribe attaches to a stream. The last known snapshot, if any, is
// delivered immediately; a refresh is also scheduled so a brand-new
// subscriber converges on current store state.
func (s *Synchronizer) Subscribe(name string) (*Subscription, bool) {
	s.mu.RLock()
	st, ok := s.streams[name]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	sub := &Subscription{
		C:      make(chan Snapshot, 1),
		stream: st,
	}

	st.mu.Lock()
	st.subscribers[sub] = true
	if st.last != nil {
		sub.C <- *st.last
	}
	st.mu.Unlock()

	st.poke()
	return sub, true
}

// Has reports whether a stream with this name is registered.
func (s *Synchronizer) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.streams[name]
	return ok
}

// Notify schedules a snapshot refresh for a stream. Non-blocking: bursts
// of writes coalesce into one refresh.
func (s *Synchronizer) Notify(name string) {
	s.mu.RLock()
	st, ok := s.streams[name]
	s.mu.RUnlock()
	if ok {
		st.poke()
	}
}

// Close stops every stream loop. Outstanding subscriptions stop receiving.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.streams {
		close(st.done)
	}
	s.streams = make(map[string]*stream)
}

func (st *stream) poke() {
	select {
	case st.notify <- struct{}{}:
	default:
	}
}

func (st *stream) run() {
	for {
		select {
		case <-st.notify:
			st.refresh()
		case <-st.done:
			return
		}
	}
}

// refresh re-derives the full snapshot from the source and delivers it.
// A source failure is logged and the previous snapshot stands; no retry.
func (st *stream) refresh() {
	items, err := st.source(context.Background())
	if err != nil {
		log.Printf("Feed stream %s: snapshot query failed: %v", st.name, err)
		return
	}

	snap := Snapshot{Stream: st.name, Items: items}

	st.mu.Lock()
	st.last = &snap
	for sub := range st.subscribers {
		deliver(sub.C, snap)
	}
	st.mu.Unlock()
}

// deliver replaces any undrained snapshot with the newer one.
func deliver(ch chan Snapshot, snap Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

func (st *stream) unsubscribe(sub *Subscription) {
	st.mu.Lock()
	delete(st.subscribers, sub)
	st.mu.Unlock()
}
