package sync

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
)

// Broadcaster reads from one chan and writes to many subscribed chans. Subscribe
// returns a token and a receive-only chan for reads, Unsubscribe must be called
// with the token to close the subscription, if not called, the system will not
// shut down gracefully. Broadcast must run in a separate long-running goroutine,
// it will not return even if there are no subscribers to relay values to, only
// once shutdown is initiated.
type Broadcaster[T any] struct {
	in   chan T
	mu   sync.RWMutex
	wg   sync.WaitGroup
	out  map[int]chan T
	v    T
	next int
}

func NewBroadcaster[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{
		in:  make(chan T),
		out: make(map[int]chan T),
	}
}

// Get returns the last broadcast value.
func (b *Broadcaster[T]) Get() T {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.v
}

func (b *Broadcaster[T]) Subscribe() (int, <-chan T) {
	c := make(chan T)
	b.mu.Lock()
	token := b.next
	b.out[token] = c
	b.next++
	b.wg.Add(1)
	b.mu.Unlock()
	return token, c
}

func (b *Broadcaster[T]) Unsubscribe(token int) {
	b.mu.Lock()
	if ch, ok := b.out[token]; ok {
		close(ch)
		delete(b.out, token)
		b.wg.Done()
	} else {
		slog.Error("channel not found while unsubscribing", "type", reflect.TypeOf(b), "token", token)
	}
	b.mu.Unlock()
}

func (b *Broadcaster[T]) Write(v T) {
	b.in <- v
}

func (b *Broadcaster[T]) Broadcast(shtdwnCtx context.Context) {
	for {
		select {
		case v := <-b.in:
			b.mu.Lock()
			b.v = v
			b.mu.Unlock()
			b.mu.RLock()
			for _, ch := range b.out {
				// this may block, but we want one on one synchronization
				// if it blocks indefinitely, there is a problem elsewhere in the code
				select {
				case ch <- v:
				case <-shtdwnCtx.Done():
					b.mu.RUnlock()
					return
				}
			}
			b.mu.RUnlock()
		case <-shtdwnCtx.Done():
			return
		}
	}
}

// StateMonitor holds one piece of state and wakes every waiter on change.
type StateMonitor[T any] struct {
	c    chan T
	cond *sync.Cond
	s    T
}

func NewStateMonitor[T any](initial T) *StateMonitor[T] {
	return &StateMonitor[T]{
		c:    make(chan T),
		cond: sync.NewCond(new(sync.Mutex)),
		s:    initial,
	}
}

// Get returns the current state without synchronizing with writers.
func (s *StateMonitor[T]) Get() T {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	return s.s
}

// WaitForStateChange blocks until the next internal broadcast.
func (s *StateMonitor[T]) WaitForStateChange() T {
	s.cond.L.Lock()
	s.cond.Wait()
	defer s.cond.L.Unlock()
	return s.s
}

// WriteToChan hands a new state to the Broadcast loop.
func (s *StateMonitor[T]) WriteToChan(v T) {
	s.c <- v
}

func (s *StateMonitor[T]) Broadcast(shtdwnCtx context.Context) {
	for {
		select {
		case val := <-s.c:
			s.cond.L.Lock()
			s.s = val
			s.cond.L.Unlock()
			s.cond.Broadcast()
		case <-shtdwnCtx.Done():
			// goroutines blocked in WaitForStateChange also respect shtdwnCtx,
			// wake them so they can observe it and exit
			s.cond.Broadcast()
			return
		}
	}
}
