// Package live provides observable values and the operators used to derive
// views from them.
//
// Every subscription owns a single goroutine and a one-slot, latest-wins
// channel. A slow receiver therefore never blocks a writer or other
// subscribers; it simply skips to the newest value. Values are never
// delivered out of order.
package live

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by First when a stream ends before producing a value.
var ErrClosed = errors.New("stream closed")

// Stream is a sequence of values delivered over time.
type Stream[T any] interface {
	// Subscribe delivers values until ctx is done or the stream ends,
	// then closes the returned channel.
	Subscribe(ctx context.Context) <-chan T
}

// StreamFunc adapts a subscribe function to Stream.
type StreamFunc[T any] func(ctx context.Context) <-chan T

func (f StreamFunc[T]) Subscribe(ctx context.Context) <-chan T { return f(ctx) }

// outlet is a conflating, single-producer channel.
type outlet[T any] struct {
	ch   chan T
	stop func() bool
}

func newOutlet[T any]() *outlet[T] {
	return &outlet[T]{ch: make(chan T, 1)}
}

// offer replaces any undelivered value with v. Never blocks.
func (o *outlet[T]) offer(v T) {
	for {
		select {
		case o.ch <- v:
			return
		default:
		}
		select {
		case <-o.ch:
		default:
		}
	}
}

// Subject holds the latest value of a stream and fans it out to subscribers.
// Set is the only write path; the zero Subject is not usable, use NewSubject.
type Subject[T any] struct {
	mu     sync.Mutex
	value  T
	ok     bool
	closed bool
	subs   map[*outlet[T]]struct{}
}

// NewSubject returns a subject with no value; subscribers wait for the first Set.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{subs: make(map[*outlet[T]]struct{})}
}

// NewSubjectWith returns a subject seeded with v.
func NewSubjectWith[T any](v T) *Subject[T] {
	s := NewSubject[T]()
	s.value, s.ok = v, true
	return s
}

// Set stores v and delivers it to every subscriber. Set after Close is a no-op.
func (s *Subject[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.value, s.ok = v, true
	for o := range s.subs {
		o.offer(v)
	}
}

// Update applies fn to the current value atomically and publishes the result.
// cur is the zero value when the subject has never been set.
func (s *Subject[T]) Update(fn func(cur T) T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.value, s.ok = fn(s.value), true
	for o := range s.subs {
		o.offer(s.value)
	}
}

// Value returns the current value and whether one has been set.
func (s *Subject[T]) Value() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.ok
}

// Subscribe delivers the current value (if any) immediately, then every
// subsequent Set.
func (s *Subject[T]) Subscribe(ctx context.Context) <-chan T {
	o := newOutlet[T]()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || ctx.Err() != nil {
		close(o.ch)
		return o.ch
	}
	if s.ok {
		o.offer(s.value)
	}
	s.subs[o] = struct{}{}
	o.stop = context.AfterFunc(ctx, func() { s.drop(o) })
	return o.ch
}

func (s *Subject[T]) drop(o *outlet[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[o]; ok {
		delete(s.subs, o)
		close(o.ch)
	}
}

// Subscribers returns the number of active subscriptions.
func (s *Subject[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close ends every subscription. Further Subscribe calls get a closed channel.
func (s *Subject[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for o := range s.subs {
		o.stop()
		close(o.ch)
	}
	s.subs = nil
}

// Of returns a stream that emits v once to each subscriber and stays open
// until the subscription is cancelled.
func Of[T any](v T) Stream[T] {
	return StreamFunc[T](func(ctx context.Context) <-chan T {
		return NewSubjectWith(v).Subscribe(ctx)
	})
}

// First waits for the first value of src.
func First[T any](ctx context.Context, src Stream[T]) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var zero T
	select {
	case v, ok := <-src.Subscribe(ctx):
		if !ok {
			if err := ctx.Err(); err != nil {
				return zero, err
			}
			return zero, ErrClosed
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
