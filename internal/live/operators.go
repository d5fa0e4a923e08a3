package live

import (
	"context"
	"time"
)

// derive runs body in a goroutine that owns the returned outlet.
// The channel is closed when body returns.
func derive[T any](body func(out *outlet[T])) <-chan T {
	out := newOutlet[T]()
	go func() {
		defer close(out.ch)
		body(out)
	}()
	return out.ch
}

// Map applies fn to every value of src.
func Map[T, U any](src Stream[T], fn func(T) U) Stream[U] {
	return StreamFunc[U](func(ctx context.Context) <-chan U {
		in := src.Subscribe(ctx)
		return derive(func(out *outlet[U]) {
			for {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-in:
					if !ok {
						return
					}
					out.offer(fn(v))
				}
			}
		})
	})
}

// Distinct suppresses values equal to the previously delivered one.
func Distinct[T any](src Stream[T], equal func(a, b T) bool) Stream[T] {
	return StreamFunc[T](func(ctx context.Context) <-chan T {
		in := src.Subscribe(ctx)
		return derive(func(out *outlet[T]) {
			var last T
			seen := false
			for {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-in:
					if !ok {
						return
					}
					if seen && equal(last, v) {
						continue
					}
					last, seen = v, true
					out.offer(v)
				}
			}
		})
	})
}

// CombineLatest emits fn(a, b) whenever either input changes, once both
// inputs have produced at least one value. If one input ends, its last value
// keeps being used; the result ends when both inputs have ended.
func CombineLatest[A, B, U any](a Stream[A], b Stream[B], fn func(A, B) U) Stream[U] {
	return StreamFunc[U](func(ctx context.Context) <-chan U {
		inA := a.Subscribe(ctx)
		inB := b.Subscribe(ctx)
		return derive(func(out *outlet[U]) {
			var (
				va         A
				vb         B
				hasA, hasB bool
			)
			for inA != nil || inB != nil {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-inA:
					if !ok {
						inA = nil
						continue
					}
					va, hasA = v, true
				case v, ok := <-inB:
					if !ok {
						inB = nil
						continue
					}
					vb, hasB = v, true
				}
				if hasA && hasB {
					out.offer(fn(va, vb))
				}
			}
		})
	})
}

// Debounce delivers a value only after src has been quiet for window.
// A newer value cancels the pending one. The first value of a subscription
// is delivered at once: it is state that settled before the subscriber
// arrived. When src ends on its own, a pending value is flushed; when the
// subscription is cancelled it is dropped.
func Debounce[T any](src Stream[T], window time.Duration) Stream[T] {
	return StreamFunc[T](func(ctx context.Context) <-chan T {
		in := src.Subscribe(ctx)
		return derive(func(out *outlet[T]) {
			timer := time.NewTimer(window)
			timer.Stop()
			defer timer.Stop()

			var (
				pending T
				armed   bool
				first   = true
			)
			for {
				var fire <-chan time.Time
				if armed {
					fire = timer.C
				}
				select {
				case <-ctx.Done():
					return
				case v, ok := <-in:
					if !ok {
						if armed && ctx.Err() == nil {
							out.offer(pending)
						}
						return
					}
					if first {
						first = false
						out.offer(v)
						continue
					}
					pending, armed = v, true
					timer.Reset(window)
				case <-fire:
					armed = false
					out.offer(pending)
				}
			}
		})
	})
}
