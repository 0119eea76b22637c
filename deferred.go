package router

import (
	"go.uber.org/atomic"
)

// PollState is the state of a Deferred as seen by the router.
type PollState int

const (
	PollPending PollState = iota
	PollReady
	PollAbandoned
)

func (s PollState) String() string {
	switch s {
	case PollReady:
		return "ready"
	case PollAbandoned:
		return "abandoned"
	default:
		return "pending"
	}
}

// Deferred carries a decision that arrives later. Resolve and Abandon are
// safe to call from any goroutine; the router only polls and never blocks.
type Deferred[T any] struct {
	ch        chan T
	settled   *atomic.Bool
	abandoned *atomic.Bool
}

func NewDeferred[T any]() *Deferred[T] {
	return &Deferred[T]{
		ch:        make(chan T, 1),
		settled:   atomic.NewBool(false),
		abandoned: atomic.NewBool(false),
	}
}

// Resolve delivers v. Only the first Resolve takes effect, and none does
// after Abandon. It reports whether v was delivered.
func (d *Deferred[T]) Resolve(v T) bool {
	if !d.settled.CompareAndSwap(false, true) {
		return false
	}
	if d.abandoned.Load() {
		return false
	}
	d.ch <- v
	return true
}

// Abandon signals that no decision will ever arrive. A navigation waiting on
// an abandoned Deferred is dropped.
func (d *Deferred[T]) Abandon() {
	d.abandoned.Store(true)
	d.settled.Store(true)
}

// Poll checks for a decision without blocking.
func (d *Deferred[T]) Poll() (T, PollState) {
	select {
	case v := <-d.ch:
		return v, PollReady
	default:
	}
	var zero T
	if d.abandoned.Load() {
		return zero, PollAbandoned
	}
	return zero, PollPending
}

// Go runs fn on a new goroutine and resolves the returned Deferred with its
// result.
func Go[T any](fn func() T) *Deferred[T] {
	d := NewDeferred[T]()
	go func() {
		d.Resolve(fn())
	}()
	return d
}

// Async is either an immediate value or a pending Deferred.
type Async[T any] struct {
	value    T
	deferred *Deferred[T]
	missing  bool
}

// Immediate wraps a value that is already known.
func Immediate[T any](v T) Async[T] {
	return Async[T]{value: v}
}

// Pending wraps a decision that will be delivered through d. The pipeline
// treats Pending(nil) as a block.
func Pending[T any](d *Deferred[T]) Async[T] {
	return Async[T]{deferred: d, missing: d == nil}
}

// Missing reports whether the value came from Pending(nil).
func (a Async[T]) Missing() bool {
	return a.missing
}

func (a Async[T]) IsPending() bool {
	return a.deferred != nil
}

// Value returns the immediate value.
func (a Async[T]) Value() T {
	return a.value
}

// Deferred returns the pending handle, or nil for immediate values.
func (a Async[T]) Deferred() *Deferred[T] {
	return a.deferred
}
