// Package pulse counts encoder edges delivered from an asynchronous
// source and hands them to the control loop one sampling window at a
// time.
package pulse

import "sync/atomic"

// Handler is notified once per detected rising edge. Implementations
// must be cheap; the edge source may call OnEdge from an event
// goroutine at pulse rate.
type Handler interface {
	OnEdge()
}

// HandlerFunc is the func form of Handler.
type HandlerFunc func()

// OnEdge implements Handler.
func (f HandlerFunc) OnEdge() { f() }

// Counter accumulates edges between two consecutive TakeAndReset
// calls. OnEdge and TakeAndReset are safe to call concurrently; the
// swap in TakeAndReset guarantees no edge is lost or counted twice
// across the reset point.
type Counter struct {
	count atomic.Uint32
}

// OnEdge implements Handler.
func (c *Counter) OnEdge() {
	c.count.Add(1)
}

// TakeAndReset atomically returns the count accumulated since the
// previous call and resets it to zero.
func (c *Counter) TakeAndReset() uint32 {
	return c.count.Swap(0)
}

// Peek returns the current count without resetting it.
func (c *Counter) Peek() uint32 {
	return c.count.Load()
}

// Taker is the read side of a Counter, all the sampling logic needs.
type Taker interface {
	TakeAndReset() uint32
}
