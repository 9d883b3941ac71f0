// Package mainloop provides the bridge between the HTTP gateway and the
// fixed-tick main loop. Privileged actions (restart, pose recenter)
// are enqueued by the gateway and drained by the loop once per tick, so
// "must run on the loop thread" is an explicit queue instead of an
// implicit affinity contract.
package mainloop

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"
)

// Action is a zero-argument callback executed on the main-loop
// goroutine on its next tick.
type Action func()

const defaultQueueCapacity = 16

// Queue is the bounded action relay. Post never blocks the gateway;
// Drain runs on the loop only.
type Queue struct {
	ch chan Action
}

// NewQueue creates a queue with the default capacity.
func NewQueue() *Queue {
	return NewQueueWithCapacity(defaultQueueCapacity)
}

// NewQueueWithCapacity creates a queue holding up to capacity pending
// actions.
func NewQueueWithCapacity(capacity int) *Queue {
	if capacity <= 0 {
		capacity = defaultQueueCapacity
	}
	return &Queue{ch: make(chan Action, capacity)}
}

// Post enqueues an action without waiting for it to run. Returns false
// when the queue is full (the caller already responded "initiated" to
// its client; a dropped duplicate restart is harmless).
func (q *Queue) Post(a Action) bool {
	if a == nil {
		return false
	}
	select {
	case q.ch <- a:
		return true
	default:
		return false
	}
}

// Pending returns the number of queued actions.
func (q *Queue) Pending() int {
	return len(q.ch)
}

// Drain executes every pending action in post order and returns the
// count. A panicking action is logged and must not take the loop down.
func (q *Queue) Drain() int {
	ran := 0
	for {
		select {
		case a := <-q.ch:
			runAction(a)
			ran++
		default:
			return ran
		}
	}
}

func runAction(a Action) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("[MainLoop] action panicked: %v\n%s", r, debug.Stack())
		}
	}()
	a()
}

// Loop is the fixed-tick runner. Each tick drains the action queue and
// then invokes the tick callback (simulation/tracking work).
type Loop struct {
	queue    *Queue
	interval time.Duration
	tick     func(now time.Time)
}

// NewLoop creates a loop with its own queue.
func NewLoop(interval time.Duration, tick func(now time.Time)) *Loop {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return &Loop{
		queue:    NewQueue(),
		interval: interval,
		tick:     tick,
	}
}

// Queue returns the loop's action queue for the gateway to post into.
func (l *Loop) Queue() *Queue {
	return l.queue
}

// Run ticks until ctx is cancelled. It never waits on the HTTP
// subsystem for anything; it only drains what has already been posted.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.queue.Drain()
			if l.tick != nil {
				l.tick(now)
			}
		}
	}
}
