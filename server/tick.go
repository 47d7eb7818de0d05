package server

import (
	"sync"
	"time"

	"duelarena/game"
)

var tickInterval = time.Second / game.TickRate

// schedule is the cancellable handle of a room's tick goroutine.
type schedule struct {
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

// startTickerLocked launches the room's fixed-rate loop unless one is
// already running or the room is driven manually.
func (r *Room) startTickerLocked() {
	if r.manual || r.sched != nil {
		return
	}
	s := &schedule{quit: make(chan struct{}), done: make(chan struct{})}
	r.sched = s
	go r.run(s)
}

// run steps the room once per interval: inputs were already latched by
// SetInput, so each tick is step, then publish.
func (r *Room) run(s *schedule) {
	defer close(s.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			if !r.Tick() {
				return
			}
		}
	}
}

// halt stops the loop and waits for an in-flight tick to finish. Safe to
// call more than once and on a nil schedule.
func (s *schedule) halt() {
	if s == nil {
		return
	}
	s.once.Do(func() { close(s.quit) })
	<-s.done
}
