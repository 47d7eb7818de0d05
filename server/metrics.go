package server

import (
	"sync/atomic"
)

// RoomMetrics records per-room counters for monitoring and debugging.
type RoomMetrics struct {
	TickCount        int64 // ticks simulated
	InputsAccepted   int64 // input snapshots stored
	InputsIgnored    int64 // inputs for players no longer in the room
	HitsLanded       int64
	SnapshotsEmitted int64
	Faults           int64 // recovered tick panics
	TotalTickNs      int64 // cumulative tick time
}

func (m *RoomMetrics) IncAccepted()  { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *RoomMetrics) IncIgnored()   { atomic.AddInt64(&m.InputsIgnored, 1) }
func (m *RoomMetrics) IncSnapshots() { atomic.AddInt64(&m.SnapshotsEmitted, 1) }
func (m *RoomMetrics) IncFaults()    { atomic.AddInt64(&m.Faults, 1) }
func (m *RoomMetrics) AddHits(n int) { atomic.AddInt64(&m.HitsLanded, int64(n)) }
func (m *RoomMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot returns a read-only copy suitable for JSON output.
func (m *RoomMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":        tick,
		"inputs_accepted":   atomic.LoadInt64(&m.InputsAccepted),
		"inputs_ignored":    atomic.LoadInt64(&m.InputsIgnored),
		"hits_landed":       atomic.LoadInt64(&m.HitsLanded),
		"snapshots_emitted": atomic.LoadInt64(&m.SnapshotsEmitted),
		"faults":            atomic.LoadInt64(&m.Faults),
		"avg_tick_ms":       avgMs,
	}
}
