package state

import (
	"context"
	"sort"
	"sync"
	"time"

	"tableflip.dev/worklog/pkg/event"
	"tableflip.dev/worklog/pkg/logging"
	"tableflip.dev/worklog/pkg/timer"
)

// TimerChange is emitted by TimerState whenever a record is replaced.
type TimerChange struct {
	Key    timer.Key
	Record timer.Record
}

// TimerState holds category timers and the live-update intervals of the
// running ones. It is safe for concurrent use.
type TimerState struct {
	mu        sync.RWMutex
	timers    map[timer.Key]timer.Record
	intervals map[timer.Key]context.CancelFunc
	wg        sync.WaitGroup

	Changed event.Emitter[TimerChange]
}

// NewTimerState returns an empty state. A nil logger logs to stderr.
func NewTimerState(log logging.Logger) *TimerState {
	s := &TimerState{
		timers:    make(map[timer.Key]timer.Record),
		intervals: make(map[timer.Key]context.CancelFunc),
	}
	s.Changed.Name = "timerState"
	s.Changed.Logger = log
	return s
}

// Set stores rec under k.
func (s *TimerState) Set(k timer.Key, rec timer.Record) {
	s.mu.Lock()
	s.timers[k] = rec
	s.mu.Unlock()
	s.Changed.Emit(TimerChange{Key: k, Record: rec})
}

// Get returns the record under k and whether it is known.
func (s *TimerState) Get(k timer.Key) (timer.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.timers[k]
	return rec, ok
}

// ForDate returns the known timers of a day.
func (s *TimerState) ForDate(date string) map[timer.Category]timer.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[timer.Category]timer.Record)
	for k, rec := range s.timers {
		if k.Date == date {
			out[k.Category] = rec
		}
	}
	return out
}

// StartInterval calls fn every period until StopInterval(k) or Cleanup. An
// existing interval for k is replaced. A non-positive period does nothing.
func (s *TimerState) StartInterval(k timer.Key, period time.Duration, fn func()) {
	if period <= 0 || fn == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if prev, ok := s.intervals[k]; ok {
		prev()
	}
	s.intervals[k] = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// A tick can race with cancel; re-check before firing.
				if ctx.Err() != nil {
					return
				}
				fn()
			}
		}
	}()
}

// StopInterval stops the interval for k, if any.
func (s *TimerState) StopInterval(k timer.Key) {
	s.mu.Lock()
	cancel, ok := s.intervals[k]
	delete(s.intervals, k)
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

// HasInterval reports whether k has a live interval.
func (s *TimerState) HasInterval(k timer.Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.intervals[k]
	return ok
}

// Intervals lists the keys with live intervals.
func (s *TimerState) Intervals() []timer.Key {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]timer.Key, 0, len(s.intervals))
	for k := range s.intervals {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Cleanup stops every interval and waits for their goroutines to exit.
func (s *TimerState) Cleanup() {
	s.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(s.intervals))
	for k, cancel := range s.intervals {
		cancels = append(cancels, cancel)
		delete(s.intervals, k)
	}
	s.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
	s.wg.Wait()
}
