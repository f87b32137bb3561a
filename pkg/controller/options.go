// Package controller orchestrates the note and timer lifecycles on top of the
// in-memory state and the repositories, and derives search results and
// statistics from stored data.
package controller

import (
	"time"

	"tableflip.dev/worklog/pkg/event"
	"tableflip.dev/worklog/pkg/logging"
)

// SearchStatus tells the note controller whether a search is showing.
type SearchStatus interface {
	Active() bool
}

type options struct {
	now    func() time.Time
	log    logging.Logger
	search SearchStatus
	tick   time.Duration
}

// Option configures a controller.
type Option func(*options)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets where listener and storage failures are reported.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithSearch lets the note controller skip automatic note creation while a
// search is active.
func WithSearch(s SearchStatus) Option {
	return func(o *options) { o.search = s }
}

// WithTickInterval sets how often running category timers publish live
// updates. Zero disables live updates.
func WithTickInterval(d time.Duration) Option {
	return func(o *options) { o.tick = d }
}

func buildOptions(opts []Option) options {
	o := options{
		now:  time.Now,
		tick: time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.log = logging.OrDefault(o.log)
	return o
}

func label[T any](e *event.Emitter[T], name string, log logging.Logger) {
	e.Name = name
	e.Logger = log
}
