package repository

import (
	"github.com/bytedance/sonic"

	"tableflip.dev/worklog/pkg/logging"
	"tableflip.dev/worklog/pkg/store"
	"tableflip.dev/worklog/pkg/timer"
)

// TimerRepository persists category timers under timer_{date}_{category}.
type TimerRepository struct {
	kv  store.KV
	log logging.Logger
}

// NewTimerRepository returns a repository over kv. A nil logger logs to stderr.
func NewTimerRepository(kv store.KV, log logging.Logger) *TimerRepository {
	return &TimerRepository{kv: kv, log: logging.OrDefault(log)}
}

// Load returns the stored timer, or a stopped zero timer when there is none
// or it cannot be read.
func (r *TimerRepository) Load(date string, c timer.Category) timer.Record {
	key := timer.Key{Date: date, Category: c}.StorageKey()
	val, found, err := r.kv.Get(key)
	if err != nil {
		r.log.Printf("timers: read %s: %v", key, err)
		return timer.Record{}
	}
	if !found {
		return timer.Record{}
	}
	var w timer.Wire
	if err := sonic.Unmarshal(val, &w); err != nil {
		r.log.Printf("timers: decode %s: %v", key, err)
		return timer.Record{}
	}
	return timer.FromWire(w)
}

// LoadAll returns every category for a day.
func (r *TimerRepository) LoadAll(date string) map[timer.Category]timer.Record {
	out := make(map[timer.Category]timer.Record, len(timer.Categories()))
	for _, c := range timer.Categories() {
		out[c] = r.Load(date, c)
	}
	return out
}

// Save writes one timer.
func (r *TimerRepository) Save(date string, c timer.Category, rec timer.Record) bool {
	key := timer.Key{Date: date, Category: c}.StorageKey()
	data, err := sonic.Marshal(rec.ToWire())
	if err != nil {
		r.log.Printf("timers: encode %s: %v", key, err)
		return false
	}
	if err := r.kv.Set(key, data); err != nil {
		r.log.Printf("timers: write %s: %v", key, err)
		return false
	}
	return true
}

// Delete removes one timer.
func (r *TimerRepository) Delete(date string, c timer.Category) bool {
	key := timer.Key{Date: date, Category: c}.StorageKey()
	if err := r.kv.Remove(key); err != nil {
		r.log.Printf("timers: remove %s: %v", key, err)
		return false
	}
	return true
}
