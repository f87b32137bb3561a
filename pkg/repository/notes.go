// Package repository adapts the key-value store to notes and timers. Every
// failure is logged and turned into an empty result or a false return, so
// callers never see storage errors.
package repository

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"tableflip.dev/worklog/pkg/logging"
	"tableflip.dev/worklog/pkg/note"
	"tableflip.dev/worklog/pkg/store"
	"tableflip.dev/worklog/pkg/timefmt"
)

// DatedRecord is a stored note together with its key.
type DatedRecord struct {
	Date   string
	Number int
	Record note.Record
}

// Key returns the composite key of d.
func (d DatedRecord) Key() note.Key {
	return note.Key{Date: d.Date, Number: d.Number}
}

// Day is the result of inspecting one stored day.
type Day struct {
	Records map[int]note.Record
	// Corrupt lists the entries that could not be decoded. "*" means the
	// whole day value was unreadable.
	Corrupt []string
	// Legacy lists numbers that were stored in an older schema.
	Legacy []int
}

// NotesRepository persists notes as one JSON object per day, keyed by the
// day (YYYY-MM-DD) and mapping note number to record.
type NotesRepository struct {
	kv  store.KV
	log logging.Logger
}

// NewNotesRepository returns a repository over kv. A nil logger logs to stderr.
func NewNotesRepository(kv store.KV, log logging.Logger) *NotesRepository {
	return &NotesRepository{kv: kv, log: logging.OrDefault(log)}
}

// readRaw returns the undecoded entries of a day. ok is false when the day
// value exists but is not a JSON object.
func (r *NotesRepository) readRaw(date string) (entries map[string]json.RawMessage, ok bool) {
	val, found, err := r.kv.Get(date)
	if err != nil {
		r.log.Printf("notes: read %s: %v", date, err)
		return map[string]json.RawMessage{}, true
	}
	if !found {
		return map[string]json.RawMessage{}, true
	}
	entries = map[string]json.RawMessage{}
	if err := sonic.Unmarshal(val, &entries); err != nil || entries == nil {
		return map[string]json.RawMessage{}, false
	}
	return entries, true
}

func (r *NotesRepository) writeRaw(date string, entries map[string]json.RawMessage) bool {
	if len(entries) == 0 {
		if err := r.kv.Remove(date); err != nil {
			r.log.Printf("notes: remove %s: %v", date, err)
			return false
		}
		return true
	}
	data, err := sonic.ConfigStd.Marshal(entries)
	if err != nil {
		r.log.Printf("notes: encode %s: %v", date, err)
		return false
	}
	if err := r.kv.Set(date, data); err != nil {
		r.log.Printf("notes: write %s: %v", date, err)
		return false
	}
	return true
}

// Inspect decodes a day without modifying storage.
func (r *NotesRepository) Inspect(date string) Day {
	day := Day{Records: map[int]note.Record{}}
	entries, ok := r.readRaw(date)
	if !ok {
		day.Corrupt = []string{"*"}
		return day
	}
	for k, raw := range entries {
		n, err := strconv.Atoi(k)
		if err != nil || n < 1 {
			day.Corrupt = append(day.Corrupt, k)
			continue
		}
		rec, schema, err := note.Decode(raw)
		if err != nil {
			day.Corrupt = append(day.Corrupt, k)
			continue
		}
		if schema == note.SchemaLegacy {
			day.Legacy = append(day.Legacy, n)
		}
		day.Records[n] = rec
	}
	sort.Strings(day.Corrupt)
	sort.Ints(day.Legacy)
	return day
}

// Load returns the decodable notes of a day. It never writes; see Repair.
func (r *NotesRepository) Load(date string) map[int]note.Record {
	return r.Inspect(date).Records
}

// Repair rewrites a day without its corrupt entries and returns how many
// were dropped. A day left with no notes is removed.
func (r *NotesRepository) Repair(date string) int {
	day := r.Inspect(date)
	if len(day.Corrupt) == 0 {
		return 0
	}
	for _, k := range day.Corrupt {
		r.log.Printf("notes: dropping corrupt record %s/%s", date, k)
	}
	if !r.SaveAll(date, day.Records) {
		return 0
	}
	return len(day.Corrupt)
}

// RepairAll runs Repair over every stored day.
func (r *NotesRepository) RepairAll(ctx context.Context) int {
	dropped := 0
	for _, date := range r.Dates(ctx) {
		dropped += r.Repair(date)
	}
	return dropped
}

// Save writes one note, leaving the other entries of its day untouched.
func (r *NotesRepository) Save(date string, number int, rec note.Record) bool {
	raw, err := note.Encode(rec)
	if err != nil {
		r.log.Printf("notes: encode %s/%d: %v", date, number, err)
		return false
	}
	entries, ok := r.readRaw(date)
	if !ok {
		r.log.Printf("notes: replacing unreadable day %s", date)
	}
	entries[strconv.Itoa(number)] = raw
	return r.writeRaw(date, entries)
}

// SaveAll replaces a day with exactly records.
func (r *NotesRepository) SaveAll(date string, records map[int]note.Record) bool {
	entries := make(map[string]json.RawMessage, len(records))
	for n, rec := range records {
		raw, err := note.Encode(rec)
		if err != nil {
			r.log.Printf("notes: encode %s/%d: %v", date, n, err)
			return false
		}
		entries[strconv.Itoa(n)] = raw
	}
	return r.writeRaw(date, entries)
}

// Delete removes one note. Deleting a missing note succeeds.
func (r *NotesRepository) Delete(date string, number int) bool {
	entries, ok := r.readRaw(date)
	if !ok {
		return false
	}
	k := strconv.Itoa(number)
	if _, found := entries[k]; !found {
		return true
	}
	delete(entries, k)
	return r.writeRaw(date, entries)
}

// Renumber reassigns the numbers of a day to 1..N keeping their order.
func (r *NotesRepository) Renumber(date string) bool {
	records := r.Load(date)
	numbers := sortedNumbers(records)
	dense := make(map[int]note.Record, len(numbers))
	changed := false
	for i, n := range numbers {
		if n != i+1 {
			changed = true
		}
		dense[i+1] = records[n]
	}
	if !changed {
		return true
	}
	return r.SaveAll(date, dense)
}

// NextNumber returns the smallest positive number not used on the day.
func (r *NotesRepository) NextNumber(date string) int {
	records := r.Load(date)
	n := 1
	for {
		if _, used := records[n]; !used {
			return n
		}
		n++
	}
}

// Dates lists every stored day, oldest first.
func (r *NotesRepository) Dates(ctx context.Context) []string {
	var dates []string
	for _, k := range r.kv.Keys(ctx) {
		if timefmt.IsDate(k) {
			dates = append(dates, k)
		}
	}
	sort.Strings(dates)
	return dates
}

// SearchNotes matches query case-insensitively against the project, attempt
// and operation IDs of every stored note. Results are newest day first and,
// within a day, highest number first. An empty query matches nothing.
func (r *NotesRepository) SearchNotes(ctx context.Context, query string) []DatedRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	dates := r.Dates(ctx)
	var out []DatedRecord
	for i := len(dates) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			break
		}
		records := r.Load(dates[i])
		numbers := sortedNumbers(records)
		for j := len(numbers) - 1; j >= 0; j-- {
			rec := records[numbers[j]]
			if matches(rec, q) {
				out = append(out, DatedRecord{Date: dates[i], Number: numbers[j], Record: rec})
			}
		}
	}
	return out
}

func matches(rec note.Record, q string) bool {
	for _, v := range []string{rec.ProjectID, rec.AttemptID, rec.OperationID} {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

// AllCompletedNotes returns every completed note, oldest day first and by
// ascending number within a day.
func (r *NotesRepository) AllCompletedNotes(ctx context.Context) []DatedRecord {
	var out []DatedRecord
	for _, date := range r.Dates(ctx) {
		records := r.Load(date)
		for _, n := range sortedNumbers(records) {
			if records[n].Completed {
				out = append(out, DatedRecord{Date: date, Number: n, Record: records[n]})
			}
		}
	}
	return out
}

func sortedNumbers(records map[int]note.Record) []int {
	numbers := make([]int, 0, len(records))
	for n := range records {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}
