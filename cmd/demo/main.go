// Command demo fills today's page of the configured store with sample notes
// and timers, then prints the day.
package main

import (
	"context"
	"fmt"

	"tableflip.dev/worklog/pkg/app"
	"tableflip.dev/worklog/pkg/note"
	"tableflip.dev/worklog/pkg/printers"
	"tableflip.dev/worklog/pkg/store"
	"tableflip.dev/worklog/pkg/timefmt"
	"tableflip.dev/worklog/pkg/timer"
)

type sample struct {
	fields   map[note.Field]string
	elapsed  timefmt.HMS
	canceled bool
}

var samples = []sample{{
	fields: map[note.Field]string{
		note.ProjectID:     "PRJ-42",
		note.AttemptID:     "a-1001",
		note.OperationID:   "op-7",
		note.FailingIssues: "Step 3 returned the wrong total.",
		note.Discussion:    "Reported upstream.",
	},
	elapsed: timefmt.HMS{Minutes: 25, Seconds: 10},
}, {
	fields: map[note.Field]string{
		note.ProjectID:        "PRJ-42",
		note.AttemptID:        "a-1002",
		note.NonFailingIssues: "Slow first load.",
	},
	elapsed:  timefmt.HMS{Minutes: 4},
	canceled: true,
}, {
	fields: map[note.Field]string{
		note.ProjectID:   "PRJ-7",
		note.OperationID: "op-12",
	},
	elapsed: timefmt.HMS{Hours: 1, Minutes: 2, Seconds: 3},
}}

// blank returns the day's empty note, creating one when none is waiting.
func blank(svc *app.Service) *note.Note {
	for _, n := range svc.Notes.NotesForCurrentDate() {
		if n.IsEmpty() {
			return n
		}
	}
	return svc.Notes.CheckAndCreateNewNote("")
}

func main() {
	cfg, err := store.LoadConfig()
	if err != nil {
		panic(err)
	}
	disk, err := store.Open(cfg)
	if err != nil {
		panic(err)
	}
	svc, err := app.New(cfg, disk, app.Options{Tick: -1})
	if err != nil {
		panic(err)
	}
	defer svc.Close()

	ctx := context.Background()
	if _, err := svc.Start(ctx); err != nil {
		panic(err)
	}

	for _, s := range samples {
		n := blank(svc)
		if n == nil {
			panic("today already has a note in progress")
		}
		for _, f := range note.Fields() {
			if v, ok := s.fields[f]; ok {
				svc.Notes.SetField(n.Number, f, v)
			}
		}
		svc.Notes.EditNoteTimer(n.Number, s.elapsed)
		svc.Notes.CompleteNoteEditing(n.Number, s.canceled)
	}

	if _, err := svc.Timers.EditTimer(timer.Sheetwork, timefmt.HMS{Minutes: 15}, ""); err != nil {
		panic(err)
	}
	if _, err := svc.Timers.EditTimer(timer.Blocked, timefmt.HMS{Minutes: 5, Seconds: 30}, ""); err != nil {
		panic(err)
	}

	pp := printers.PrettyPrint{Now: svc.Now()}
	pp.Title(svc.Date())
	pp.Notes(svc.Notes.NotesForCurrentDate()...)
	pp.Timers(svc.Timers.Records(""))
	fmt.Println()
}
