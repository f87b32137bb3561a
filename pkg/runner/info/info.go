// Package info prints where the store lives and what it holds.
package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/worklog/pkg/app"
	"tableflip.dev/worklog/pkg/store"
	"tableflip.dev/worklog/pkg/timer"
)

type Info struct {
	Config  store.Config
	Service *app.Service
	Out     io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("WORKLOG_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "WORKLOG_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "WORKLOG_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}
	if n.Service == nil {
		return fmt.Errorf("no store to describe")
	}

	tbl := uitable.New()
	tbl.AddRow("Config.path:", n.Config.BasePath())
	tbl.AddRow("Config.backup.url:", n.Config.BackupURL())
	tbl.AddRow("Today:", n.Service.Date())

	dates := n.Service.NotesRepo.Dates(ctx)
	notes := 0
	for _, d := range dates {
		notes += len(n.Service.NotesRepo.Load(d))
	}
	timers := 0
	for _, k := range n.Service.KV.Keys(ctx) {
		if _, ok := timer.ParseStorageKey(k); ok {
			timers++
		}
	}
	tbl.AddRow("Days:", len(dates))
	tbl.AddRow("Notes:", notes)
	tbl.AddRow("Timers:", timers)
	if len(dates) > 0 {
		tbl.AddRow("First day:", dates[0])
		tbl.AddRow("Last day:", dates[len(dates)-1])
	}
	_, _ = fmt.Fprintln(out, tbl)
	return nil
}
