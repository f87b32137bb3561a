package commands

import (
	"context"
	"os"
	"os/signal"

	"tableflip.dev/worklog/pkg/app"
	"tableflip.dev/worklog/pkg/commands/options"
	"tableflip.dev/worklog/pkg/store"
)

// session is one invocation: configuration, the on-disk store and a started
// service for the selected day.
type session struct {
	cfg     store.Config
	disk    *store.Disk
	svc     *app.Service
	dropped int
}

func openSession(ctx context.Context, do *options.DateOptions) (*session, error) {
	var date string
	if do != nil {
		var err error
		if date, err = do.GetDate(); err != nil {
			return nil, err
		}
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	disk, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := app.New(cfg, disk, app.Options{Date: date})
	if err != nil {
		return nil, err
	}
	dropped, err := svc.Start(ctx)
	if err != nil {
		svc.Close()
		return nil, err
	}
	return &session{cfg: cfg, disk: disk, svc: svc, dropped: dropped}, nil
}

func (s *session) Close() {
	s.svc.Close()
}

// withSession runs fn against a started session and closes it afterwards.
func withSession(do *options.DateOptions, fn func(ctx context.Context, s *session) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	s, err := openSession(ctx, do)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}
