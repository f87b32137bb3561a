package app

import (
	"context"
)

// MigrationResult reports what Migrate rewrote.
type MigrationResult struct {
	// Dates lists the days that were rewritten, oldest first.
	Dates []string
	// Records counts notes converted from the legacy single-text shape.
	Records int
}

// PendingMigrations lists the days still holding legacy-shaped notes
// without touching them.
func (s *Service) PendingMigrations(ctx context.Context) ([]string, error) {
	var out []string
	for _, date := range s.NotesRepo.Dates(ctx) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(s.NotesRepo.Inspect(date).Legacy) > 0 {
			out = append(out, date)
		}
	}
	return out, nil
}

// Migrate rewrites every day holding legacy-shaped notes in the current
// shape. Decoding already maps the legacy text onto the failing issues
// field, so this only makes the conversion permanent.
func (s *Service) Migrate(ctx context.Context) (MigrationResult, error) {
	var res MigrationResult
	dates, err := s.PendingMigrations(ctx)
	if err != nil {
		return res, err
	}
	for _, date := range dates {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		day := s.NotesRepo.Inspect(date)
		if !s.NotesRepo.SaveAll(date, day.Records) {
			s.Log.Printf("app: migrate %s failed", date)
			continue
		}
		res.Dates = append(res.Dates, date)
		res.Records += len(day.Legacy)
	}
	return res, nil
}
