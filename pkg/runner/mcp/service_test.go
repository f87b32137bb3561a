package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/worklog/pkg/app"
	"tableflip.dev/worklog/pkg/logging"
	"tableflip.dev/worklog/pkg/store"
)

const day = "2024-03-05"

func newService(t *testing.T, seed map[string]string) (*Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory(seed)
	now := func() time.Time { return time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local) }
	a, err := app.New(nil, mem, app.Options{Log: logging.Discard, Now: now, Tick: -1, Date: day})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	_, err = a.Start(context.Background())
	require.NoError(t, err)
	return NewService(a), mem
}

func TestServiceDay(t *testing.T) {
	svc, _ := newService(t, map[string]string{
		day:          `{"1":{"projectID":"PRJ-1","completed":true},"2":{"projectID":"PRJ-2"}}`,
		"2024-03-04": `{"1":{"projectID":"OLD","completed":true}}`,
	})
	ctx := context.Background()

	today, err := svc.Day(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, day, today.Date)
	require.Len(t, today.Notes, 2)
	assert.Equal(t, "PRJ-2", today.Notes[1].ProjectID)
	assert.Len(t, today.Timers, 3)

	other, err := svc.Day(ctx, "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", other.Date)
	assert.Equal(t, "OLD", other.Notes[0].ProjectID)

	back, err := svc.Day(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, day, back.Date)

	_, err = svc.Day(ctx, "yesterday")
	assert.Error(t, err)
}

func TestServiceNoteLifecycle(t *testing.T) {
	svc, mem := newService(t, nil)
	ctx := context.Background()

	view, err := svc.SetField(ctx, "", 1, "project-id", "PRJ-9")
	require.NoError(t, err)
	assert.Equal(t, "PRJ-9", view.ProjectID)
	assert.True(t, view.Running)
	assert.Contains(t, mem.Raw(day), "PRJ-9")

	_, err = svc.SetField(ctx, "", 1, "color", "red")
	assert.Error(t, err)

	after, err := svc.CompleteNote(ctx, "", 1, false)
	require.NoError(t, err)
	require.Len(t, after.Notes, 2)
	assert.True(t, after.Notes[0].Completed)
	assert.Equal(t, "blank", after.Notes[1].Status)

	_, err = svc.SetField(ctx, "", 1, "discussion", "late")
	assert.ErrorIs(t, err, ErrNoteCompleted)

	reopened, err := svc.ReopenNote(ctx, "", 1)
	require.NoError(t, err)
	assert.False(t, reopened.Completed)

	_, err = svc.ReopenNote(ctx, "", 1)
	assert.Error(t, err)

	_, err = svc.GetNote(ctx, "", 42)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestServiceTimers(t *testing.T) {
	svc, mem := newService(t, nil)
	ctx := context.Background()

	timers, err := svc.StartTimer(ctx, "sheetwork")
	require.NoError(t, err)
	for _, tv := range timers {
		assert.Equal(t, tv.Category == "sheetwork", tv.Running, tv.Category)
	}
	assert.NotEmpty(t, mem.Raw("timer_"+day+"_sheetwork"))

	timers, err = svc.StartTimer(ctx, "blocked")
	require.NoError(t, err)
	for _, tv := range timers {
		assert.Equal(t, tv.Category == "blocked", tv.Running, tv.Category)
	}

	_, err = svc.StopTimer(ctx, "blocked")
	require.NoError(t, err)

	_, err = svc.StartTimer(ctx, "lunch")
	assert.Error(t, err)
}

func TestServiceSearchAndStats(t *testing.T) {
	svc, _ := newService(t, map[string]string{
		day:          `{"1":{"projectID":"PRJ-1","completed":true}}`,
		"2024-03-01": `{"1":{"projectID":"prj-100","completed":true,"canceled":true}}`,
	})
	ctx := context.Background()

	results, err := svc.Search(ctx, "prj-1")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	st, err := svc.Stats(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, day, st.Date)
	assert.Equal(t, 1, st.Completed)

	sum, err := svc.Summary(ctx, "1w")
	require.NoError(t, err)
	assert.Len(t, sum.Days, 2)

	_, err = svc.Summary(ctx, "soon")
	assert.Error(t, err)
}

func TestArgument(t *testing.T) {
	assert.Equal(t, day, argument(map[string]any{"date": day}, "date"))
	assert.Equal(t, day, argument(map[string]any{"date": []string{day}}, "date"))
	assert.Equal(t, "", argument(map[string]any{}, "date"))
}

func TestNewServer(t *testing.T) {
	svc, _ := newService(t, nil)
	assert.NotNil(t, NewServer("worklog", "test", svc))
}
