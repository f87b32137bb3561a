package stats

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/worklog/pkg/app"
	"tableflip.dev/worklog/pkg/logging"
	"tableflip.dev/worklog/pkg/store"
)

func start(t *testing.T) *app.Service {
	t.Helper()
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local)
	s, err := app.New(nil, store.NewMemory(map[string]string{
		"2024-03-05":                 `{"1":{"completed":true,"additionalTime":60},"2":{"completed":true,"canceled":true}}`,
		"2024-03-04":                 `{"1":{"completed":true,"additionalTime":30}}`,
		"timer_2024-03-05_sheetwork": `{"startTime":null,"totalTime":120}`,
	}), app.Options{Log: logging.Discard, Now: func() time.Time { return now }, Tick: -1, Date: "2024-03-05"})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	_, err = s.Start(context.Background())
	require.NoError(t, err)
	return s
}

func TestStatsDayJSON(t *testing.T) {
	s := start(t)
	var buf bytes.Buffer
	require.NoError(t, (&Stats{Service: s, JSON: true, Out: &buf}).Do(context.Background()))
	out := buf.String()
	assert.Contains(t, out, `"completed": 1`)
	assert.Contains(t, out, `"canceled": 1`)
	assert.Contains(t, out, `"offPlatformSeconds": 120`)
	assert.Contains(t, out, `"totalSeconds": 180`)
}

func TestStatsWindow(t *testing.T) {
	s := start(t)
	var buf bytes.Buffer
	require.NoError(t, (&Stats{Service: s, Window: "3d", Out: &buf}).Do(context.Background()))
	out := buf.String()
	assert.Contains(t, out, "2 active days")
	assert.Contains(t, out, "2024-03-04")
	assert.Contains(t, out, "00:03:30")
}
