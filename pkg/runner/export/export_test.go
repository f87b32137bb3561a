package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
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
		"2024-01-10": `{"1":{"projectID":"ANCIENT","completed":true}}`,
		"2024-03-04": `{"1":{"projectID":"P, with comma","completed":true},"2":{"projectID":"open"}}`,
	}), app.Options{Log: logging.Discard, Now: func() time.Time { return now }, Tick: -1, Date: "2024-03-05"})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	_, err = s.Start(context.Background())
	require.NoError(t, err)
	return s
}

func TestExportStdout(t *testing.T) {
	s := start(t)
	var buf bytes.Buffer
	require.NoError(t, (&Export{Service: s, Window: "1w", Path: "-", Out: &buf}).Do(context.Background()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Date,"))
	assert.Contains(t, lines[1], `"P, with comma"`)
}

func TestExportAllToFile(t *testing.T) {
	s := start(t)
	path := filepath.Join(t.TempDir(), "out.csv")
	var buf bytes.Buffer
	require.NoError(t, (&Export{Service: s, All: true, Path: path, Out: &buf}).Do(context.Background()))
	assert.Contains(t, buf.String(), "exported 2 notes to "+path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "ANCIENT")
	assert.NotContains(t, string(b), "open")
}
