package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchControllerLifecycle(t *testing.T) {
	f := newFixture(map[string]string{
		"2024-03-01": `{"1":{"projectID":"alpha-1"},"2":{"projectID":"beta"}}`,
		"2024-03-04": `{"1":{"attemptID":"ALPHA-2"}}`,
	})
	var events []SearchEvent
	f.search.SearchChanged.Subscribe(func(e SearchEvent) { events = append(events, e) })
	ctx := context.Background()

	assert.False(t, f.search.Active())

	got := f.search.Search(ctx, "  alpha ")
	require.Len(t, got, 2)
	assert.Equal(t, "2024-03-04", got[0].Date)
	assert.Equal(t, "2024-03-01", got[1].Date)
	assert.True(t, f.search.Active())
	assert.Equal(t, "alpha", f.search.Query())
	assert.Len(t, f.search.Results(), 2)

	assert.Nil(t, f.search.Search(ctx, "   "))
	assert.False(t, f.search.Active())
	assert.Empty(t, f.search.Results())

	f.search.Clear()
	assert.Len(t, events, 2, "clearing an inactive search emits nothing")
}
