package controller

import (
	"context"
	"strings"
	"sync"

	"tableflip.dev/worklog/pkg/event"
	"tableflip.dev/worklog/pkg/repository"
)

// SearchEvent carries the outcome of a search.
type SearchEvent struct {
	Query   string
	Results []repository.DatedRecord
}

// SearchController runs note searches and remembers whether one is active.
type SearchController struct {
	repo *repository.NotesRepository

	mu      sync.RWMutex
	query   string
	results []repository.DatedRecord

	SearchChanged event.Emitter[SearchEvent]
}

// NewSearchController returns an inactive search over repo.
func NewSearchController(repo *repository.NotesRepository, opts ...Option) *SearchController {
	o := buildOptions(opts)
	s := &SearchController{repo: repo}
	label(&s.SearchChanged, "searchChanged", o.log)
	return s
}

// Search runs query and keeps it active. A blank query clears the search.
func (s *SearchController) Search(ctx context.Context, query string) []repository.DatedRecord {
	query = strings.TrimSpace(query)
	if query == "" {
		s.Clear()
		return nil
	}
	results := s.repo.SearchNotes(ctx, query)

	s.mu.Lock()
	s.query = query
	s.results = results
	s.mu.Unlock()

	s.SearchChanged.Emit(SearchEvent{Query: query, Results: results})
	return results
}

// Active reports whether a search is showing.
func (s *SearchController) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query != ""
}

// Query returns the active query.
func (s *SearchController) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// Results returns the results of the active query.
func (s *SearchController) Results() []repository.DatedRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]repository.DatedRecord, len(s.results))
	copy(out, s.results)
	return out
}

// Clear ends the search.
func (s *SearchController) Clear() {
	s.mu.Lock()
	was := s.query != ""
	s.query = ""
	s.results = nil
	s.mu.Unlock()
	if was {
		s.SearchChanged.Emit(SearchEvent{})
	}
}
