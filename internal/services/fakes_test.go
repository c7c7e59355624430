package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"travelbuddy/internal/models/trip_models"
	"travelbuddy/pkg/scraper"
	"travelbuddy/pkg/utils"
)

// fakeBackend answers by matching a substring of the prompt; unmatched prompts get fallback.
type fakeBackend struct {
	mu       sync.Mutex
	replies  map[string]string
	fallback string
	err      error
	prompts  []string
}

func (f *fakeBackend) Generate(ctx context.Context, req utils.GenerateRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, req.Prompt)
	if f.err != nil {
		return "", f.err
	}
	for needle, reply := range f.replies {
		if strings.Contains(req.Prompt, needle) {
			return reply, nil
		}
	}
	return f.fallback, nil
}

func (f *fakeBackend) Ping(ctx context.Context) error { return f.err }

func (f *fakeBackend) Provider() string { return "fake" }

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func unreachableBackend() *fakeBackend {
	return &fakeBackend{err: utils.NewGenerationError(utils.ErrBackendUnreachable, "error connecting to Ollama", errors.New("connection refused"))}
}

type fakeSearcher struct {
	links []string
	err   error
}

func (f *fakeSearcher) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	return f.links, f.err
}

type fakeFetcher struct {
	pages map[string]scraper.PageDetails
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (scraper.PageDetails, error) {
	p, ok := f.pages[url]
	if !ok {
		return scraper.PageDetails{}, errors.New("fetch failed")
	}
	p.URL = url
	return p, nil
}

func mustPromptService(t testing.TB, template string) *PromptService {
	t.Helper()
	p, err := NewPromptService(template)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func tokyoPreferences() trip_models.TripPreferences {
	return trip_models.TripPreferences{
		Origin:         "Seoul",
		Destination:    "Tokyo",
		StartDate:      trip_models.ParseDate("2025-04-01"),
		EndDate:        trip_models.ParseDate("2025-04-04"),
		Budget:         trip_models.BudgetModerate,
		Transportation: trip_models.TransportPublic,
		Activities:     []string{"Food", "Museums"},
	}
}
