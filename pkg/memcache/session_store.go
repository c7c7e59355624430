package mem

import (
	"time"

	"github.com/patrickmn/go-cache"

	"travelbuddy/internal/models/trip_models"
)

type SessionStore interface {
	// Get returns the state for id if it has not expired.
	Get(id string) (trip_models.WizardState, bool)

	// Set stores the state and restarts its TTL.
	Set(state trip_models.WizardState)

	Delete(id string)
}

// Sessions keeps wizard states in memory. Expired entries are swept every ttl/2.
type Sessions struct {
	c   *cache.Cache
	ttl time.Duration
}

func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Sessions{
		c:   cache.New(ttl, ttl/2),
		ttl: ttl,
	}
}

func (s *Sessions) Get(id string) (trip_models.WizardState, bool) {
	v, ok := s.c.Get(id)
	if !ok {
		return trip_models.WizardState{}, false
	}
	state, ok := v.(trip_models.WizardState)
	if !ok {
		return trip_models.WizardState{}, false
	}
	// Callers get their own copy so a later Set is the only way to change the stored state.
	return state.Clone(), true
}

func (s *Sessions) Set(state trip_models.WizardState) {
	s.c.Set(state.SessionID, state.Clone(), s.ttl)
}

func (s *Sessions) Delete(id string) {
	s.c.Delete(id)
}

func (s *Sessions) Count() int {
	return s.c.ItemCount()
}
