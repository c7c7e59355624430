package memcache_fx

import (
	"go.uber.org/fx"

	"travelbuddy/internal/infra"
	mem "travelbuddy/pkg/memcache"
)

var Module = fx.Provide(provideSessionStore)

func provideSessionStore(cfg infra.Config) mem.SessionStore {
	return mem.NewSessions(cfg.SessionTTL)
}
