// internal/bot/gate.go
package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/cinegram/cinegram/internal/catalog"
	"github.com/cinegram/cinegram/internal/gateway"
)

// Gate checks required-channel membership before user-facing actions.
// Verdicts are cached on the user row and honored within a TTL; sensitive
// actions (downloads) and the "I've joined" button bypass the cache.
type Gate struct {
	gw       gateway.Gateway
	store    *catalog.Store
	channels []string
	cacheTTL time.Duration
	logger   *slog.Logger
}

func NewGate(gw gateway.Gateway, store *catalog.Store, channels []string, cacheTTL time.Duration, logger *slog.Logger) *Gate {
	return &Gate{
		gw:       gw,
		store:    store,
		channels: channels,
		cacheTTL: cacheTTL,
		logger:   logger.With("component", "gate"),
	}
}

// Channels returns the configured required channels.
func (g *Gate) Channels() []string { return g.channels }

// Enabled reports whether any channel is required at all.
func (g *Gate) Enabled() bool { return len(g.channels) > 0 }

// Allow reports whether the user may proceed. A cached positive verdict
// younger than the TTL is trusted; everything else goes to the gateway.
func (g *Gate) Allow(ctx context.Context, user *catalog.User) bool {
	if !g.Enabled() {
		return true
	}
	if user.Joined && user.CheckedAt != nil && time.Since(*user.CheckedAt) < g.cacheTTL {
		return true
	}
	return g.Recheck(ctx, user)
}

// Recheck queries the gateway for every required channel, ignoring any
// cached verdict, and persists the result. Lookup errors fail closed.
func (g *Gate) Recheck(ctx context.Context, user *catalog.User) bool {
	if !g.Enabled() {
		return true
	}

	joined := true
	for _, channel := range g.channels {
		status, err := g.gw.ChatMember(ctx, channel, user.ID)
		if err != nil {
			g.logger.Warn("membership lookup failed", "channel", channel, "user", user.ID, "error", err)
			joined = false
			break
		}
		if !status.Satisfied() {
			joined = false
			break
		}
	}

	now := time.Now()
	if err := g.store.SetMembership(user.ID, joined, now); err != nil {
		g.logger.Error("persisting membership verdict", "user", user.ID, "error", err)
	}
	user.Joined = joined
	user.CheckedAt = &now
	return joined
}
