package services

import (
	"context"
	"fmt"

	"codefolio/config"
	"codefolio/db"
	"codefolio/models"
	"codefolio/platforms"
)

// StatsService owns the aggregation layer: the per-platform adapters, the
// username verifier, and the per-session cache registry.
type StatsService struct {
	aggregator *platforms.Aggregator
	verifier   *platforms.Verifier
	caches     *platforms.CacheRegistry
}

var statsService *StatsService

// InitStatsService builds the adapters from config and wires the service
func InitStatsService(cfg *config.Config) {
	opts := platforms.ClientOptions{
		Timeout:           cfg.Platforms.FetchTimeout,
		RequestsPerSecond: cfg.Platforms.RequestsPerSecond,
		Burst:             cfg.Platforms.Burst,
	}

	adapters := []platforms.Adapter{
		platforms.NewLeetCodeAdapter(cfg.Platforms.LeetCodeBaseURL, opts),
		platforms.NewCodeForcesAdapter(cfg.Platforms.CodeForcesBaseURL, opts),
		platforms.NewCodeChefAdapter(cfg.Platforms.CodeChefBaseURL, opts),
		platforms.NewGeeksForGeeksAdapter(cfg.Platforms.GeeksForGeeksBaseURL, opts),
	}

	statsService = &StatsService{
		aggregator: platforms.NewAggregator(adapters...),
		verifier:   platforms.NewVerifier(adapters...),
		caches:     platforms.NewCacheRegistry(),
	}
}

func GetStatsService() *StatsService {
	if statsService == nil {
		panic("stats service is not initialized")
	}
	return statsService
}

// cacheFor returns the session cache for email, wiring a refresh closure
// that re-reads the username map so a refresh always sees the latest links.
func (s *StatsService) cacheFor(email string) *platforms.Cache {
	return s.caches.ForUser(email, func(ctx context.Context) (*models.AggregatedStats, error) {
		usernames, err := db.GetPlatformUsernames(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("reading platform usernames: %w", err)
		}
		return s.aggregator.AggregateAll(ctx, usernames), nil
	})
}

// StatsForUser returns the aggregated dashboard payload for email. The
// cached value is served when present unless refresh is set; an empty cache
// always triggers a full aggregation.
func (s *StatsService) StatsForUser(ctx context.Context, email string, refresh bool) (*models.AggregatedStats, error) {
	cache := s.cacheFor(email)
	if !refresh {
		if cached := cache.Get(); cached != nil {
			return cached, nil
		}
	}
	return cache.RefreshAll(ctx)
}

// PublicStats fetches one platform's stats for an arbitrary username,
// bypassing any session cache. Used for viewing another user's profile.
func (s *StatsService) PublicStats(ctx context.Context, p models.Platform, username string) (*models.PlatformStats, error) {
	adapter := s.aggregator.Adapter(p)
	if adapter == nil {
		return nil, fmt.Errorf("unsupported platform: %s", p)
	}
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	return adapter.FetchStats(ctx, username)
}

// Verify checks whether a handle exists on a platform. Advisory only.
func (s *StatsService) Verify(ctx context.Context, p models.Platform, username string) bool {
	return s.verifier.Verify(ctx, p, username)
}

// InvalidatePlatform clears one platform's slot in the session cache after
// the user unlinks a handle, so stale stats are not served.
func (s *StatsService) InvalidatePlatform(email string, p models.Platform) {
	s.cacheFor(email).Invalidate(p)
}

// DropCache ends the cache lifecycle for a session (logout).
func (s *StatsService) DropCache(email string) {
	s.caches.Drop(email)
}
