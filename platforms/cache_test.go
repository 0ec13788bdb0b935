package platforms

import (
	"context"
	"reflect"
	"testing"
	"time"

	"codefolio/models"
)

func populatedResult(fetchedAt time.Time) *models.AggregatedStats {
	return &models.AggregatedStats{
		Platforms: map[models.Platform]models.StatsOutcome{
			models.PlatformLeetCode: {
				Status: models.OutcomeOK,
				Stats: &models.PlatformStats{
					Platform: models.PlatformLeetCode,
					Username: "alice",
					LeetCode: &models.LeetCodeStats{TotalSolved: 42},
				},
			},
			models.PlatformCodeForces: {
				Status: models.OutcomeOK,
				Stats: &models.PlatformStats{
					Platform:   models.PlatformCodeForces,
					Username:   "alice_cf",
					CodeForces: &models.CodeForcesStats{Rating: 1500},
				},
			},
			models.PlatformCodeChef:      {Status: models.OutcomeNotConfigured},
			models.PlatformGeeksForGeeks: {Status: models.OutcomeNotConfigured},
		},
		Usernames: models.PlatformUsernames{
			models.PlatformLeetCode:   "alice",
			models.PlatformCodeForces: "alice_cf",
		},
		FetchedAt: fetchedAt,
	}
}

func TestCacheStartsEmpty(t *testing.T) {
	cache := NewCache(func(ctx context.Context) (*models.AggregatedStats, error) {
		return populatedResult(time.Now()), nil
	})
	if got := cache.Get(); got != nil {
		t.Errorf("Expected nil before first refresh, got %+v", got)
	}
}

func TestRefreshAllPopulatesAndReplaces(t *testing.T) {
	calls := 0
	cache := NewCache(func(ctx context.Context) (*models.AggregatedStats, error) {
		calls++
		return populatedResult(time.Date(2025, 1, calls, 0, 0, 0, 0, time.UTC)), nil
	})

	first, err := cache.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("First refresh failed: %v", err)
	}
	if cache.Get() != first {
		t.Fatal("Expected cache to hold the first refresh result")
	}

	second, err := cache.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("Second refresh failed: %v", err)
	}
	if cache.Get() != second {
		t.Fatal("Expected cache to hold only the second refresh result")
	}
	if second.FetchedAt != time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC) {
		t.Errorf("Second refresh returned stale data: %v", second.FetchedAt)
	}
}

func TestInvalidateClearsOnePlatformOnly(t *testing.T) {
	refreshes := 0
	cache := NewCache(func(ctx context.Context) (*models.AggregatedStats, error) {
		refreshes++
		return populatedResult(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)), nil
	})
	if _, err := cache.RefreshAll(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	before := cache.Get()

	cache.Invalidate(models.PlatformLeetCode)

	after := cache.Get()
	if got := after.Platforms[models.PlatformLeetCode].Status; got != models.OutcomeNotConfigured {
		t.Errorf("Expected leetcode slot not_configured after invalidate, got %s", got)
	}
	if _, ok := after.Usernames[models.PlatformLeetCode]; ok {
		t.Error("Expected leetcode username to be cleared from the cached view")
	}

	// Every other slot is untouched, same values as before.
	for _, p := range []models.Platform{models.PlatformCodeForces, models.PlatformCodeChef, models.PlatformGeeksForGeeks} {
		if !reflect.DeepEqual(before.Platforms[p], after.Platforms[p]) {
			t.Errorf("Slot %s changed across invalidate: %+v vs %+v", p, before.Platforms[p], after.Platforms[p])
		}
	}
	if after.Usernames[models.PlatformCodeForces] != "alice_cf" {
		t.Error("Codeforces username should survive a leetcode invalidate")
	}

	// No network call happened.
	if refreshes != 1 {
		t.Errorf("Invalidate triggered %d extra refreshes", refreshes-1)
	}

	// The previously returned result is not mutated in place.
	if before.Platforms[models.PlatformLeetCode].Status != models.OutcomeOK {
		t.Error("Invalidate mutated the result a reader was holding")
	}
}

func TestInvalidateOnEmptyCacheIsANoop(t *testing.T) {
	cache := NewCache(func(ctx context.Context) (*models.AggregatedStats, error) {
		return populatedResult(time.Now()), nil
	})
	cache.Invalidate(models.PlatformCodeChef)
	if got := cache.Get(); got != nil {
		t.Errorf("Expected cache to stay empty, got %+v", got)
	}
}

func TestCacheRegistryLifecycle(t *testing.T) {
	registry := NewCacheRegistry()
	refresh := func(ctx context.Context) (*models.AggregatedStats, error) {
		return populatedResult(time.Now()), nil
	}

	a := registry.ForUser("alice@example.com", refresh)
	if registry.ForUser("alice@example.com", refresh) != a {
		t.Error("Expected the same cache instance for the same session key")
	}
	if registry.ForUser("bob@example.com", refresh) == a {
		t.Error("Expected separate cache instances per session key")
	}

	registry.Drop("alice@example.com")
	if registry.ForUser("alice@example.com", refresh) == a {
		t.Error("Expected a fresh cache after the session was dropped")
	}
}
