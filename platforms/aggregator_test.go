package platforms

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"codefolio/models"
)

// stubAdapter lets aggregation tests script one platform's behavior.
type stubAdapter struct {
	platform models.Platform
	stats    *models.PlatformStats
	err      error
	delay    time.Duration
	panics   bool
	calls    int32
}

func (s *stubAdapter) Platform() models.Platform { return s.platform }

func (s *stubAdapter) FetchStats(ctx context.Context, username string) (*models.PlatformStats, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.panics {
		panic("stub adapter exploded")
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.stats, nil
}

func (s *stubAdapter) Verify(ctx context.Context, username string) bool {
	_, err := s.FetchStats(ctx, username)
	return err == nil
}

func okStats(p models.Platform, username string) *models.PlatformStats {
	return &models.PlatformStats{Platform: p, Username: username, LastUpdated: time.Now().UTC()}
}

func TestAggregateAllCoversEveryPlatform(t *testing.T) {
	agg := NewAggregator(
		&stubAdapter{platform: models.PlatformLeetCode, stats: okStats(models.PlatformLeetCode, "alice")},
		&stubAdapter{platform: models.PlatformCodeForces, stats: okStats(models.PlatformCodeForces, "alice")},
		&stubAdapter{platform: models.PlatformCodeChef, stats: okStats(models.PlatformCodeChef, "alice")},
		&stubAdapter{platform: models.PlatformGeeksForGeeks, stats: okStats(models.PlatformGeeksForGeeks, "alice")},
	)

	result := agg.AggregateAll(context.Background(), models.PlatformUsernames{
		models.PlatformLeetCode: "alice",
	})

	for _, p := range models.AllPlatforms() {
		if _, ok := result.Platforms[p]; !ok {
			t.Errorf("Expected an entry for %s, got none", p)
		}
	}
	if got := result.Platforms[models.PlatformLeetCode].Status; got != models.OutcomeOK {
		t.Errorf("Expected leetcode outcome ok, got %s", got)
	}
	for _, p := range []models.Platform{models.PlatformCodeForces, models.PlatformCodeChef, models.PlatformGeeksForGeeks} {
		if got := result.Platforms[p].Status; got != models.OutcomeNotConfigured {
			t.Errorf("Expected %s outcome not_configured, got %s", p, got)
		}
	}
}

func TestAggregateAllSkipsUnconfiguredAdapters(t *testing.T) {
	leetcode := &stubAdapter{platform: models.PlatformLeetCode, stats: okStats(models.PlatformLeetCode, "alice")}
	codeforces := &stubAdapter{platform: models.PlatformCodeForces, stats: okStats(models.PlatformCodeForces, "alice")}
	agg := NewAggregator(leetcode, codeforces)

	agg.AggregateAll(context.Background(), models.PlatformUsernames{
		models.PlatformCodeForces: "alice",
	})

	if n := atomic.LoadInt32(&leetcode.calls); n != 0 {
		t.Errorf("Expected no leetcode adapter calls for an unlinked platform, got %d", n)
	}
	if n := atomic.LoadInt32(&codeforces.calls); n != 1 {
		t.Errorf("Expected exactly 1 codeforces adapter call, got %d", n)
	}
}

func TestAggregateAllIsolatesFailures(t *testing.T) {
	agg := NewAggregator(
		&stubAdapter{
			platform: models.PlatformLeetCode,
			err:      unavailable(models.PlatformLeetCode, "upstream down"),
		},
		&stubAdapter{
			platform: models.PlatformCodeForces,
			stats: &models.PlatformStats{
				Platform:   models.PlatformCodeForces,
				Username:   "alice",
				CodeForces: &models.CodeForcesStats{Rating: 1500, MaxRating: 1700, Rank: "expert"},
			},
		},
	)

	result := agg.AggregateAll(context.Background(), models.PlatformUsernames{
		models.PlatformLeetCode:   "alice",
		models.PlatformCodeForces: "alice",
	})

	lc := result.Platforms[models.PlatformLeetCode]
	if lc.Status != models.OutcomeError {
		t.Fatalf("Expected leetcode outcome error, got %s", lc.Status)
	}
	if lc.ErrorKind != string(ErrKindUnavailable) {
		t.Errorf("Expected error kind %s, got %s", ErrKindUnavailable, lc.ErrorKind)
	}

	cf := result.Platforms[models.PlatformCodeForces]
	if cf.Status != models.OutcomeOK {
		t.Fatalf("Expected codeforces outcome ok, got %s", cf.Status)
	}
	if cf.Stats.CodeForces.Rating != 1500 || cf.Stats.CodeForces.MaxRating != 1700 {
		t.Errorf("Codeforces success data was affected by sibling failure: %+v", cf.Stats.CodeForces)
	}
}

func TestAggregateAllRecoversPanickingAdapter(t *testing.T) {
	agg := NewAggregator(
		&stubAdapter{platform: models.PlatformLeetCode, panics: true},
		&stubAdapter{platform: models.PlatformCodeChef, stats: okStats(models.PlatformCodeChef, "alice")},
	)

	result := agg.AggregateAll(context.Background(), models.PlatformUsernames{
		models.PlatformLeetCode: "alice",
		models.PlatformCodeChef: "alice",
	})

	if got := result.Platforms[models.PlatformLeetCode].Status; got != models.OutcomeError {
		t.Errorf("Expected panicking adapter to yield error outcome, got %s", got)
	}
	if got := result.Platforms[models.PlatformCodeChef].Status; got != models.OutcomeOK {
		t.Errorf("Expected sibling adapter to stay ok, got %s", got)
	}
}

func TestAggregateAllSlowAdapterDoesNotBlockSiblings(t *testing.T) {
	slow := &stubAdapter{
		platform: models.PlatformLeetCode,
		stats:    okStats(models.PlatformLeetCode, "alice"),
		delay:    150 * time.Millisecond,
	}
	fast := &stubAdapter{platform: models.PlatformCodeForces, stats: okStats(models.PlatformCodeForces, "alice")}
	agg := NewAggregator(slow, fast)

	start := time.Now()
	result := agg.AggregateAll(context.Background(), models.PlatformUsernames{
		models.PlatformLeetCode:   "alice",
		models.PlatformCodeForces: "alice",
	})
	elapsed := time.Since(start)

	// Both settle; the join waits for the slow one but runs them in parallel.
	if elapsed > 400*time.Millisecond {
		t.Errorf("Aggregation took %v, adapters appear to run sequentially", elapsed)
	}
	if got := result.Platforms[models.PlatformLeetCode].Status; got != models.OutcomeOK {
		t.Errorf("Expected slow adapter outcome ok, got %s", got)
	}
	if got := result.Platforms[models.PlatformCodeForces].Status; got != models.OutcomeOK {
		t.Errorf("Expected fast adapter outcome ok, got %s", got)
	}
}
