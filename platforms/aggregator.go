package platforms

import (
	"context"
	"log"
	"sync"
	"time"

	"codefolio/models"
)

// Aggregator fans one username map out to the platform adapters and merges
// the outcomes. It holds no state between calls.
type Aggregator struct {
	adapters map[models.Platform]Adapter
}

func NewAggregator(adapters ...Adapter) *Aggregator {
	m := make(map[models.Platform]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.Platform()] = a
	}
	return &Aggregator{adapters: m}
}

// Adapter returns the adapter registered for p, or nil.
func (ag *Aggregator) Adapter(p models.Platform) Adapter {
	return ag.adapters[p]
}

// AggregateAll invokes every configured platform's adapter concurrently and
// waits for all of them to settle. Each platform's outcome is captured
// independently: one upstream failing or stalling never hides another's
// result. Platforms without a linked username are reported as not
// configured and never reach an adapter.
func (ag *Aggregator) AggregateAll(ctx context.Context, usernames models.PlatformUsernames) *models.AggregatedStats {
	result := &models.AggregatedStats{
		Platforms: make(map[models.Platform]models.StatsOutcome, len(models.AllPlatforms())),
		Usernames: usernames.Clone(),
		FetchedAt: time.Now().UTC(),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, p := range models.AllPlatforms() {
		username := usernames.Username(p)
		if username == "" {
			result.Platforms[p] = models.StatsOutcome{Status: models.OutcomeNotConfigured}
			continue
		}

		adapter, ok := ag.adapters[p]
		if !ok {
			result.Platforms[p] = models.StatsOutcome{
				Status:    models.OutcomeError,
				ErrorKind: string(ErrKindUnavailable),
				Error:     "no adapter registered",
			}
			continue
		}

		wg.Add(1)
		go func(p models.Platform, adapter Adapter, username string) {
			defer wg.Done()
			outcome := fetchOutcome(ctx, adapter, username)
			mu.Lock()
			result.Platforms[p] = outcome
			mu.Unlock()
		}(p, adapter, username)
	}

	wg.Wait()
	return result
}

// fetchOutcome runs one adapter call and converts every failure mode,
// including a panicking adapter, into an error outcome.
func fetchOutcome(ctx context.Context, adapter Adapter, username string) (outcome models.StatsOutcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Adapter %s panicked for %q: %v", adapter.Platform(), username, r)
			outcome = models.StatsOutcome{
				Status:    models.OutcomeError,
				ErrorKind: string(ErrKindUnavailable),
				Error:     "internal adapter failure",
			}
		}
	}()

	stats, err := adapter.FetchStats(ctx, username)
	if err != nil {
		fe := AsFetchError(adapter.Platform(), err)
		return models.StatsOutcome{
			Status:    models.OutcomeError,
			ErrorKind: string(fe.Kind),
			Error:     fe.Cause,
		}
	}
	return models.StatsOutcome{Status: models.OutcomeOK, Stats: stats}
}
