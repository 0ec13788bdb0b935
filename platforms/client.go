package platforms

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"codefolio/models"
)

// ClientOptions bounds the outbound behavior of one platform's upstream
// client.
type ClientOptions struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	HTTPClient        *http.Client
}

func (o ClientOptions) withDefaults() ClientOptions {
	if o.Timeout <= 0 {
		o.Timeout = 6 * time.Second
	}
	if o.RequestsPerSecond <= 0 {
		o.RequestsPerSecond = 5
	}
	if o.Burst <= 0 {
		o.Burst = 10
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}
	return o
}

// upstreamClient is the shared outbound path for every adapter: a bounded
// per-request timeout, a per-platform rate limiter, and a circuit breaker so
// a flapping upstream is cut off instead of hammered.
type upstreamClient struct {
	platform models.Platform
	http     *http.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[[]byte]
	timeout  time.Duration
}

func newUpstreamClient(p models.Platform, opts ClientOptions) *upstreamClient {
	opts = opts.withDefaults()

	breakerState.WithLabelValues(string(p)).Set(0)
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        string(p),
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			breakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &upstreamClient{
		platform: p,
		http:     opts.HTTPClient,
		limiter:  rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		breaker:  cb,
		timeout:  opts.Timeout,
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// get fetches url and returns the response body. Every failure mode,
// including an open breaker and a timed-out request, resolves to the same
// *FetchError path.
func (c *upstreamClient) get(ctx context.Context, url string) ([]byte, *FetchError) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, unavailable(c.platform, "rate limit wait: %v", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json, text/html")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// Drain so the connection can be reused.
			io.Copy(io.Discard, resp.Body)
			return nil, unavailable(c.platform, "unexpected status %d from %s", resp.StatusCode, url)
		}
		return io.ReadAll(resp.Body)
	})
	upstreamRequestDuration.WithLabelValues(string(c.platform)).Observe(time.Since(start).Seconds())

	if err != nil {
		upstreamRequestsTotal.WithLabelValues(string(c.platform), "failure").Inc()
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, unavailable(c.platform, "upstream temporarily disabled: %v", err)
		}
		return nil, AsFetchError(c.platform, err)
	}

	upstreamRequestsTotal.WithLabelValues(string(c.platform), "success").Inc()
	return body, nil
}
