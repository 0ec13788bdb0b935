package platforms

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"codefolio/models"
)

// leetCodeResponse is the payload shape of the public LeetCode stats proxy.
type leetCodeResponse struct {
	Status             string          `json:"status"`
	Message            string          `json:"message"`
	TotalSolved        int             `json:"totalSolved"`
	TotalQuestions     int             `json:"totalQuestions"`
	EasySolved         int             `json:"easySolved"`
	MediumSolved       int             `json:"mediumSolved"`
	HardSolved         int             `json:"hardSolved"`
	AcceptanceRate     float64         `json:"acceptanceRate"`
	Ranking            int             `json:"ranking"`
	ContributionPoints int             `json:"contributionPoints"`
	Reputation         int             `json:"reputation"`
	SubmissionCalendar map[string]int  `json:"submissionCalendar"`
}

// LeetCodeAdapter fetches profile stats from a LeetCode stats proxy.
type LeetCodeAdapter struct {
	baseURL string
	client  *upstreamClient
}

func NewLeetCodeAdapter(baseURL string, opts ClientOptions) *LeetCodeAdapter {
	return &LeetCodeAdapter{
		baseURL: baseURL,
		client:  newUpstreamClient(models.PlatformLeetCode, opts),
	}
}

func (a *LeetCodeAdapter) Platform() models.Platform { return models.PlatformLeetCode }

func (a *LeetCodeAdapter) FetchStats(ctx context.Context, username string) (*models.PlatformStats, error) {
	body, ferr := a.client.get(ctx, fmt.Sprintf("%s/%s", a.baseURL, url.PathEscape(username)))
	if ferr != nil {
		return nil, ferr
	}

	var resp leetCodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, shapeError(a.Platform(), "decoding stats payload: %v", err)
	}
	if resp.Status != "success" {
		return nil, unavailable(a.Platform(), "upstream reported failure: %s", resp.Message)
	}

	return &models.PlatformStats{
		Platform:    a.Platform(),
		Username:    username,
		LastUpdated: time.Now().UTC(),
		LeetCode: &models.LeetCodeStats{
			TotalSolved:        resp.TotalSolved,
			TotalQuestions:     resp.TotalQuestions,
			EasySolved:         resp.EasySolved,
			MediumSolved:       resp.MediumSolved,
			HardSolved:         resp.HardSolved,
			AcceptanceRate:     resp.AcceptanceRate,
			Ranking:            resp.Ranking,
			ContributionPoints: resp.ContributionPoints,
			Reputation:         resp.Reputation,
			SubmissionCalendar: normalizeCalendar(resp.SubmissionCalendar),
		},
	}, nil
}

func (a *LeetCodeAdapter) Verify(ctx context.Context, username string) bool {
	body, ferr := a.client.get(ctx, fmt.Sprintf("%s/%s", a.baseURL, url.PathEscape(username)))
	if ferr != nil {
		return false
	}
	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return false
	}
	return resp.Status == "success"
}

// normalizeCalendar converts the proxy's epoch-second keys into day
// granularity ISO dates. Entries falling on the same day are summed.
func normalizeCalendar(raw map[string]int) map[string]int {
	out := make(map[string]int, len(raw))
	for key, count := range raw {
		epoch, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			// Some proxies already emit ISO dates; keep those as-is.
			out[key] += count
			continue
		}
		day := time.Unix(epoch, 0).UTC().Format("2006-01-02")
		out[day] += count
	}
	return out
}
