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

// codeChefResponse is the payload shape of the public CodeChef stats proxy.
// The proxy emits several numeric fields as strings; decoding keeps them
// loose and normalization converts with a zero default.
type codeChefResponse struct {
	Success       bool   `json:"success"`
	Status        int    `json:"status"`
	Profile       string `json:"profile"`
	Name          string `json:"name"`
	CurrentRating int    `json:"currentRating"`
	HighestRating int    `json:"highestRating"`
	GlobalRank    int    `json:"globalRank"`
	CountryRank   int    `json:"countryRank"`
	Stars         string `json:"stars"`
	HeatMap       []struct {
		Date  string `json:"date"`
		Value int    `json:"value"`
	} `json:"heatMap"`
	RatingData []struct {
		Code    string `json:"code"`
		Name    string `json:"name"`
		Rating  string `json:"rating"`
		Rank    string `json:"rank"`
		EndDate string `json:"end_date"`
	} `json:"ratingData"`
}

// CodeChefAdapter fetches profile stats from a CodeChef stats proxy.
type CodeChefAdapter struct {
	baseURL string
	client  *upstreamClient
}

func NewCodeChefAdapter(baseURL string, opts ClientOptions) *CodeChefAdapter {
	return &CodeChefAdapter{
		baseURL: baseURL,
		client:  newUpstreamClient(models.PlatformCodeChef, opts),
	}
}

func (a *CodeChefAdapter) Platform() models.Platform { return models.PlatformCodeChef }

func (a *CodeChefAdapter) FetchStats(ctx context.Context, username string) (*models.PlatformStats, error) {
	body, ferr := a.client.get(ctx, fmt.Sprintf("%s/handle/%s", a.baseURL, url.PathEscape(username)))
	if ferr != nil {
		return nil, ferr
	}

	var resp codeChefResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, shapeError(a.Platform(), "decoding stats payload: %v", err)
	}
	if !resp.Success {
		return nil, unavailable(a.Platform(), "upstream reported failure for %q", username)
	}

	heatMap := make(map[string]int, len(resp.HeatMap))
	for _, e := range resp.HeatMap {
		heatMap[e.Date] += e.Value
	}

	contests := resp.RatingData
	if len(contests) > recentContestLimit {
		contests = contests[len(contests)-recentContestLimit:]
	}
	recent := make([]models.CodeChefContest, 0, len(contests))
	for _, c := range contests {
		recent = append(recent, models.CodeChefContest{
			Code:   c.Code,
			Name:   c.Name,
			Rating: atoiDefault(c.Rating),
			Rank:   atoiDefault(c.Rank),
			EndsAt: c.EndDate,
		})
	}

	return &models.PlatformStats{
		Platform:    a.Platform(),
		Username:    username,
		LastUpdated: time.Now().UTC(),
		CodeChef: &models.CodeChefStats{
			Rating:         resp.CurrentRating,
			HighestRating:  resp.HighestRating,
			GlobalRank:     resp.GlobalRank,
			CountryRank:    resp.CountryRank,
			Stars:          resp.Stars,
			HeatMap:        heatMap,
			RecentContests: recent,
		},
	}, nil
}

func (a *CodeChefAdapter) Verify(ctx context.Context, username string) bool {
	body, ferr := a.client.get(ctx, fmt.Sprintf("%s/handle/%s", a.baseURL, url.PathEscape(username)))
	if ferr != nil {
		return false
	}
	var resp struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return false
	}
	return resp.Success
}

// atoiDefault parses s as an integer, defaulting to 0 for absent or
// malformed values.
func atoiDefault(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
