package platforms

import (
	"context"
	"fmt"
	"net/url"
	"time"

	json "github.com/goccy/go-json"

	"codefolio/models"
)

// recentContestLimit bounds how many rated contests the dashboard shows.
const recentContestLimit = 10

type codeForcesUserInfo struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
	Result  []struct {
		Handle    string `json:"handle"`
		Rating    int    `json:"rating"`
		MaxRating int    `json:"maxRating"`
		Rank      string `json:"rank"`
		MaxRank   string `json:"maxRank"`
	} `json:"result"`
}

type codeForcesRating struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
	Result  []struct {
		ContestID               int    `json:"contestId"`
		ContestName             string `json:"contestName"`
		Rank                    int    `json:"rank"`
		RatingUpdateTimeSeconds int64  `json:"ratingUpdateTimeSeconds"`
		OldRating               int    `json:"oldRating"`
		NewRating               int    `json:"newRating"`
	} `json:"result"`
}

// CodeForcesAdapter fetches profile stats from the public CodeForces JSON
// API (user.info + user.rating).
type CodeForcesAdapter struct {
	baseURL string
	client  *upstreamClient
}

func NewCodeForcesAdapter(baseURL string, opts ClientOptions) *CodeForcesAdapter {
	return &CodeForcesAdapter{
		baseURL: baseURL,
		client:  newUpstreamClient(models.PlatformCodeForces, opts),
	}
}

func (a *CodeForcesAdapter) Platform() models.Platform { return models.PlatformCodeForces }

func (a *CodeForcesAdapter) FetchStats(ctx context.Context, username string) (*models.PlatformStats, error) {
	handle := url.QueryEscape(username)

	body, ferr := a.client.get(ctx, fmt.Sprintf("%s/user.info?handles=%s", a.baseURL, handle))
	if ferr != nil {
		return nil, ferr
	}
	var info codeForcesUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, shapeError(a.Platform(), "decoding user.info: %v", err)
	}
	if info.Status != "OK" {
		return nil, unavailable(a.Platform(), "user.info failed: %s", info.Comment)
	}
	if len(info.Result) == 0 {
		return nil, shapeError(a.Platform(), "user.info returned no users for %q", username)
	}
	user := info.Result[0]

	body, ferr = a.client.get(ctx, fmt.Sprintf("%s/user.rating?handle=%s", a.baseURL, handle))
	if ferr != nil {
		return nil, ferr
	}
	var rating codeForcesRating
	if err := json.Unmarshal(body, &rating); err != nil {
		return nil, shapeError(a.Platform(), "decoding user.rating: %v", err)
	}
	if rating.Status != "OK" {
		return nil, unavailable(a.Platform(), "user.rating failed: %s", rating.Comment)
	}

	// Upstream lists contests oldest first. Truncate to the most recent N
	// without reordering.
	entries := rating.Result
	if len(entries) > recentContestLimit {
		entries = entries[len(entries)-recentContestLimit:]
	}
	recent := make([]models.ContestResult, 0, len(entries))
	for _, e := range entries {
		recent = append(recent, models.ContestResult{
			ContestID:   e.ContestID,
			ContestName: e.ContestName,
			Rank:        e.Rank,
			OldRating:   e.OldRating,
			NewRating:   e.NewRating,
			RatedAt:     time.Unix(e.RatingUpdateTimeSeconds, 0).UTC(),
		})
	}

	return &models.PlatformStats{
		Platform:    a.Platform(),
		Username:    username,
		LastUpdated: time.Now().UTC(),
		CodeForces: &models.CodeForcesStats{
			Rating:         user.Rating,
			MaxRating:      user.MaxRating,
			Rank:           user.Rank,
			MaxRank:        user.MaxRank,
			Contests:       len(rating.Result),
			RecentContests: recent,
		},
	}, nil
}

func (a *CodeForcesAdapter) Verify(ctx context.Context, username string) bool {
	body, ferr := a.client.get(ctx, fmt.Sprintf("%s/user.info?handles=%s", a.baseURL, url.QueryEscape(username)))
	if ferr != nil {
		return false
	}
	var info codeForcesUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return false
	}
	return info.Status == "OK" && len(info.Result) > 0
}
