package utils

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"codefolio/models"
)

// ExportStatsCSV flattens a profile plus its aggregated stats into a CSV
// document with one row per platform.
func ExportStatsCSV(user *models.User, stats *models.AggregatedStats) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"email", "displayName", "bio"}); err != nil {
		return nil, err
	}
	if err := w.Write([]string{user.Email, user.DisplayName, user.Bio}); err != nil {
		return nil, err
	}
	if err := w.Write(nil); err != nil {
		return nil, err
	}

	if err := w.Write([]string{"platform", "username", "status", "summary"}); err != nil {
		return nil, err
	}
	for _, p := range models.AllPlatforms() {
		outcome := stats.Platforms[p]
		row := []string{string(p), stats.Usernames.Username(p), string(outcome.Status), summarizeOutcome(outcome)}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// summarizeOutcome renders one platform's headline numbers for the export
func summarizeOutcome(outcome models.StatsOutcome) string {
	if outcome.Status == models.OutcomeError {
		return outcome.Error
	}
	if outcome.Status != models.OutcomeOK || outcome.Stats == nil {
		return ""
	}

	s := outcome.Stats
	switch {
	case s.LeetCode != nil:
		return fmt.Sprintf("solved=%d acceptance=%s ranking=%d",
			s.LeetCode.TotalSolved,
			strconv.FormatFloat(s.LeetCode.AcceptanceRate, 'f', -1, 64),
			s.LeetCode.Ranking)
	case s.CodeForces != nil:
		return fmt.Sprintf("rating=%d max=%d rank=%s contests=%d",
			s.CodeForces.Rating, s.CodeForces.MaxRating, s.CodeForces.Rank, s.CodeForces.Contests)
	case s.CodeChef != nil:
		return fmt.Sprintf("rating=%d highest=%d stars=%s globalRank=%d",
			s.CodeChef.Rating, s.CodeChef.HighestRating, s.CodeChef.Stars, s.CodeChef.GlobalRank)
	case s.GeeksForGeeks != nil:
		return fmt.Sprintf("score=%d solved=%d streak=%d",
			s.GeeksForGeeks.CodingScore, s.GeeksForGeeks.ProblemsSolved, s.GeeksForGeeks.Streak)
	}
	return ""
}
