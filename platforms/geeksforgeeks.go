package platforms

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"codefolio/models"
)

// GeeksForGeeksAdapter scrapes a GFG profile page. GFG has no public stats
// API, so this adapter extracts fields from the page structure; upstream
// markup changes only ever require touching this file.
type GeeksForGeeksAdapter struct {
	baseURL string
	client  *upstreamClient
}

func NewGeeksForGeeksAdapter(baseURL string, opts ClientOptions) *GeeksForGeeksAdapter {
	return &GeeksForGeeksAdapter{
		baseURL: baseURL,
		client:  newUpstreamClient(models.PlatformGeeksForGeeks, opts),
	}
}

func (a *GeeksForGeeksAdapter) Platform() models.Platform { return models.PlatformGeeksForGeeks }

func (a *GeeksForGeeksAdapter) FetchStats(ctx context.Context, username string) (*models.PlatformStats, error) {
	body, ferr := a.client.get(ctx, fmt.Sprintf("%s/user/%s/", a.baseURL, url.PathEscape(username)))
	if ferr != nil {
		return nil, ferr
	}

	stats, err := parseGFGProfile(body)
	if err != nil {
		return nil, shapeError(a.Platform(), "parsing profile page: %v", err)
	}

	return &models.PlatformStats{
		Platform:      a.Platform(),
		Username:      username,
		LastUpdated:   time.Now().UTC(),
		GeeksForGeeks: stats,
	}, nil
}

// Verify falls back to a full profile fetch: GFG offers no lighter
// existence check, so a parseable profile page is the verification.
func (a *GeeksForGeeksAdapter) Verify(ctx context.Context, username string) bool {
	_, err := a.FetchStats(ctx, username)
	return err == nil
}

// parseGFGProfile pulls the score cards out of the profile HTML. The page
// uses CSS-module class names ("scoreCard_head_left--text__hZYcY"), so
// matching is on the stable class prefix, not the hashed suffix.
func parseGFGProfile(page []byte) (*models.GeeksForGeeksStats, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}

	stats := &models.GeeksForGeeksStats{SolvedByLevel: map[string]int{}}

	var labels, values []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			class := nodeClass(n)
			switch {
			case strings.Contains(class, "scoreCard_head_left--text"):
				labels = append(labels, strings.TrimSpace(textContent(n)))
			case strings.Contains(class, "scoreCard_head_left--score"):
				values = append(values, strings.TrimSpace(textContent(n)))
			case strings.Contains(class, "userRankContainer--text"):
				stats.InstituteRank = leadingInt(textContent(n))
			case strings.Contains(class, "streakCnt"):
				streak, _, _ := strings.Cut(textContent(n), "/")
				stats.Streak = leadingInt(streak)
			case strings.Contains(class, "problemNavbar_head_nav--text"):
				if level, count, ok := parseLevelCount(textContent(n)); ok {
					stats.SolvedByLevel[level] = count
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(labels) == 0 {
		return nil, fmt.Errorf("no score cards found in page")
	}

	for i, label := range labels {
		if i >= len(values) {
			break
		}
		switch strings.ToLower(label) {
		case "coding score":
			stats.CodingScore = leadingInt(values[i])
		case "problem solved", "problems solved":
			stats.ProblemsSolved = leadingInt(values[i])
		case "contest rating":
			stats.ContestRating = leadingInt(values[i])
		}
	}
	return stats, nil
}

func nodeClass(n *html.Node) string {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			return attr.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// leadingInt extracts the first run of digits in s, defaulting to 0. Score
// cards render "__" for fields the user has no data for.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, _ := strconv.Atoi(s[start:i])
			return n
		}
	}
	if start >= 0 {
		n, _ := strconv.Atoi(s[start:])
		return n
	}
	return 0
}

// parseLevelCount splits a navbar entry like "EASY (98)" into its level and
// count.
func parseLevelCount(s string) (string, int, bool) {
	s = strings.TrimSpace(s)
	open := strings.LastIndex(s, "(")
	end := strings.LastIndex(s, ")")
	if open < 0 || end <= open {
		return "", 0, false
	}
	level := strings.ToLower(strings.TrimSpace(s[:open]))
	count, err := strconv.Atoi(strings.TrimSpace(s[open+1 : end]))
	if err != nil || level == "" {
		return "", 0, false
	}
	return level, count, true
}
