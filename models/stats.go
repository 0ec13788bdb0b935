package models

import "time"

// LeetCodeStats holds the normalized LeetCode profile numbers.
type LeetCodeStats struct {
	TotalSolved        int            `bson:"totalSolved" json:"totalSolved"`
	TotalQuestions     int            `bson:"totalQuestions" json:"totalQuestions"`
	EasySolved         int            `bson:"easySolved" json:"easySolved"`
	MediumSolved       int            `bson:"mediumSolved" json:"mediumSolved"`
	HardSolved         int            `bson:"hardSolved" json:"hardSolved"`
	AcceptanceRate     float64        `bson:"acceptanceRate" json:"acceptanceRate"`
	Ranking            int            `bson:"ranking" json:"ranking"`
	ContributionPoints int            `bson:"contributionPoints" json:"contributionPoints"`
	Reputation         int            `bson:"reputation" json:"reputation"`
	SubmissionCalendar map[string]int `bson:"submissionCalendar" json:"submissionCalendar"` // ISO date -> submissions
}

// ContestResult is one rated CodeForces contest, as returned by upstream.
type ContestResult struct {
	ContestID   int       `bson:"contestId" json:"contestId"`
	ContestName string    `bson:"contestName" json:"contestName"`
	Rank        int       `bson:"rank" json:"rank"`
	OldRating   int       `bson:"oldRating" json:"oldRating"`
	NewRating   int       `bson:"newRating" json:"newRating"`
	RatedAt     time.Time `bson:"ratedAt" json:"ratedAt"`
}

// CodeForcesStats holds the normalized CodeForces profile numbers.
type CodeForcesStats struct {
	Rating         int             `bson:"rating" json:"rating"`
	MaxRating      int             `bson:"maxRating" json:"maxRating"`
	Rank           string          `bson:"rank" json:"rank"`
	MaxRank        string          `bson:"maxRank" json:"maxRank"`
	Contests       int             `bson:"contests" json:"contests"`
	RecentContests []ContestResult `bson:"recentContests" json:"recentContests"`
}

// CodeChefContest is one entry of the CodeChef rating history.
type CodeChefContest struct {
	Code   string `bson:"code" json:"code"`
	Name   string `bson:"name" json:"name"`
	Rating int    `bson:"rating" json:"rating"`
	Rank   int    `bson:"rank" json:"rank"`
	EndsAt string `bson:"endsAt" json:"endsAt"`
}

// CodeChefStats holds the normalized CodeChef profile numbers.
type CodeChefStats struct {
	Rating         int               `bson:"rating" json:"rating"`
	HighestRating  int               `bson:"highestRating" json:"highestRating"`
	GlobalRank     int               `bson:"globalRank" json:"globalRank"`
	CountryRank    int               `bson:"countryRank" json:"countryRank"`
	Stars          string            `bson:"stars" json:"stars"`
	HeatMap        map[string]int    `bson:"heatMap" json:"heatMap"` // ISO date -> activity
	RecentContests []CodeChefContest `bson:"recentContests" json:"recentContests"`
}

// GeeksForGeeksStats holds the numbers scraped from a GFG profile page.
type GeeksForGeeksStats struct {
	CodingScore    int            `bson:"codingScore" json:"codingScore"`
	ProblemsSolved int            `bson:"problemsSolved" json:"problemsSolved"`
	ContestRating  int            `bson:"contestRating" json:"contestRating"`
	InstituteRank  int            `bson:"instituteRank" json:"instituteRank"`
	Streak         int            `bson:"streak" json:"streak"`
	SolvedByLevel  map[string]int `bson:"solvedByLevel" json:"solvedByLevel"` // difficulty -> solved
}

// PlatformStats is a successfully normalized record for exactly one platform.
// Exactly one of the per-platform payload pointers is set, matching Platform.
type PlatformStats struct {
	Platform      Platform            `bson:"platform" json:"platform"`
	Username      string              `bson:"username" json:"username"`
	LastUpdated   time.Time           `bson:"lastUpdated" json:"lastUpdated"`
	LeetCode      *LeetCodeStats      `bson:"leetcode,omitempty" json:"leetcode,omitempty"`
	CodeForces    *CodeForcesStats    `bson:"codeforces,omitempty" json:"codeforces,omitempty"`
	CodeChef      *CodeChefStats      `bson:"codechef,omitempty" json:"codechef,omitempty"`
	GeeksForGeeks *GeeksForGeeksStats `bson:"geeksforgeeks,omitempty" json:"geeksforgeeks,omitempty"`
}

// OutcomeStatus classifies one platform's slot in an aggregated result.
type OutcomeStatus string

const (
	OutcomeOK            OutcomeStatus = "ok"
	OutcomeError         OutcomeStatus = "error"
	OutcomeNotConfigured OutcomeStatus = "not_configured"
)

// StatsOutcome is one platform's slot: a normalized record, an error marker,
// or the not-configured marker. Never a mix.
type StatsOutcome struct {
	Status    OutcomeStatus  `json:"status"`
	Stats     *PlatformStats `json:"stats,omitempty"`
	ErrorKind string         `json:"errorKind,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// AggregatedStats is the combined dashboard payload, keyed by platform.
// It always carries an entry for every supported platform. Treated as
// immutable once built; the cache replaces it wholesale or swaps in a copy
// with a single slot cleared.
type AggregatedStats struct {
	Platforms map[Platform]StatsOutcome `json:"platforms"`
	Usernames PlatformUsernames         `json:"usernames"`
	FetchedAt time.Time                 `json:"fetchedAt"`
}
