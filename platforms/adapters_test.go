package platforms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codefolio/models"
)

func testOptions() ClientOptions {
	return ClientOptions{Timeout: 2 * time.Second}
}

func TestLeetCodeAdapterNormalizesFixture(t *testing.T) {
	// 1718236800 = 2024-06-13T00:00:00Z
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/alice" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"status": "success",
			"totalSolved": 120,
			"totalQuestions": 2500,
			"easySolved": 60,
			"mediumSolved": 45,
			"hardSolved": 15,
			"acceptanceRate": 54.3,
			"ranking": 123456,
			"submissionCalendar": {"1718236800": 3, "1718323200": 1}
		}`)
	}))
	defer server.Close()

	adapter := NewLeetCodeAdapter(server.URL, testOptions())
	stats, err := adapter.FetchStats(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchStats failed: %v", err)
	}

	lc := stats.LeetCode
	if lc.TotalSolved != 120 || lc.EasySolved != 60 || lc.MediumSolved != 45 || lc.HardSolved != 15 {
		t.Errorf("Solved counts not normalized exactly: %+v", lc)
	}
	if lc.AcceptanceRate != 54.3 {
		t.Errorf("Expected acceptance rate 54.3, got %v", lc.AcceptanceRate)
	}
	if lc.Ranking != 123456 {
		t.Errorf("Expected ranking 123456, got %d", lc.Ranking)
	}
	// Optional fields absent from the fixture default to zero values.
	if lc.ContributionPoints != 0 || lc.Reputation != 0 {
		t.Errorf("Expected absent optional fields to default to 0, got %+v", lc)
	}
	if lc.SubmissionCalendar["2024-06-13"] != 3 || lc.SubmissionCalendar["2024-06-14"] != 1 {
		t.Errorf("Calendar not converted to ISO days: %v", lc.SubmissionCalendar)
	}
	if stats.Platform != models.PlatformLeetCode || stats.Username != "alice" {
		t.Errorf("Record not labeled correctly: %+v", stats)
	}
	if stats.LastUpdated.IsZero() {
		t.Error("Expected lastUpdated to be set")
	}
}

func TestLeetCodeAdapterUpstreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "error", "message": "user does not exist"}`)
	}))
	defer server.Close()

	adapter := NewLeetCodeAdapter(server.URL, testOptions())
	_, err := adapter.FetchStats(context.Background(), "ghost")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected a *FetchError, got %v", err)
	}
	if fe.Platform != models.PlatformLeetCode || fe.Kind != ErrKindUnavailable {
		t.Errorf("Unexpected error classification: %+v", fe)
	}
	if adapter.Verify(context.Background(), "ghost") {
		t.Error("Verify should report false for an unknown user")
	}
}

func TestCodeForcesAdapterNormalizesFixture(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user.info":
			fmt.Fprint(w, `{"status":"OK","result":[{"handle":"alice","rating":1500,"maxRating":1700,"rank":"expert","maxRank":"candidate master"}]}`)
		case "/user.rating":
			fmt.Fprint(w, `{"status":"OK","result":[
				{"contestId":1,"contestName":"Round 1","rank":120,"ratingUpdateTimeSeconds":1700000000,"oldRating":0,"newRating":1400},
				{"contestId":2,"contestName":"Round 2","rank":80,"ratingUpdateTimeSeconds":1701000000,"oldRating":1400,"newRating":1450},
				{"contestId":3,"contestName":"Round 3","rank":40,"ratingUpdateTimeSeconds":1702000000,"oldRating":1450,"newRating":1500}
			]}`)
		default:
			t.Errorf("Unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	adapter := NewCodeForcesAdapter(server.URL, testOptions())
	stats, err := adapter.FetchStats(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchStats failed: %v", err)
	}

	cf := stats.CodeForces
	if cf.Rating != 1500 || cf.MaxRating != 1700 || cf.Rank != "expert" {
		t.Errorf("Profile fields not normalized exactly: %+v", cf)
	}
	if cf.Contests != 3 || len(cf.RecentContests) != 3 {
		t.Fatalf("Expected 3 contests, got count=%d recent=%d", cf.Contests, len(cf.RecentContests))
	}
	// Upstream order (oldest first) is preserved.
	for i, want := range []string{"Round 1", "Round 2", "Round 3"} {
		if cf.RecentContests[i].ContestName != want {
			t.Errorf("Contest %d out of order: got %s, want %s", i, cf.RecentContests[i].ContestName, want)
		}
	}
	if cf.RecentContests[2].NewRating != 1500 || cf.RecentContests[2].OldRating != 1450 {
		t.Errorf("Contest ratings lost precision: %+v", cf.RecentContests[2])
	}
}

func TestCodeForcesAdapterTruncatesToMostRecent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user.info":
			fmt.Fprint(w, `{"status":"OK","result":[{"handle":"alice","rating":1600,"maxRating":1600,"rank":"expert"}]}`)
		case "/user.rating":
			fmt.Fprint(w, `{"status":"OK","result":[`)
			for i := 0; i < 15; i++ {
				if i > 0 {
					fmt.Fprint(w, ",")
				}
				fmt.Fprintf(w, `{"contestId":%d,"contestName":"Round %d","rank":1,"ratingUpdateTimeSeconds":%d,"oldRating":0,"newRating":0}`, i+1, i+1, 1700000000+i)
			}
			fmt.Fprint(w, `]}`)
		}
	}))
	defer server.Close()

	adapter := NewCodeForcesAdapter(server.URL, testOptions())
	stats, err := adapter.FetchStats(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchStats failed: %v", err)
	}

	cf := stats.CodeForces
	if cf.Contests != 15 {
		t.Errorf("Total contest count should not be truncated, got %d", cf.Contests)
	}
	if len(cf.RecentContests) != recentContestLimit {
		t.Fatalf("Expected %d recent contests, got %d", recentContestLimit, len(cf.RecentContests))
	}
	if cf.RecentContests[0].ContestID != 6 || cf.RecentContests[recentContestLimit-1].ContestID != 15 {
		t.Errorf("Truncation changed ordering: first=%d last=%d",
			cf.RecentContests[0].ContestID, cf.RecentContests[recentContestLimit-1].ContestID)
	}
}

func TestCodeChefAdapterNormalizesFixture(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/handle/alice" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"success": true,
			"currentRating": 1743,
			"highestRating": 1850,
			"globalRank": 929,
			"countryRank": 128,
			"stars": "3★",
			"heatMap": [{"date":"2024-01-15","value":3},{"date":"2024-01-16","value":1}],
			"ratingData": [{"code":"START123","name":"Starters 123","rating":"1743","rank":"56","end_date":"2024-01-17 22:00:02"}]
		}`)
	}))
	defer server.Close()

	adapter := NewCodeChefAdapter(server.URL, testOptions())
	stats, err := adapter.FetchStats(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchStats failed: %v", err)
	}

	cc := stats.CodeChef
	if cc.Rating != 1743 || cc.HighestRating != 1850 || cc.GlobalRank != 929 || cc.CountryRank != 128 {
		t.Errorf("Numeric fields not normalized exactly: %+v", cc)
	}
	if cc.Stars != "3★" {
		t.Errorf("Expected stars to stay an opaque string, got %q", cc.Stars)
	}
	if cc.HeatMap["2024-01-15"] != 3 || cc.HeatMap["2024-01-16"] != 1 {
		t.Errorf("Heat map not normalized: %v", cc.HeatMap)
	}
	if len(cc.RecentContests) != 1 {
		t.Fatalf("Expected 1 contest, got %d", len(cc.RecentContests))
	}
	if cc.RecentContests[0].Rating != 1743 || cc.RecentContests[0].Rank != 56 {
		t.Errorf("String-encoded contest numbers not converted: %+v", cc.RecentContests[0])
	}
}

func TestCodeChefAdapterUpstreamFailureFlag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": false, "status": 404}`)
	}))
	defer server.Close()

	adapter := NewCodeChefAdapter(server.URL, testOptions())
	stats, err := adapter.FetchStats(context.Background(), "ghost")
	if stats != nil {
		t.Errorf("Expected no stats on success:false, got %+v", stats)
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected a *FetchError on success:false, got %v", err)
	}
	if fe.Kind != ErrKindUnavailable {
		t.Errorf("Unexpected error kind: %s", fe.Kind)
	}
	if adapter.Verify(context.Background(), "ghost") {
		t.Error("Verify should report false on success:false")
	}
}

const gfgFixture = `<html><body>
<div class="scoreCards">
  <div class="scoreCard_head__G_uNQ">
    <div class="scoreCard_head_left--text__KZ2S1">Coding Score</div>
    <div class="scoreCard_head_left--score__oSi_x">425</div>
  </div>
  <div class="scoreCard_head__G_uNQ">
    <div class="scoreCard_head_left--text__KZ2S1">Problem Solved</div>
    <div class="scoreCard_head_left--score__oSi_x">187</div>
  </div>
  <div class="scoreCard_head__G_uNQ">
    <div class="scoreCard_head_left--text__KZ2S1">Contest Rating</div>
    <div class="scoreCard_head_left--score__oSi_x">__</div>
  </div>
</div>
<div class="educationDetails_head_left_userRankContainer--text__wt81s">234 Rank</div>
<div class="circularProgressBar_head_mid_streakCnt--text__3_KQv">12/1400</div>
<div class="problemNavbar_head_nav--text__UaGCx">EASY (98)</div>
<div class="problemNavbar_head_nav--text__UaGCx">MEDIUM (72)</div>
<div class="problemNavbar_head_nav--text__UaGCx">HARD (17)</div>
</body></html>`

func TestGeeksForGeeksAdapterParsesProfilePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/alice/" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, gfgFixture)
	}))
	defer server.Close()

	adapter := NewGeeksForGeeksAdapter(server.URL, testOptions())
	stats, err := adapter.FetchStats(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchStats failed: %v", err)
	}

	gfg := stats.GeeksForGeeks
	if gfg.CodingScore != 425 || gfg.ProblemsSolved != 187 {
		t.Errorf("Score cards not extracted: %+v", gfg)
	}
	if gfg.ContestRating != 0 {
		t.Errorf("Placeholder score should default to 0, got %d", gfg.ContestRating)
	}
	if gfg.InstituteRank != 234 {
		t.Errorf("Expected institute rank 234, got %d", gfg.InstituteRank)
	}
	if gfg.Streak != 12 {
		t.Errorf("Expected streak 12, got %d", gfg.Streak)
	}
	if gfg.SolvedByLevel["easy"] != 98 || gfg.SolvedByLevel["medium"] != 72 || gfg.SolvedByLevel["hard"] != 17 {
		t.Errorf("Difficulty counts not extracted: %v", gfg.SolvedByLevel)
	}

	if !adapter.Verify(context.Background(), "alice") {
		t.Error("Verify should report true for a parseable profile")
	}
}

func TestGeeksForGeeksAdapterShapeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h1>Page not found</h1></body></html>`)
	}))
	defer server.Close()

	adapter := NewGeeksForGeeksAdapter(server.URL, testOptions())
	_, err := adapter.FetchStats(context.Background(), "ghost")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected a *FetchError, got %v", err)
	}
	if fe.Kind != ErrKindShape {
		t.Errorf("Expected shape error for unparseable page, got %s", fe.Kind)
	}
}

func TestAdapterTimeoutResolvesToFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, `{"status":"success"}`)
	}))
	defer server.Close()

	adapter := NewLeetCodeAdapter(server.URL, ClientOptions{Timeout: 50 * time.Millisecond})
	_, err := adapter.FetchStats(context.Background(), "alice")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected a timed-out call to resolve to *FetchError, got %v", err)
	}
	if fe.Kind != ErrKindUnavailable {
		t.Errorf("Expected timeout to classify as unavailable, got %s", fe.Kind)
	}
}

func TestNonSuccessStatusResolvesToFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	adapter := NewCodeChefAdapter(server.URL, testOptions())
	_, err := adapter.FetchStats(context.Background(), "alice")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected a *FetchError for a 502, got %v", err)
	}
	if fe.Kind != ErrKindUnavailable {
		t.Errorf("Expected unavailable, got %s", fe.Kind)
	}
}
