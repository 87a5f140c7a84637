package testutil

import (
	"fmt"

	"github.com/preston-bernstein/cricket-live-service/internal/domain/blogs"
	"github.com/preston-bernstein/cricket-live-service/internal/domain/matches"
)

// SampleMatch returns a minimal scheduled match fixture with the provided id.
func SampleMatch(id string) matches.Match {
	return matches.Match{
		ID:          id,
		Name:        "India vs Australia, " + id,
		MatchType:   "t20",
		Status:      "Match not started",
		Venue:       "Wankhede Stadium, Mumbai",
		DateTimeGMT: "2024-05-02T14:00:00",
		Teams:       []string{"India", "Australia"},
		TeamInfo: []matches.Team{
			{Name: "India", ShortName: "IND"},
			{Name: "Australia", ShortName: "AUS"},
		},
	}
}

// LiveMatch returns a fixture that classifies as live.
func LiveMatch(id string) matches.Match {
	m := SampleMatch(id)
	m.MatchStarted = true
	m.Status = "India opt to bat"
	m.Score = []matches.Score{{Runs: 87, Wickets: 2, Overs: 10.3, Inning: "India Inning 1"}}
	return m
}

// CompletedMatch returns a fixture that classifies as completed and neither live nor upcoming.
func CompletedMatch(id string) matches.Match {
	m := SampleMatch(id)
	m.MatchStarted = true
	m.MatchEnded = true
	m.Status = "India won by 6 wkts"
	m.DateTimeGMT = "2020-01-01T09:30:00"
	return m
}

// SampleCommentary returns n entries, newest first.
func SampleCommentary(n int) []matches.CommentaryEntry {
	out := make([]matches.CommentaryEntry, n)
	for i := range out {
		ball := n - i
		out[i] = matches.CommentaryEntry{
			Over:       fmt.Sprintf("%d.%d", ball/6, ball%6),
			Event:      "run",
			Commentary: fmt.Sprintf("ball %d, single to long on", ball),
		}
	}
	return out
}

// SampleBlog returns a post fixture in category.
func SampleBlog(id, category string) blogs.Blog {
	return blogs.Blog{
		ID:       id,
		Title:    "Post " + id,
		Author:   "Desk",
		Category: category,
		Likes:    3,
	}
}
