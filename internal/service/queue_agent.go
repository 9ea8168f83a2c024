package service

import (
	"sort"
	"time"

	"github.com/AreteDriver/marketing-engine/internal/config"
	"github.com/AreteDriver/marketing-engine/internal/models"
)

// Tuesday through Sunday (0=Monday).
var defaultPostingDays = []int{1, 2, 3, 4, 5, 6}

var defaultWindows = map[string][]config.Window{
	"twitter": {
		{Hour: 9, Minute: 0},
		{Hour: 12, Minute: 30},
		{Hour: 17, Minute: 0},
	},
	"linkedin": {
		{Hour: 8, Minute: 0},
		{Hour: 12, Minute: 0},
		{Hour: 17, Minute: 30},
	},
	"reddit": {
		{Hour: 10, Minute: 0},
		{Hour: 14, Minute: 0},
		{Hour: 19, Minute: 0},
	},
	"youtube": {
		{Hour: 10, Minute: 0},
		{Hour: 15, Minute: 0},
	},
	"tiktok": {
		{Hour: 11, Minute: 0},
		{Hour: 19, Minute: 0},
		{Hour: 21, Minute: 0},
	},
}

var fallbackWindows = []config.Window{
	{Hour: 10, Minute: 0},
	{Hour: 15, Minute: 0},
}

// QueueAgent assigns scheduled times to a batch of post drafts.
// Deterministic, no LLM involved: posts are distributed round-robin
// across per-platform posting windows and the week's posting days, then
// adjacent same-stream posts are swapped apart for variety.
type QueueAgent struct {
	cfg config.ScheduleConfig
	loc *time.Location
}

func NewQueueAgent(cfg config.ScheduleConfig) (*QueueAgent, error) {
	loc, err := ScheduleLocation(cfg)
	if err != nil {
		return nil, err
	}
	return &QueueAgent{cfg: cfg, loc: loc}, nil
}

// ScheduleLocation loads the schedule timezone, defaulting to
// America/New_York. The store computes week windows in the same
// location so queries agree with the times the agent assigns.
func ScheduleLocation(cfg config.ScheduleConfig) (*time.Location, error) {
	tzName := cfg.Timezone
	if tzName == "" {
		tzName = "America/New_York"
	}
	return time.LoadLocation(tzName)
}

func (a *QueueAgent) postingDays() []int {
	if len(a.cfg.PostingDays) > 0 {
		return a.cfg.PostingDays
	}
	return defaultPostingDays
}

func (a *QueueAgent) windows(platform models.Platform) []config.Window {
	if w, ok := a.cfg.PostingWindows[string(platform)]; ok && len(w) > 0 {
		return w
	}
	if w, ok := defaultWindows[string(platform)]; ok {
		return w
	}
	return fallbackWindows
}

// Schedule assigns a scheduled time to every post for the week starting
// at weekOf (a Monday). Posts are mutated in place and the same slice is
// returned. Never fails for normal inputs: empty batches and unknown
// platforms are handled via fallbacks.
func (a *QueueAgent) Schedule(posts []*models.PostDraft, weekOf time.Time) []*models.PostDraft {
	if len(posts) == 0 {
		return posts
	}

	postingDays := a.postingDays()

	// Group posts by platform, preserving input order within each group
	byPlatform := make(map[models.Platform][]*models.PostDraft)
	var order []models.Platform
	for _, post := range posts {
		if _, seen := byPlatform[post.Platform]; !seen {
			order = append(order, post.Platform)
		}
		byPlatform[post.Platform] = append(byPlatform[post.Platform], post)
	}

	for _, platform := range order {
		group := byPlatform[platform]
		windows := a.windows(platform)
		if len(windows) == 0 {
			windows = []config.Window{{Hour: 10, Minute: 0}}
		}

		dayIdx := 0
		for i, post := range group {
			dayOffset := postingDays[dayIdx%len(postingDays)]
			window := windows[i%len(windows)]

			postDate := weekOf.AddDate(0, 0, dayOffset)
			scheduled := time.Date(
				postDate.Year(), postDate.Month(), postDate.Day(),
				window.Hour, window.Minute, 0, 0, a.loc,
			)
			post.ScheduledTime = &scheduled

			// Advance the day only after cycling through all windows
			if (i+1)%len(windows) == 0 {
				dayIdx++
			}
		}
	}

	a.dedupAdjacent(posts)

	return posts
}

// dedupAdjacent swaps scheduled times so consecutive posts differ in
// content stream where possible. Best effort: with a lopsided stream
// distribution some adjacency can remain.
func (a *QueueAgent) dedupAdjacent(posts []*models.PostDraft) {
	var scheduled []*models.PostDraft
	for _, p := range posts {
		if p.ScheduledTime != nil {
			scheduled = append(scheduled, p)
		}
	}
	sortByTime(scheduled)

	for i := 0; i < len(scheduled)-1; i++ {
		if scheduled[i].Stream != scheduled[i+1].Stream {
			continue
		}
		// Find the next post with a different stream and trade times
		for j := i + 2; j < len(scheduled); j++ {
			if scheduled[j].Stream != scheduled[i].Stream {
				scheduled[i+1].ScheduledTime, scheduled[j].ScheduledTime =
					scheduled[j].ScheduledTime, scheduled[i+1].ScheduledTime
				// Re-sort for subsequent adjacency checks
				sortByTime(scheduled)
				break
			}
		}
	}
}

// sortByTime orders by scheduled time ascending, breaking equal
// timestamps by post ID so runs are deterministic.
func sortByTime(posts []*models.PostDraft) {
	sort.SliceStable(posts, func(i, j int) bool {
		ti, tj := posts[i].ScheduledTime, posts[j].ScheduledTime
		if ti.Equal(*tj) {
			return posts[i].ID < posts[j].ID
		}
		return ti.Before(*tj)
	})
}
