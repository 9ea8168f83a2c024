package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/AreteDriver/marketing-engine/internal/models"
)

// Export formats.
const (
	ExportJSON     = "json"
	ExportMarkdown = "markdown"
)

type exportedPost struct {
	ID            string   `json:"id"`
	Platform      string   `json:"platform"`
	Stream        string   `json:"stream"`
	Content       string   `json:"content"`
	CTAURL        string   `json:"cta_url"`
	Hashtags      []string `json:"hashtags"`
	Subreddit     string   `json:"subreddit,omitempty"`
	ScheduledTime *string  `json:"scheduled_time"`
	Status        string   `json:"status"`
}

// ExportApproved renders the week's approved and edited posts as a JSON
// array or a Markdown document grouped by day. Content is the effective
// content: edits win over the original draft.
func ExportApproved(store Store, weekOf time.Time, format string) (string, error) {
	posts, err := store.GetQueue(weekOf)
	if err != nil {
		return "", err
	}

	var approved []*models.PostDraft
	for _, post := range posts {
		if post.ApprovalStatus.Publishable() {
			approved = append(approved, post)
		}
	}

	if format == ExportMarkdown {
		return exportMarkdown(approved), nil
	}
	return exportJSON(approved)
}

func exportJSON(posts []*models.PostDraft) (string, error) {
	items := make([]exportedPost, 0, len(posts))
	for _, post := range posts {
		var scheduled *string
		if post.ScheduledTime != nil {
			s := post.ScheduledTime.Format(time.RFC3339)
			scheduled = &s
		}
		items = append(items, exportedPost{
			ID:            post.ID,
			Platform:      string(post.Platform),
			Stream:        string(post.Stream),
			Content:       post.EffectiveContent(),
			CTAURL:        post.CTAURL,
			Hashtags:      post.Hashtags,
			Subreddit:     post.Subreddit,
			ScheduledTime: scheduled,
			Status:        string(post.ApprovalStatus),
		})
	}

	out, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}
	return string(out), nil
}

func exportMarkdown(posts []*models.PostDraft) string {
	if len(posts) == 0 {
		return "# Weekly Content Queue\n\nNo approved posts for this week.\n"
	}

	sorted := make([]*models.PostDraft, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].ScheduledTime, sorted[j].ScheduledTime
		if ti == nil {
			return tj != nil
		}
		if tj == nil {
			return false
		}
		return ti.Before(*tj)
	})

	var b strings.Builder
	b.WriteString("# Weekly Content Queue\n\n")

	currentDay := ""
	for _, post := range sorted {
		day := "Unscheduled"
		timeStr := ""
		if post.ScheduledTime != nil {
			day = post.ScheduledTime.Format("Monday, January 2")
			timeStr = post.ScheduledTime.Format("3:04 PM")
		}
		if day != currentDay {
			fmt.Fprintf(&b, "## %s\n\n", day)
			currentDay = day
		}

		fmt.Fprintf(&b, "### [%s] %s\n\n", post.Platform, timeStr)
		b.WriteString(post.EffectiveContent())
		b.WriteString("\n")
		if len(post.Hashtags) > 0 {
			tags := make([]string, 0, len(post.Hashtags))
			for _, tag := range post.Hashtags {
				if !strings.HasPrefix(tag, "#") {
					tag = "#" + tag
				}
				tags = append(tags, tag)
			}
			fmt.Fprintf(&b, "\n%s\n", strings.Join(tags, " "))
		}
		if post.CTAURL != "" {
			fmt.Fprintf(&b, "\nCTA: %s\n", post.CTAURL)
		}
		if post.Subreddit != "" {
			fmt.Fprintf(&b, "\nSubreddit: r/%s\n", post.Subreddit)
		}
		b.WriteString("\n")
	}
	return b.String()
}
