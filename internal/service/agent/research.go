package agent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/AreteDriver/marketing-engine/internal/models"
	"github.com/AreteDriver/marketing-engine/internal/service/llm"
)

const researchSystemPrompt = "You are a content strategist for a developer's project portfolio. " +
	"Given content streams and recent activity, produce content briefs. " +
	"Each brief should have a unique angle that drives engagement. " +
	"Output ONLY a JSON array of objects with keys: " +
	"topic, angle, target_audience, relevant_links (array of URLs), " +
	"stream (one of: project_marketing, benchgoblins, eve_content, " +
	"linux_tools, technical_ai), " +
	"platforms (array of: twitter, linkedin, reddit)."

// ResearchAgent generates content briefs from streams and recent activity.
type ResearchAgent struct {
	base
}

func NewResearchAgent(client llm.Client) *ResearchAgent {
	return &ResearchAgent{base: base{llm: client}}
}

type researchItem struct {
	Topic          string   `json:"topic"`
	Angle          string   `json:"angle"`
	TargetAudience string   `json:"target_audience"`
	RelevantLinks  []string `json:"relevant_links"`
	Stream         string   `json:"stream"`
	Platforms      []string `json:"platforms"`
}

func (a *ResearchAgent) buildUserPrompt(streams []models.ContentStream, activity string) string {
	targets := streams
	if len(targets) == 0 {
		targets = models.AllStreams
	}
	names := make([]string, 0, len(targets))
	for _, s := range targets {
		names = append(names, string(s))
	}

	lines := []string{
		"Generate content briefs for the following streams:",
		strings.Join(names, ", "),
	}
	if activity != "" {
		lines = append(lines, "", "Recent activity and context:", activity)
	}
	lines = append(lines, "",
		"Create one brief per stream. Each brief should target 2-3 platforms for maximum reach.")
	return strings.Join(lines, "\n")
}

// Run produces one brief per requested stream. Unknown stream or
// platform values from the model are normalized to safe defaults.
func (a *ResearchAgent) Run(ctx context.Context, streams []models.ContentStream, activity string) ([]*models.ContentBrief, error) {
	userPrompt := a.buildUserPrompt(streams, activity)

	var items []researchItem
	err := a.runJSON(ctx, researchSystemPrompt, userPrompt, func(raw string) error {
		items = items[:0]
		if jsonErr := json.Unmarshal([]byte(raw), &items); jsonErr == nil {
			return nil
		}
		// Tolerate a single object instead of an array
		var single researchItem
		if jsonErr := json.Unmarshal([]byte(raw), &single); jsonErr != nil {
			return jsonErr
		}
		items = append(items, single)
		return nil
	})
	if err != nil {
		return nil, err
	}

	briefs := make([]*models.ContentBrief, 0, len(items))
	for _, item := range items {
		brief := models.NewContentBrief(
			orDefault(item.Topic, "Untitled"),
			item.Angle,
			orDefault(item.TargetAudience, "developers"),
			normalizeStream(item.Stream),
			normalizePlatforms(item.Platforms),
		)
		if len(item.RelevantLinks) > 0 {
			brief.RelevantLinks = item.RelevantLinks
		}
		briefs = append(briefs, brief)
	}
	return briefs, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func normalizeStream(raw string) models.ContentStream {
	stream := models.ContentStream(strings.ToLower(strings.TrimSpace(raw)))
	if !stream.Valid() {
		return models.StreamProjectMarketing
	}
	return stream
}

func normalizePlatforms(raw []string) []models.Platform {
	var platforms []models.Platform
	for _, name := range raw {
		platform := models.Platform(strings.ToLower(strings.TrimSpace(name)))
		if platform.Valid() {
			platforms = append(platforms, platform)
		}
	}
	if len(platforms) == 0 {
		platforms = []models.Platform{models.PlatformTwitter}
	}
	return platforms
}
