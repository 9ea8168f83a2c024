package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AreteDriver/marketing-engine/internal/config"
	"github.com/AreteDriver/marketing-engine/internal/models"
	"github.com/AreteDriver/marketing-engine/internal/service/llm"
	"github.com/AreteDriver/marketing-engine/pkg/util"
)

type platformLimits struct {
	maxChars    int
	maxHashtags int
}

var defaultLimits = map[models.Platform]platformLimits{
	models.PlatformTwitter:  {maxChars: 280, maxHashtags: 3},
	models.PlatformLinkedIn: {maxChars: 3000, maxHashtags: 5},
	models.PlatformReddit:   {maxChars: 10000, maxHashtags: 0},
	models.PlatformYouTube:  {maxChars: 5000, maxHashtags: 15},
	models.PlatformTikTok:   {maxChars: 2200, maxHashtags: 5},
}

// FormatAgent adapts drafted content to one platform's constraints and
// conventions. Limits are enforced after parsing as a hard backstop; the
// model is only asked to respect them.
type FormatAgent struct {
	base
	rules map[string]config.PlatformRule
}

func NewFormatAgent(client llm.Client, rules map[string]config.PlatformRule) *FormatAgent {
	return &FormatAgent{base: base{llm: client}, rules: rules}
}

// FormatData is the format stage's output for one post.
type FormatData struct {
	Content   string   `json:"content"`
	Hashtags  []string `json:"hashtags"`
	Subreddit string   `json:"subreddit"`
}

func (a *FormatAgent) limits(platform models.Platform) platformLimits {
	limits, ok := defaultLimits[platform]
	if !ok {
		limits = platformLimits{maxChars: 280, maxHashtags: 3}
	}
	if rule, ok := a.rules[string(platform)]; ok {
		if rule.MaxChars > 0 {
			limits.maxChars = rule.MaxChars
		}
		if rule.MaxHashtags != nil {
			limits.maxHashtags = *rule.MaxHashtags
		}
	}
	return limits
}

func (a *FormatAgent) systemPrompt(platform models.Platform) string {
	limits := a.limits(platform)

	subredditNote := ""
	if platform == models.PlatformReddit {
		subredditNote = ` Include "subreddit" key with the target subreddit name (without r/ prefix).`
	}

	return fmt.Sprintf(
		"You are a social media formatter. Reformat the given post for %s. "+
			"Maximum %d characters. Maximum %d hashtags. "+
			"Respect the platform's conventions and culture.%s "+
			`Output ONLY JSON: {"content": "...", "hashtags": [...], "subreddit": "..." (reddit only, null otherwise)}`,
		platform, limits.maxChars, limits.maxHashtags, subredditNote,
	)
}

func (a *FormatAgent) buildUserPrompt(content string, platform models.Platform, stream models.ContentStream) string {
	lines := []string{
		fmt.Sprintf("Reformat this post for %s:", platform),
		"",
		content,
		"",
		fmt.Sprintf("Content stream: %s", stream),
	}
	if rule, ok := a.rules[string(platform)]; ok && rule.StyleNotes != "" {
		lines = append(lines, fmt.Sprintf("Platform style notes: %s", rule.StyleNotes))
	}
	return strings.Join(lines, "\n")
}

// Run reformats content for the platform and enforces its limits.
func (a *FormatAgent) Run(ctx context.Context, content string, platform models.Platform, stream models.ContentStream) (*FormatData, error) {
	var data FormatData
	err := a.runJSON(ctx, a.systemPrompt(platform), a.buildUserPrompt(content, platform, stream), func(raw string) error {
		data = FormatData{}
		return json.Unmarshal([]byte(raw), &data)
	})
	if err != nil {
		return nil, err
	}

	limits := a.limits(platform)
	data.Content = util.TruncateAtWord(data.Content, limits.maxChars)
	data.Hashtags = util.CapHashtags(util.NormalizeHashtags(data.Hashtags), limits.maxHashtags)
	return &data, nil
}
