package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AreteDriver/marketing-engine/internal/config"
	"github.com/AreteDriver/marketing-engine/internal/models"
	"github.com/AreteDriver/marketing-engine/internal/service/llm"
)

var streamTones = map[models.ContentStream]string{
	models.StreamProjectMarketing: "Professional but approachable. Show technical depth without jargon overload.",
	models.StreamBenchGoblins:     "Casual and fun. Fantasy sports energy. Hot takes welcome.",
	models.StreamEVEContent:       "In-universe immersion mixed with community engagement. Speak to capsuleers.",
	models.StreamLinuxTools:       "Practical and direct. Show, don't tell. Demo-oriented.",
	models.StreamTechnicalAI:      "Thought leadership. Deep technical insight. Challenge conventional thinking.",
}

var defaultAvoid = []string{
	"excited to announce",
	"game-changer",
	"leveraging AI",
	"revolutionary",
	"synergy",
}

var defaultPrinciples = []string{
	"Be direct and specific",
	"Show results, not promises",
	"Include a clear call to action",
	"Write like a human, not a press release",
}

// DraftAgent writes raw post content for a brief, following the
// configured brand voice.
type DraftAgent struct {
	base
	voice config.BrandVoiceConfig
}

func NewDraftAgent(client llm.Client, voice config.BrandVoiceConfig) *DraftAgent {
	return &DraftAgent{base: base{llm: client}, voice: voice}
}

// DraftData is the draft stage's output for one brief.
type DraftData struct {
	Content  string   `json:"content"`
	CTAURL   string   `json:"cta_url"`
	Hashtags []string `json:"hashtags"`
}

func (a *DraftAgent) systemPrompt() string {
	avoid := a.voice.Avoid
	if len(avoid) == 0 {
		avoid = defaultAvoid
	}
	principles := a.voice.Principles
	if len(principles) == 0 {
		principles = defaultPrinciples
	}

	quoted := make([]string, 0, len(avoid))
	for _, phrase := range avoid {
		quoted = append(quoted, fmt.Sprintf("%q", phrase))
	}
	bullets := make([]string, 0, len(principles))
	for _, p := range principles {
		bullets = append(bullets, "- "+p)
	}

	return "You are a social media copywriter for a developer's project portfolio.\n\n" +
		"Brand voice principles:\n" + strings.Join(bullets, "\n") + "\n\n" +
		"NEVER use these phrases: " + strings.Join(quoted, ", ") + "\n\n" +
		"Given a content brief, write a compelling post. Include a clear CTA. " +
		`Output ONLY JSON: {"content": "...", "cta_url": "...", "hashtags": [...]}`
}

func (a *DraftAgent) buildUserPrompt(brief *models.ContentBrief) string {
	tone, ok := streamTones[brief.Stream]
	if !ok {
		tone = "Professional and engaging."
	}
	links := "none"
	if len(brief.RelevantLinks) > 0 {
		links = strings.Join(brief.RelevantLinks, ", ")
	}

	return fmt.Sprintf(
		"Content Brief:\nTopic: %s\nAngle: %s\nTarget Audience: %s\nRelevant Links: %s\nStream: %s\nTarget Platforms: %s\n\nTone guidance for %s: %s\n\nWrite the post now.",
		brief.Topic, brief.Angle, brief.TargetAudience, links,
		brief.Stream, strings.Join(brief.Platforms, ", "),
		brief.Stream, tone,
	)
}

// Run generates draft content for the brief.
func (a *DraftAgent) Run(ctx context.Context, brief *models.ContentBrief) (*DraftData, error) {
	var data DraftData
	err := a.runJSON(ctx, a.systemPrompt(), a.buildUserPrompt(brief), func(raw string) error {
		data = DraftData{}
		return json.Unmarshal([]byte(raw), &data)
	})
	if err != nil {
		return nil, err
	}
	return &data, nil
}
