package models

// Platform identifies a social media platform posts are published to.
type Platform string

const (
	PlatformTwitter  Platform = "twitter"
	PlatformLinkedIn Platform = "linkedin"
	PlatformReddit   Platform = "reddit"
	PlatformYouTube  Platform = "youtube"
	PlatformTikTok   Platform = "tiktok"
)

// AllPlatforms lists every supported platform.
var AllPlatforms = []Platform{
	PlatformTwitter,
	PlatformLinkedIn,
	PlatformReddit,
	PlatformYouTube,
	PlatformTikTok,
}

func (p Platform) Valid() bool {
	for _, known := range AllPlatforms {
		if p == known {
			return true
		}
	}
	return false
}

// ContentStream is a content category the engine produces posts for.
type ContentStream string

const (
	StreamProjectMarketing ContentStream = "project_marketing"
	StreamBenchGoblins     ContentStream = "benchgoblins"
	StreamEVEContent       ContentStream = "eve_content"
	StreamLinuxTools       ContentStream = "linux_tools"
	StreamTechnicalAI      ContentStream = "technical_ai"
)

// AllStreams lists every content stream.
var AllStreams = []ContentStream{
	StreamProjectMarketing,
	StreamBenchGoblins,
	StreamEVEContent,
	StreamLinuxTools,
	StreamTechnicalAI,
}

func (s ContentStream) Valid() bool {
	for _, known := range AllStreams {
		if s == known {
			return true
		}
	}
	return false
}

// ApprovalStatus tracks a post through the review workflow.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalEdited   ApprovalStatus = "edited"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Publishable reports whether a post in this approval state may be
// handed to a platform publisher.
func (s ApprovalStatus) Publishable() bool {
	return s == ApprovalApproved || s == ApprovalEdited
}

// PublishStatus tracks the delivery lifecycle of an approved post.
type PublishStatus string

const (
	PublishPending   PublishStatus = "pending"
	PublishPublished PublishStatus = "published"
	PublishFailed    PublishStatus = "failed"
)
