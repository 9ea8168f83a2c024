package publisher

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/AreteDriver/marketing-engine/internal/models"
)

// ErrPlatformUnsupported is returned when no real publisher exists for a
// platform and dry-run mode is off.
var ErrPlatformUnsupported = errors.New("no publisher available for platform")

// Registry holds the registered platform publishers and selects one per
// post at publish time.
type Registry struct {
	publishers map[models.Platform]Publisher
	logger     *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		publishers: make(map[models.Platform]Publisher),
		logger:     logger,
	}
}

func (r *Registry) Register(pub Publisher) error {
	platform := pub.Platform()
	if _, exists := r.publishers[platform]; exists {
		return fmt.Errorf("publisher for platform %s already registered", platform)
	}

	r.publishers[platform] = pub
	r.logger.Info("Publisher registered", zap.String("platform", string(platform)))
	return nil
}

// Get returns the publisher for a platform. With dryRun set it always
// returns a simulator, regardless of what is registered.
func (r *Registry) Get(platform models.Platform, dryRun bool) (Publisher, error) {
	if dryRun {
		return NewDryRun(platform), nil
	}

	pub, exists := r.publishers[platform]
	if !exists {
		return nil, fmt.Errorf("%w: %s (registered: %s)", ErrPlatformUnsupported, platform, r.registeredNames())
	}
	return pub, nil
}

// Platforms lists the platforms with a registered publisher.
func (r *Registry) Platforms() []models.Platform {
	var platforms []models.Platform
	for platform := range r.publishers {
		platforms = append(platforms, platform)
	}
	return platforms
}

func (r *Registry) registeredNames() string {
	names := ""
	for platform := range r.publishers {
		if names != "" {
			names += ", "
		}
		names += string(platform)
	}
	if names == "" {
		names = "none"
	}
	return names
}
