package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
)

// RefreshStrategy runs before a full walk and reports how many stored records it removed.
type RefreshStrategy interface {
	Name() resource.RefreshPolicy
	BeforeFullSync(ctx context.Context, collection Collection) (cleared int64, err error)
}

type destructiveRefresh struct{}

func (destructiveRefresh) Name() resource.RefreshPolicy { return resource.RefreshDestructive }

func (destructiveRefresh) BeforeFullSync(ctx context.Context, collection Collection) (int64, error) {
	cleared, err := collection.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear collection: %w", err)
	}
	return cleared, nil
}

type additiveRefresh struct{}

func (additiveRefresh) Name() resource.RefreshPolicy { return resource.RefreshAdditive }

func (additiveRefresh) BeforeFullSync(context.Context, Collection) (int64, error) {
	return 0, nil
}

func RefreshStrategyFor(policy resource.RefreshPolicy) RefreshStrategy {
	if policy == resource.RefreshDestructive {
		return destructiveRefresh{}
	}
	return additiveRefresh{}
}
