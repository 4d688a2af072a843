package stats

import (
	"context"

	"booknest/internal/model"
)

type IRepository interface {
	Get(ctx context.Context, appId string) (model.AdminStats, error)
	IncrementRegisteredUsers(ctx context.Context, appId string) error
	IncrementOrder(ctx context.Context, appId string, totalUSD float64) error
	NotifyOnChanged(ctx context.Context, appId string) <-chan StatsEvent
}
