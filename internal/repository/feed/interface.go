package feed

import (
	"context"

	"booknest/internal/model"
	"booknest/internal/repository/filter"
)

type IRepository interface {
	Append(ctx context.Context, appId, userId string, entry model.FeedEntry) error
	NotifyOnAdded(ctx context.Context, appId, userId string, where []filter.Where) <-chan FeedEvent
}
