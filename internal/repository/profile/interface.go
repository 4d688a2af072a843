package profile

import (
	"context"

	"booknest/internal/model"
)

type IRepository interface {
	Get(ctx context.Context, appId, uid string) (*model.UserProfile, error)
	Set(ctx context.Context, appId, uid string, data model.UserProfile) error
	NotifyOnChanged(ctx context.Context, appId, uid string) <-chan ProfileEvent
}
