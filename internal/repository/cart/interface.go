package cart

import (
	"context"

	"booknest/internal/model"
)

type IRepository interface {
	Load(ctx context.Context, uid string) (*model.CartDoc, error)
	Save(ctx context.Context, uid string, data model.CartDoc) error
}
