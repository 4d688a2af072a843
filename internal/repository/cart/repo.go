package cart

import (
	"context"
	"fmt"

	"booknest/internal/database"
	ierr "booknest/internal/errors"
	"booknest/internal/model"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type CartRepository struct {
	db database.Client
}

var _ IRepository = CartRepository{}

func New(db database.Client) CartRepository {
	return CartRepository{
		db: db,
	}
}

func (r CartRepository) docRef(uid string) *firestore.DocumentRef {
	return r.db.Collection(cartsNode).Doc(uid)
}

func (r CartRepository) Load(ctx context.Context, uid string) (*model.CartDoc, error) {

	docSnap, err := r.docRef(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ierr.NotFound
		}
		return nil, fmt.Errorf("load cart: %w, uid: %s", err, uid)
	}

	if !docSnap.Exists() {
		return nil, ierr.NotFound
	}

	doc := &model.CartDoc{}
	if err := docSnap.DataTo(doc); err != nil {
		return nil, fmt.Errorf("load cart: %w, uid: %s", err, uid)
	}

	return doc, nil
}

// Save overwrites the whole cart doc. The epoch inside data must have been
// bumped by the ledger; readers resolve concurrent writes by epoch.
func (r CartRepository) Save(ctx context.Context, uid string, data model.CartDoc) error {

	if _, err := r.db.SetDoc(ctx, r.docRef(uid), data); err != nil {
		return fmt.Errorf("save cart: %w, uid: %s", err, uid)
	}

	return nil
}
