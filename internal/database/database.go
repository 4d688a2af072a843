package database

import (
	"context"

	"cloud.google.com/go/firestore"
)

type ChangeEvent struct {
	Change firestore.DocumentChange
	Err    error
}

// DocEvent is a single-document snapshot delivery. Snap may be a non-existing
// snapshot when the document has not been created yet.
type DocEvent struct {
	Snap *firestore.DocumentSnapshot
	Err  error
}

type Client interface {
	NotifyOnChanges(ctx context.Context, it *firestore.QuerySnapshotIterator, kind firestore.DocumentChangeKind) <-chan ChangeEvent
	NotifyOnDoc(ctx context.Context, docRef *firestore.DocumentRef) <-chan DocEvent
	GetDoc(ctx context.Context, docRef *firestore.DocumentRef) (*firestore.DocumentSnapshot, error)
	UpdateDoc(ctx context.Context, docRef *firestore.DocumentRef, updates []firestore.Update, preconds ...firestore.Precondition) (_ *firestore.WriteResult, err error)
	SetDoc(ctx context.Context, docRef *firestore.DocumentRef, data interface{}, opts ...firestore.SetOption) (_ *firestore.WriteResult, err error)
	Collection(path string) *firestore.CollectionRef
	Doc(path string) *firestore.DocumentRef
}
