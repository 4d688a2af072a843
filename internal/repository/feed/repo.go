package feed

import (
	"context"
	"errors"
	"fmt"

	"booknest/internal/database"
	"booknest/internal/model"
	"booknest/internal/repository/filter"
	"booknest/internal/repository/helper"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
)

type FeedEvent struct {
	Entry model.FeedEntry
	Err   error
}

// FeedRepository appends to and watches the per-user activity feed at
// artifacts/{appId}/users/{userId}/feedItems. Entries are immutable once
// written.
type FeedRepository struct {
	db database.Client
}

var _ IRepository = FeedRepository{}

func New(db database.Client) FeedRepository {
	return FeedRepository{
		db: db,
	}
}

func (r FeedRepository) items(appId, userId string) *firestore.CollectionRef {
	return r.db.Collection(artifactsNode).
		Doc(appId).
		Collection(usersNode).
		Doc(userId).
		Collection(feedItemsNode)
}

// Append writes one feed entry with an auto id. The timestamp is assigned by
// the server through the serverTimestamp tag on the model.
func (r FeedRepository) Append(ctx context.Context, appId, userId string, entry model.FeedEntry) error {

	docRef := r.items(appId, userId).NewDoc()
	if _, err := r.db.SetDoc(ctx, docRef, entry); err != nil {
		return fmt.Errorf("append feed entry: %w, user: %s", err, userId)
	}

	return nil
}

func (r FeedRepository) NotifyOnAdded(ctx context.Context, appId, userId string, where []filter.Where) <-chan FeedEvent {
	query := r.items(appId, userId).Query

	ch := make(chan FeedEvent)

	go func() {
		defer close(ch)

		helper.NotifyOnChanges(ctx, r.db, query, where, firestore.DocumentAdded, func(dc firestore.DocumentChange, err error) error {

			if err != nil && !(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
				log.Error().Err(err).Msg("feed repo: failed to read feed events")
				helper.NonblockingWrite[FeedEvent](ctx, channelWriteTimeout, ch, FeedEvent{Err: err})
				return err
			}

			entry := model.FeedEntry{}
			if err := dc.Doc.DataTo(&entry); err != nil {
				log.Error().Err(err).Msg("feed repo: failed to convert doc to feed entry")
				return nil
			}

			return helper.NonblockingWrite[FeedEvent](ctx, channelWriteTimeout, ch, FeedEvent{Entry: entry})
		})
	}()

	return ch
}
