package profile

import (
	"context"
	"fmt"

	"booknest/internal/database"
	ierr "booknest/internal/errors"
	"booknest/internal/model"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ProfileEvent struct {
	Profile model.UserProfile
	Err     error
}

type ProfileRepository struct {
	db database.Client
}

var _ IRepository = ProfileRepository{}

func New(db database.Client) ProfileRepository {
	return ProfileRepository{
		db: db,
	}
}

func (r ProfileRepository) docRef(appId, uid string) *firestore.DocumentRef {
	return r.db.Collection(artifactsNode).
		Doc(appId).
		Collection(usersNode).
		Doc(uid).
		Collection(userProfilesNode).
		Doc(profileDocId)
}

// Get returns ierr.NotFound when the profile doc does not exist. Callers
// treat that as a normal case and backfill defaults.
func (r ProfileRepository) Get(ctx context.Context, appId, uid string) (*model.UserProfile, error) {

	docSnap, err := r.docRef(appId, uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ierr.NotFound
		}
		return nil, fmt.Errorf("get profile: %w, uid: %s", err, uid)
	}

	if !docSnap.Exists() {
		return nil, ierr.NotFound
	}

	profile := &model.UserProfile{}
	if err = docSnap.DataTo(profile); err != nil {
		return nil, fmt.Errorf("get profile: %w, uid: %s", err, uid)
	}

	return profile, nil
}

// Set writes the whole profile with a merge so partial updates never wipe
// fields another writer owns.
func (r ProfileRepository) Set(ctx context.Context, appId, uid string, data model.UserProfile) error {

	if _, err := r.db.SetDoc(ctx, r.docRef(appId, uid), data, firestore.MergeAll); err != nil {
		return fmt.Errorf("set profile: %w, uid: %s", err, uid)
	}

	return nil
}

// NotifyOnChanged streams live snapshots of the profile doc. Deliveries are
// at-least-once; consumers must apply them idempotently.
func (r ProfileRepository) NotifyOnChanged(ctx context.Context, appId, uid string) <-chan ProfileEvent {

	ch := make(chan ProfileEvent)

	go func() {
		defer close(ch)

		for e := range r.db.NotifyOnDoc(ctx, r.docRef(appId, uid)) {
			if e.Err != nil {
				ch <- ProfileEvent{Err: e.Err}
				return
			}

			if e.Snap == nil || !e.Snap.Exists() {
				// Newly registered user: the doc may not exist yet.
				continue
			}

			profile := model.UserProfile{}
			if err := e.Snap.DataTo(&profile); err != nil {
				log.Error().Err(err).Msg("profile repo: failed to convert doc to profile")
				continue
			}

			select {
			case ch <- ProfileEvent{Profile: profile}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch
}
