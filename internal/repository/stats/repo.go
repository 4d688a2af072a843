package stats

import (
	"context"
	"fmt"

	"booknest/internal/database"
	"booknest/internal/model"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type StatsEvent struct {
	Stats model.AdminStats
	Err   error
}

// StatsRepository mutates the admin dashboard counters only through atomic
// increments; they are read-only everywhere else.
type StatsRepository struct {
	db database.Client
}

var _ IRepository = StatsRepository{}

func New(db database.Client) StatsRepository {
	return StatsRepository{
		db: db,
	}
}

func (r StatsRepository) docRef(appId string) *firestore.DocumentRef {
	return r.db.Collection(artifactsNode).
		Doc(appId).
		Collection(adminDataNode).
		Doc(statsDocId)
}

// Get returns zero counters when the doc does not exist yet; an absent stats
// doc is a normal case, not an error.
func (r StatsRepository) Get(ctx context.Context, appId string) (model.AdminStats, error) {

	docSnap, err := r.docRef(appId).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.AdminStats{}, nil
		}
		return model.AdminStats{}, fmt.Errorf("get admin stats: %w", err)
	}

	stats := model.AdminStats{}
	if err := docSnap.DataTo(&stats); err != nil {
		return model.AdminStats{}, fmt.Errorf("get admin stats: %w", err)
	}

	return stats, nil
}

func (r StatsRepository) IncrementRegisteredUsers(ctx context.Context, appId string) error {

	_, err := r.db.UpdateDoc(ctx, r.docRef(appId), []firestore.Update{
		{Path: TotalRegisteredUsersFieldPath, Value: firestore.Increment(1)},
	})
	if err == nil {
		return nil
	}

	// The doc may not exist yet; initialize it with this registration counted.
	log.Warn().Err(err).Msg("stats repo: increment failed, initializing dashboard stats")
	if _, err := r.db.SetDoc(ctx, r.docRef(appId), model.AdminStats{TotalRegisteredUsers: 1}, firestore.MergeAll); err != nil {
		return fmt.Errorf("init admin stats: %w", err)
	}

	return nil
}

func (r StatsRepository) IncrementOrder(ctx context.Context, appId string, totalUSD float64) error {

	_, err := r.db.UpdateDoc(ctx, r.docRef(appId), []firestore.Update{
		{Path: TotalOrdersFieldPath, Value: firestore.Increment(1)},
		{Path: TotalRevenueFieldPath, Value: firestore.Increment(totalUSD)},
	})
	if err == nil {
		return nil
	}

	log.Warn().Err(err).Msg("stats repo: increment failed, initializing dashboard stats")
	if _, err := r.db.SetDoc(ctx, r.docRef(appId), model.AdminStats{TotalOrders: 1, TotalRevenue: totalUSD}, firestore.MergeAll); err != nil {
		return fmt.Errorf("init admin stats: %w", err)
	}

	return nil
}

// NotifyOnChanged streams live snapshots of the stats doc for the admin view.
func (r StatsRepository) NotifyOnChanged(ctx context.Context, appId string) <-chan StatsEvent {

	ch := make(chan StatsEvent)

	go func() {
		defer close(ch)

		for e := range r.db.NotifyOnDoc(ctx, r.docRef(appId)) {
			if e.Err != nil {
				ch <- StatsEvent{Err: e.Err}
				return
			}

			if e.Snap == nil || !e.Snap.Exists() {
				continue
			}

			stats := model.AdminStats{}
			if err := e.Snap.DataTo(&stats); err != nil {
				log.Error().Err(err).Msg("stats repo: failed to convert doc to stats")
				continue
			}

			select {
			case ch <- StatsEvent{Stats: stats}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch
}
