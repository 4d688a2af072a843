package storefront

import (
	"context"

	"booknest/internal/eventpublisher/event"
	feedRepository "booknest/internal/repository/feed"
	"booknest/internal/repository/filter"
	"booknest/internal/repository/ops"
	statsRepository "booknest/internal/repository/stats"
)

type Factory interface {
	OnFeedEntryAdded(appId, userId string) StorefrontPublisher
	OnDashboardStatsChanged(appId string) StorefrontPublisher
}

type factory struct {
	feedRepo  feedRepository.IRepository
	statsRepo statsRepository.IRepository
}

func PublisherFactory(feedRepo feedRepository.IRepository, statsRepo statsRepository.IRepository) Factory {
	return &factory{
		feedRepo:  feedRepo,
		statsRepo: statsRepo,
	}
}

// OnFeedEntryAdded streams recommendation entries appended to one reader's feed.
func (f *factory) OnFeedEntryAdded(appId, userId string) StorefrontPublisher {
	return newPublisher("feed", func(ctx context.Context) <-chan event.Event {
		feedCh := f.feedRepo.NotifyOnAdded(ctx, appId, userId,
			[]filter.Where{{Path: feedRepository.TypeFieldPath, Op: ops.Equal, Value: feedRepository.TypeAIRecommendation}})
		return adapt(ctx, feedCh, func(e feedRepository.FeedEvent) event.Event {
			return event.Event{Message: e.Entry, Err: e.Err}
		})
	})
}

// OnDashboardStatsChanged streams updates of the admin dashboard counters.
func (f *factory) OnDashboardStatsChanged(appId string) StorefrontPublisher {
	return newPublisher("stats", func(ctx context.Context) <-chan event.Event {
		statsCh := f.statsRepo.NotifyOnChanged(ctx, appId)
		return adapt(ctx, statsCh, func(e statsRepository.StatsEvent) event.Event {
			return event.Event{Message: e.Stats, Err: e.Err}
		})
	})
}

// adapt converts a repository event channel into the publisher's event type,
// closing the output when the source closes.
func adapt[T any](ctx context.Context, in <-chan T, convert func(T) event.Event) <-chan event.Event {
	out := make(chan event.Event)
	go func() {
		defer close(out)
		for e := range in {
			select {
			case out <- convert(e):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
