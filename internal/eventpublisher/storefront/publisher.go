// Package storefront fans database change streams out to the storefront's
// subscribers: new feed entries for the signed-in reader and dashboard stat
// updates for the admin view.
package storefront

import (
	"context"
	"time"

	"booknest/internal/eventpublisher"
	"booknest/internal/eventpublisher/common"
	"booknest/internal/eventpublisher/event"

	"github.com/rs/zerolog/log"
)

const (
	writeTimeout          = time.Second
	writeFailureThreshold = 3
)

// streamFunc opens the underlying database stream for one publisher.
type streamFunc func(ctx context.Context) <-chan event.Event

type StorefrontPublisher interface {
	eventpublisher.Publisher
	Start(ctx context.Context) error
}

type storefrontPublisher struct {
	name       string
	streamFn   streamFunc
	submanager common.SubManager
	publisher  common.PublisherWithFailureThreshold
}

func newPublisher(name string, fn streamFunc) StorefrontPublisher {
	return &storefrontPublisher{
		name:       name,
		streamFn:   fn,
		submanager: *common.NewSubManager(),
		publisher:  *common.NewPublisherWithFailureThreshold(writeTimeout, writeFailureThreshold),
	}
}

func (p *storefrontPublisher) Subscribe(subscriber event.EventWChannel) {
	p.submanager.Subscribe(subscriber)
}

func (p *storefrontPublisher) Unsubscribe(subscriber event.EventWChannel) {
	p.submanager.Unsubscribe(subscriber)
}

func (p *storefrontPublisher) publish(ctx context.Context, e event.Event) {
	p.submanager.OnSubscribers(func(subscriber event.EventWChannel) {
		go func() {
			if err := p.publisher.Publish(ctx, subscriber, e); err != nil {
				p.Unsubscribe(subscriber)
			}
		}()
	})
}

func (p *storefrontPublisher) Start(ctx context.Context) error {
	defer p.submanager.UnsubscribeAll()

	eventsCh := p.streamFn(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Error().Err(ctx.Err()).Msgf("%s publisher stopped", p.name)
			return ctx.Err()
		case e, ok := <-eventsCh:
			if !ok {
				return nil
			}
			p.publish(ctx, e)
		}
	}
}
