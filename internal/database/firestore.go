package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
)

type snapEvent struct {
	snap *firestore.QuerySnapshot
	err  error
}

type snapCh chan snapEvent

type FirestoreClient struct {
	*firestore.Client
	writeTimeout time.Duration
}

func New(client *firestore.Client, writeTimeout time.Duration) FirestoreClient {
	if writeTimeout == 0 {
		writeTimeout = time.Second * 30
	}
	return FirestoreClient{
		Client:       client,
		writeTimeout: writeTimeout,
	}
}

func isCtxTermination(err error) bool {
	// The error is not wrapped properly, so errors.Is() does not work
	return strings.Contains(err.Error(), "context canceled") || strings.Contains(err.Error(), "context deadline exceeded")
}

// NotifyOnChanges listens to the given SnapshotIterator and puts matching
// changes on the returned channel. A listener raising errors beyond the
// tolerance cap is stopped and the channel closed.
func (c FirestoreClient) NotifyOnChanges(ctx context.Context, it *firestore.QuerySnapshotIterator, kind firestore.DocumentChangeKind) <-chan ChangeEvent {

	ch := make(chan ChangeEvent)
	errToleranceCap := 20
	errCnt := 0

	go func() {
		defer close(ch)

		eventCh := registerEventListener(ctx, it)
		for event := range eventCh {
			if event.err != nil {
				if isCtxTermination(event.err) {
					return
				}

				log.Error().Err(event.err).Msg("error reading events")
				errCnt++
				if errCnt < errToleranceCap {
					continue
				}
				ch <- ChangeEvent{Err: event.err}
				return
			}

			for _, change := range event.snap.Changes {
				if change.Kind != kind {
					continue
				}
				if change.Doc == nil || !change.Doc.Exists() {
					continue
				}

				select {
				case ch <- ChangeEvent{Change: change}:
				case <-time.After(time.Minute):
					log.Error().Msg("timedout to deliver a change to the client")
				}
			}
		}
	}()

	return ch
}

// NotifyOnDoc delivers every snapshot of a single document, including the
// initial one. Used for live profile and dashboard-stats views.
func (c FirestoreClient) NotifyOnDoc(ctx context.Context, docRef *firestore.DocumentRef) <-chan DocEvent {

	ch := make(chan DocEvent)
	errToleranceCap := 20
	errCnt := 0

	go func() {
		defer close(ch)

		it := docRef.Snapshots(ctx)
		defer it.Stop()

		for {
			snap, err := it.Next()
			if err != nil {
				if err == iterator.Done || isCtxTermination(err) {
					return
				}

				log.Error().Err(err).Msgf("error reading doc snapshots of %s", docRef.Path)
				errCnt++
				if errCnt < errToleranceCap {
					continue
				}
				ch <- DocEvent{Err: err}
				return
			}

			select {
			case ch <- DocEvent{Snap: snap}:
			case <-ctx.Done():
				return
			case <-time.After(time.Minute):
				log.Error().Msg("timedout to deliver a doc snapshot to the client")
			}
		}
	}()

	return ch
}

// registerEventListener keeps the listener open until context is cancelled
func registerEventListener(ctx context.Context, it *firestore.QuerySnapshotIterator) <-chan snapEvent {

	threshold := 5
	retry := 0
	c := make(snapCh)
	go func() {
		defer close(c)
		defer it.Stop()

		for {
			snap, err := it.Next()
			if err == iterator.Done {
				return
			}

			select {
			case <-ctx.Done():
				return
			case c <- snapEvent{snap, err}:
				continue
			case <-time.After(time.Second * 10):
				log.Error().Msg("timedout to deliver a snapshot to the client")
				retry++
				if retry > threshold {
					return
				}
			}
		}
	}()

	return c
}

func (c FirestoreClient) GetDoc(ctx context.Context, docRef *firestore.DocumentRef) (*firestore.DocumentSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	docSnapshot, err := docRef.Get(ctx)
	if err != nil {
		return nil, err
	}

	if !docSnapshot.Exists() {
		return nil, fmt.Errorf("doc snapshot does not exist")
	}

	return docSnapshot, nil
}

func (c FirestoreClient) UpdateDoc(ctx context.Context, docRef *firestore.DocumentRef, updates []firestore.Update, preconds ...firestore.Precondition) (_ *firestore.WriteResult, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	return docRef.Update(ctx, updates, preconds...)
}

func (c FirestoreClient) SetDoc(ctx context.Context, docRef *firestore.DocumentRef, data interface{}, opts ...firestore.SetOption) (_ *firestore.WriteResult, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	return docRef.Set(ctx, data, opts...)
}
