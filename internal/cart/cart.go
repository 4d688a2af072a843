// Package cart is the in-memory cart quantity ledger. Mutations are
// synchronous and total; persistence to the document store and the local
// cache is a side effect of each mutation, never a precondition.
package cart

import (
	"context"
	"errors"
	"sync"

	ierr "booknest/internal/errors"
	"booknest/internal/model"
	cartRepository "booknest/internal/repository/cart"

	"github.com/rs/zerolog/log"
)

// LocalStore is the per-device fallback cache (browser local storage analog).
type LocalStore interface {
	Put(key string, value any) error
	Get(key string, dest any) error
	Delete(key string) error
}

const cacheKeyPrefix = "cart:"

type Ledger struct {
	mu       sync.Mutex
	ownerUid string
	items    []model.CartItem
	// epoch increases with every mutation; persisted carts carry it so loads
	// resolve last-writer-wins and a stale read never clobbers newer state.
	epoch int64

	repo  cartRepository.IRepository
	cache LocalStore

	// saveMu serializes writes to the document store; savedEpoch is the
	// highest epoch durably written, so a late save can never regress it.
	saveMu     sync.Mutex
	savedEpoch int64
}

// NewLedger builds a ledger. repo and cache may be nil for a memory-only
// ledger.
func NewLedger(repo cartRepository.IRepository, cache LocalStore) *Ledger {
	return &Ledger{
		repo:  repo,
		cache: cache,
	}
}

// SetOwner binds the ledger to a user identity and loads their persisted
// cart. Any previous owner's in-memory state is dropped first.
func (l *Ledger) SetOwner(ctx context.Context, uid string) error {
	l.mu.Lock()
	l.ownerUid = uid
	l.items = nil
	l.epoch = 0
	l.mu.Unlock()

	l.saveMu.Lock()
	l.savedEpoch = 0
	l.saveMu.Unlock()

	return l.Load(ctx)
}

// Add increments the quantity of an existing entry or appends a new one with
// quantity 1.
func (l *Ledger) Add(ctx context.Context, item model.CartItem) {
	l.mu.Lock()

	found := false
	for i := range l.items {
		if l.items[i].Id == item.Id {
			l.items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		item.Quantity = 1
		l.items = append(l.items, item)
	}

	doc := l.bumpLocked()
	l.mu.Unlock()

	l.persist(ctx, doc)
}

// Remove decrements the matching entry's quantity, deleting it entirely when
// the quantity would drop to 0. Unknown ids are a no-op.
func (l *Ledger) Remove(ctx context.Context, id string) {
	l.mu.Lock()

	for i := range l.items {
		if l.items[i].Id != id {
			continue
		}
		if l.items[i].Quantity > 1 {
			l.items[i].Quantity--
		} else {
			l.items = append(l.items[:i], l.items[i+1:]...)
		}
		break
	}

	doc := l.bumpLocked()
	l.mu.Unlock()

	l.persist(ctx, doc)
}

// Clear empties the ledger.
func (l *Ledger) Clear(ctx context.Context) {
	l.mu.Lock()
	l.items = nil
	doc := l.bumpLocked()
	l.mu.Unlock()

	l.persist(ctx, doc)
}

// Detach drops the in-memory state and the local cache entry without
// touching the document store. Called on logout.
func (l *Ledger) Detach() {
	l.mu.Lock()
	uid := l.ownerUid
	l.ownerUid = ""
	l.items = nil
	l.epoch = 0
	l.mu.Unlock()

	l.saveMu.Lock()
	l.savedEpoch = 0
	l.saveMu.Unlock()

	if l.cache != nil && uid != "" {
		if err := l.cache.Delete(cacheKeyPrefix + uid); err != nil {
			log.Error().Err(err).Msg("cart: failed to drop local cache entry")
		}
	}
}

// Total is the sum of price*quantity across all entries, in USD.
func (l *Ledger) Total() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := 0.0
	for _, item := range l.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Items returns a copy of the current entries.
func (l *Ledger) Items() []model.CartItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]model.CartItem, len(l.items))
	copy(items, l.items)
	return items
}

// Load pulls the persisted cart, preferring the document store and falling
// back to the local cache. A loaded cart applies only when its epoch is newer
// than the in-memory one.
func (l *Ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	uid := l.ownerUid
	l.mu.Unlock()

	if uid == "" {
		return nil
	}

	var doc *model.CartDoc
	var err error

	if l.repo != nil {
		doc, err = l.repo.Load(ctx, uid)
		if err != nil && !errors.Is(err, ierr.NotFound) {
			log.Error().Err(err).Msg("cart: failed to load cart from store")
		}
	}

	if doc == nil && l.cache != nil {
		cached := model.CartDoc{}
		if cerr := l.cache.Get(cacheKeyPrefix+uid, &cached); cerr == nil {
			doc = &cached
		}
	}

	if doc == nil {
		// A user with no persisted cart yet is the normal first-login case.
		if errors.Is(err, ierr.NotFound) {
			return nil
		}
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if doc.Epoch <= l.epoch && l.epoch != 0 {
		// Stale persisted state loses to newer in-memory mutations.
		return nil
	}
	l.items = doc.Items
	l.epoch = doc.Epoch
	return nil
}

// bumpLocked advances the epoch and snapshots the doc to persist. Caller
// holds the mutex.
func (l *Ledger) bumpLocked() model.CartDoc {
	l.epoch++
	items := make([]model.CartItem, len(l.items))
	copy(items, l.items)
	return model.CartDoc{Items: items, Epoch: l.epoch}
}

// persist mirrors a mutation to the document store and the local cache,
// best effort.
func (l *Ledger) persist(ctx context.Context, doc model.CartDoc) {
	l.mu.Lock()
	uid := l.ownerUid
	l.mu.Unlock()

	if uid == "" {
		return
	}

	if l.cache != nil {
		if err := l.cache.Put(cacheKeyPrefix+uid, doc); err != nil {
			log.Error().Err(err).Msg("cart: failed to cache cart locally")
		}
	}

	if l.repo != nil {
		go func() {
			// One writer at a time, newest epoch wins: without this, two
			// rapid mutations could commit out of order and the durable
			// copy would regress to the older epoch.
			l.saveMu.Lock()
			defer l.saveMu.Unlock()

			if doc.Epoch <= l.savedEpoch {
				return
			}
			if err := l.repo.Save(ctx, uid, doc); err != nil {
				log.Error().Err(err).Msg("cart: failed to save cart")
				return
			}
			l.savedEpoch = doc.Epoch
		}()
	}
}
