// Package realtime fans change notifications out
// to collection subscribers.
//
// Notifications carry no payload: a subscriber learns only that
// something in the collection changed and is expected to refetch it.
// Publishing never blocks. A subscriber holds at most one pending
// token, further changes coalesce into it until it is drained.
package realtime

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/service"
)

type Kind string

const (
	Insert Kind = "insert"
	Update Kind = "update"
	Delete Kind = "delete"
)

type Change struct {
	Collection models.Collection
	Kind       Kind
}

var ErrHubClosed = errors.New("hub is closed")

type Hub struct {
	log *slog.Logger

	mu     sync.RWMutex
	subs   map[models.Collection]map[uint64]*Subscription
	nextID uint64
	closed bool
}

func New(log *slog.Logger) *Hub {
	return &Hub{
		log:  log,
		subs: make(map[models.Collection]map[uint64]*Subscription),
	}
}

// Subscription is one logical channel on a collection.
type Subscription struct {
	id         uint64
	collection models.Collection
	hub        *Hub
	ch         chan struct{}
}

// C yields a token per (coalesced) change.
// It is closed when the subscription is released.
func (s *Subscription) C() <-chan struct{} {
	return s.ch
}

func (s *Subscription) Collection() models.Collection {
	return s.collection
}

// Close releases the subscription. Safe to call twice.
func (s *Subscription) Close() {
	s.hub.unsubscribe(s)
}

func (h *Hub) Subscribe(collection models.Collection) (*Subscription, error) {
	const op = "Hub.Subscribe"

	if !collection.Valid() {
		return nil, fmt.Errorf("%s: %w", op, service.ErrUnknownCollection)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, fmt.Errorf("%s: %w", op, ErrHubClosed)
	}

	h.nextID++
	sub := &Subscription{
		id:         h.nextID,
		collection: collection,
		hub:        h,
		ch:         make(chan struct{}, 1),
	}

	if h.subs[collection] == nil {
		h.subs[collection] = make(map[uint64]*Subscription)
	}
	h.subs[collection][sub.id] = sub

	h.log.Debug("subscribed",
		slog.String("op", op),
		slog.String("collection", string(collection)),
		slog.Uint64("id", sub.id),
	)

	return sub, nil
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subs[sub.collection]
	if _, ok := subs[sub.id]; !ok {
		return
	}

	delete(subs, sub.id)
	close(sub.ch)

	h.log.Debug("unsubscribed",
		slog.String("op", "Hub.unsubscribe"),
		slog.String("collection", string(sub.collection)),
		slog.Uint64("id", sub.id),
	)
}

// Publish notifies every subscriber of the collection.
// A subscriber with a pending token is skipped.
func (h *Hub) Publish(change Change) {
	const op = "Hub.Publish"

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	delivered, coalesced := 0, 0
	for _, sub := range h.subs[change.Collection] {
		select {
		case sub.ch <- struct{}{}:
			delivered++
		default:
			coalesced++
		}
	}

	h.log.Debug("change published",
		slog.String("op", op),
		slog.String("collection", string(change.Collection)),
		slog.String("kind", string(change.Kind)),
		slog.Int("delivered", delivered),
		slog.Int("coalesced", coalesced),
	)
}

// Subscribers returns number of active
// subscriptions on the collection.
func (h *Hub) Subscribers(collection models.Collection) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs[collection])
}

// Close releases all subscriptions.
// Later publishes are dropped.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for _, subs := range h.subs {
		for id, sub := range subs {
			delete(subs, id)
			close(sub.ch)
		}
	}
}
