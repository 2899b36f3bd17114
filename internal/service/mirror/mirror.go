// Package mirror keeps an in-memory copy of one collection
// in step with the store: every change notification is answered
// by a full refetch that replaces the local copy.
package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/GintGld/showreel/internal/lib/logger/sl"
	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/service/realtime"
)

type Lister[T any] func(ctx context.Context) ([]T, error)

type Subscriber interface {
	Subscribe(collection models.Collection) (*realtime.Subscription, error)
}

type Mirror[T any] struct {
	log        *slog.Logger
	hub        Subscriber
	collection models.Collection
	list       Lister[T]
	timeout    time.Duration

	mu       sync.RWMutex
	items    []T
	notice   *models.Notice
	onChange []func([]T)
	onNotice []func(models.Notice)

	ready     chan struct{}
	readyOnce sync.Once
}

// New returns mirror of the collection.
// Nothing is loaded until Run.
func New[T any](
	log *slog.Logger,
	hub Subscriber,
	collection models.Collection,
	list Lister[T],
	timeout time.Duration,
) *Mirror[T] {
	return &Mirror[T]{
		log:        log.With(slog.String("collection", string(collection))),
		hub:        hub,
		collection: collection,
		list:       list,
		timeout:    timeout,
		items:      make([]T, 0),
		ready:      make(chan struct{}),
	}
}

// OnChange registers fn called with every new snapshot.
// Must be called before Run.
func (m *Mirror[T]) OnChange(fn func([]T)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onChange = append(m.onChange, fn)
}

// OnNotice registers fn called on every failed load.
// Must be called before Run.
func (m *Mirror[T]) OnNotice(fn func(models.Notice)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onNotice = append(m.onNotice, fn)
}

// Run subscribes to the collection, loads it
// and refetches on every change until ctx is done.
// The subscription is released on return.
func (m *Mirror[T]) Run(ctx context.Context) error {
	const op = "Mirror.Run"

	log := m.log.With(slog.String("op", op))

	sub, err := m.hub.Subscribe(m.collection)
	if err != nil {
		m.readyOnce.Do(func() { close(m.ready) })
		log.Error("failed to subscribe", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}
	defer sub.Close()

	m.refetch(ctx)
	m.readyOnce.Do(func() { close(m.ready) })

	for {
		select {
		case <-ctx.Done():
			log.Debug("mirror stopped")
			return nil
		case _, ok := <-sub.C():
			if !ok {
				log.Debug("subscription released")
				return nil
			}
			m.refetch(ctx)
		}
	}
}

// Ready is closed once the initial load
// has finished, successfully or not.
func (m *Mirror[T]) Ready() <-chan struct{} {
	return m.ready
}

// Snapshot returns copy of the last loaded collection.
func (m *Mirror[T]) Snapshot() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]T, len(m.items))
	copy(out, m.items)

	return out
}

// LastNotice returns the notice of the last failed load, if any.
func (m *Mirror[T]) LastNotice() (models.Notice, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.notice == nil {
		return models.Notice{}, false
	}
	return *m.notice, true
}

// refetch replaces local copy with a fresh list.
// On failure the last loaded copy is kept.
func (m *Mirror[T]) refetch(ctx context.Context) {
	const op = "Mirror.refetch"

	log := m.log.With(slog.String("op", op))

	listCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	items, err := m.list(listCtx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}

		log.Warn("failed to load collection", sl.Err(err))

		notice := models.Notice{
			Title:       "Error loading " + strings.ReplaceAll(string(m.collection), "_", " "),
			Description: "Please try again later.",
			Destructive: true,
		}

		m.mu.Lock()
		m.notice = &notice
		hooks := m.onNotice
		m.mu.Unlock()

		for _, fn := range hooks {
			fn(notice)
		}
		return
	}

	if items == nil {
		items = make([]T, 0)
	}

	m.mu.Lock()
	m.items = items
	m.notice = nil
	hooks := m.onChange
	m.mu.Unlock()

	log.Debug("collection loaded", slog.Int("count", len(items)))

	for _, fn := range hooks {
		snapshot := make([]T, len(items))
		copy(snapshot, items)
		fn(snapshot)
	}
}
