package showcase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/GintGld/showreel/internal/lib/logger/sl"
	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/service/mirror"
	"github.com/GintGld/showreel/internal/service/preload"
)

// show binds a mirrored collection to a preload controller:
// every new snapshot starts a new view cycle.
type show[T any] struct {
	log     *slog.Logger
	mirror  *mirror.Mirror[T]
	ctrl    *preload.Controller
	trigger preload.Trigger
	pick    func([]T) []T
	item    func(T) preload.Item

	mu      sync.RWMutex
	records []T
}

func newShow[T any](
	log *slog.Logger,
	m *mirror.Mirror[T],
	ctrl *preload.Controller,
	trigger preload.Trigger,
	pick func([]T) []T,
	item func(T) preload.Item,
) *show[T] {
	s := &show[T]{
		log:     log,
		mirror:  m,
		ctrl:    ctrl,
		trigger: trigger,
		pick:    pick,
		item:    item,
	}
	m.OnChange(s.reset)

	return s
}

func (s *show[T]) reset(all []T) {
	records := all
	if s.pick != nil {
		records = s.pick(all)
	}

	items := make([]preload.Item, 0, len(records))
	for _, r := range records {
		items = append(items, s.item(r))
	}

	s.mu.Lock()
	s.records = records
	s.ctrl.Reset(items)
	s.mu.Unlock()
}

func (s *show[T]) run(ctx context.Context) {
	const op = "show.run"

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := s.mirror.Run(ctx); err != nil {
			s.log.Error("mirror stopped", slog.String("op", op), sl.Err(err))
		}
	}()
	go func() {
		defer wg.Done()
		s.ctrl.Run(ctx, s.trigger)
	}()
	wg.Wait()
}

// view returns records of the current cycle together
// with controller state. Both come from one cycle.
func (s *show[T]) view() ([]T, preload.Snapshot, *models.Notice) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]T, len(s.records))
	copy(records, s.records)

	var notice *models.Notice
	if n, ok := s.mirror.LastNotice(); ok {
		notice = &n
	}

	return records, s.ctrl.State(), notice
}
