package preload

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Trigger decides when the controller moves on.
type Trigger interface {
	Run(ctx context.Context, c *Controller)
}

// TimerTrigger advances the controller every Interval.
// The timer is armed only while there is more than one item.
type TimerTrigger struct {
	Interval time.Duration
}

func (t TimerTrigger) Run(ctx context.Context, c *Controller) {
	for {
		if c.Len() < 2 {
			select {
			case <-ctx.Done():
				return
			case <-c.resets:
				continue
			}
		}

		timer := time.NewTimer(t.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-c.resets:
			// new cycle starts from the first item
			timer.Stop()
		case <-timer.C:
			c.Advance()
		}
	}
}

// Viewport is the visible part of a grid as reported by
// a client. Coordinates are logical pixels from the top.
type Viewport struct {
	ScrollTop int          `json:"scrollTop"`
	Height    int          `json:"height"`
	Items     []ItemBounds `json:"items"`
}

type ItemBounds struct {
	ID     string `json:"id"`
	Top    int    `json:"top"`
	Bottom int    `json:"bottom"`
}

// Visible returns ids of items intersecting the
// viewport extended by margin on both sides.
func (v Viewport) Visible(margin int) []string {
	from, to := v.ScrollTop-margin, v.ScrollTop+v.Height+margin

	ids := make([]string, 0)
	for _, item := range v.Items {
		if item.Bottom >= from && item.Top <= to {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// ViewportTrigger loads every item once it enters
// the reported viewport extended by Margin.
// Reports coalesce: only the latest one is handled.
type ViewportTrigger struct {
	Margin int

	mu     sync.Mutex
	latest *Viewport
	signal chan struct{}
}

func NewViewportTrigger(margin int) *ViewportTrigger {
	return &ViewportTrigger{
		Margin: margin,
		signal: make(chan struct{}, 1),
	}
}

// Report hands over new viewport geometry, never blocks.
func (t *ViewportTrigger) Report(v Viewport) {
	t.mu.Lock()
	t.latest = &v
	t.mu.Unlock()

	select {
	case t.signal <- struct{}{}:
	default:
	}
}

func (t *ViewportTrigger) Run(ctx context.Context, c *Controller) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.resets:
			// items may have been laid out anew,
			// wait for the next report
		case <-t.signal:
			t.mu.Lock()
			v := t.latest
			t.latest = nil
			t.mu.Unlock()

			if v != nil {
				t.apply(c, *v)
			}
		}
	}
}

func (t *ViewportTrigger) apply(c *Controller, v Viewport) {
	visible := v.Visible(t.Margin)
	for _, id := range visible {
		if i, ok := c.Index(id); ok {
			c.BeginLoad(i)
		}
	}

	c.log.Debug("viewport applied",
		slog.Int("scroll_top", v.ScrollTop),
		slog.Int("visible", len(visible)),
	)
}
