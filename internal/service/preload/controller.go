// Package preload decides which media assets are fetched ahead of
// time, tracks per-item load completion and arms playback.
//
// A Controller holds one view cycle over an ordered list of items.
// In sequence mode (slideshow) it keeps a current pointer and reads
// exactly one item ahead. In independent mode (grid) items load only
// when a trigger asks for them. Loads are never cancelled: a result
// that arrives after Reset belongs to a stale cycle and is dropped.
package preload

import (
	"context"
	"log/slog"
	"sync"

	"github.com/GintGld/showreel/internal/lib/logger/sl"
	"github.com/GintGld/showreel/internal/lib/mediasrc"
)

// Item is one media record as seen by the controller.
// Primary is nil for placeholder-only items (hero images).
type Item struct {
	ID          string
	Placeholder string
	Primary     mediasrc.Source
}

type Mode int

const (
	// Sequence keeps a current item and reads one ahead.
	Sequence Mode = iota
	// Independent loads items only on trigger request.
	Independent
)

// Probe describes a primary asset after its hidden load.
type Probe struct {
	// Quality is the hint the asset was probed for.
	Quality        mediasrc.Quality `json:"quality,omitempty"`
	MIME           string           `json:"mime,omitempty"`
	Representation string           `json:"representation,omitempty"`
	Height         int              `json:"height,omitempty"`
}

type Loader interface {
	// Placeholder fetches the lightweight asset.
	Placeholder(ctx context.Context, url string) error
	// Primary performs hidden load of a directly playable asset.
	Primary(ctx context.Context, src mediasrc.Direct, q mediasrc.Quality) (Probe, error)
}

type ItemState struct {
	ID string `json:"id"`
	// Source is the primary asset the state describes.
	Source    string `json:"source,omitempty"`
	Loaded    bool   `json:"loaded"`
	Playing   bool   `json:"playing"`
	Triggered bool   `json:"triggered"`
	Probe     *Probe `json:"probe,omitempty"`
}

type Snapshot struct {
	Cycle   uint64      `json:"cycle"`
	Current int         `json:"current"`
	Items   []ItemState `json:"items"`
}

type Controller struct {
	log     *slog.Logger
	loader  Loader
	quality mediasrc.Quality
	mode    Mode
	// autoPlay arms playback on Advance for shows
	// without a surface reporting mounts.
	autoPlay bool

	mu      sync.Mutex
	items   []Item
	states  []ItemState
	current int
	cycle   uint64

	// resets gets a token on every Reset,
	// triggers use it to re-arm.
	resets chan struct{}
	loads  sync.WaitGroup
}

func New(
	log *slog.Logger,
	loader Loader,
	quality mediasrc.Quality,
	mode Mode,
) *Controller {
	return &Controller{
		log:     log,
		loader:  loader,
		quality: quality,
		mode:    mode,
		resets:  make(chan struct{}, 1),
	}
}

// WithAutoPlay makes a loaded item start playing as soon
// as it becomes current, without waiting for Mounted.
func (c *Controller) WithAutoPlay() *Controller {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.autoPlay = true
	return c
}

// Reset starts a new view cycle over items.
// Every item is not loaded and not playing.
// In sequence mode items 0 and 1 start loading.
func (c *Controller) Reset(items []Item) {
	const op = "Controller.Reset"

	c.mu.Lock()
	c.cycle++
	c.items = items
	c.states = make([]ItemState, len(items))
	for i, item := range items {
		c.states[i].ID = item.ID
		if item.Primary != nil {
			c.states[i].Source = item.Primary.Ref()
		}
	}
	c.current = 0
	cycle := c.cycle

	if c.mode == Sequence {
		c.beginLoadLocked(0)
		c.beginLoadLocked(1)
	}
	c.mu.Unlock()

	select {
	case c.resets <- struct{}{}:
	default:
	}

	c.log.Debug("view cycle reset",
		slog.String("op", op),
		slog.Uint64("cycle", cycle),
		slog.Int("items", len(items)),
	)
}

// Len returns number of items in the current cycle.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// Index returns position of the item with id.
func (c *Controller) Index(id string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.items {
		if item.ID == id {
			return i, true
		}
	}
	return 0, false
}

// BeginLoad starts loading item i (modulo length).
// Calling it again in the same cycle is a no-op.
func (c *Controller) BeginLoad(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginLoadLocked(i)
}

func (c *Controller) beginLoadLocked(i int) {
	const op = "Controller.BeginLoad"

	n := len(c.items)
	if n == 0 {
		return
	}
	i = ((i % n) + n) % n

	if c.states[i].Triggered {
		return
	}
	c.states[i].Triggered = true

	item, cycle := c.items[i], c.cycle

	log := c.log.With(
		slog.String("op", op),
		slog.String("id", item.ID),
		slog.Uint64("cycle", cycle),
	)

	c.loads.Add(1)
	go func() {
		defer c.loads.Done()

		ctx := context.Background()

		placeholderErr := c.loader.Placeholder(ctx, item.Placeholder)
		if placeholderErr != nil {
			log.Warn("failed to load placeholder", sl.Err(placeholderErr))
		}

		switch src := item.Primary.(type) {
		case mediasrc.Direct:
			probe, err := c.loader.Primary(ctx, src, c.quality)
			if err != nil {
				// stays not loaded, the placeholder is shown
				log.Warn("primary asset unreachable", sl.Err(err))
				return
			}
			probe.Quality = c.quality
			c.complete(cycle, i, &probe)
		case mediasrc.Embedded:
			// loaded once mounted
		case nil:
			if placeholderErr == nil {
				c.complete(cycle, i, nil)
			}
		}
	}()
}

// complete marks item loaded unless the cycle is over.
func (c *Controller) complete(cycle uint64, i int, probe *Probe) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cycle != c.cycle || c.states[i].Loaded {
		return
	}

	c.states[i].Loaded = true
	c.states[i].Probe = probe
	if c.mode == Sequence && i == c.current {
		c.states[i].Playing = true
	}

	c.log.Debug("item loaded",
		slog.String("id", c.states[i].ID),
		slog.Bool("playing", c.states[i].Playing),
	)
}

// Advance moves current pointer to the next item (wrapping),
// stops the new current item and reads one item ahead.
// With auto play a loaded new current item plays at once.
func (c *Controller) Advance() {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.items)
	if n == 0 {
		return
	}

	c.current = (c.current + 1) % n
	st := &c.states[c.current]
	st.Playing = c.autoPlay && st.Loaded
	c.beginLoadLocked(c.current + 1)
}

// Mounted reports that the element of item i is on screen.
// Embedded players count as loaded at once,
// loaded direct assets start playing.
func (c *Controller) Mounted(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.items) {
		return
	}

	st := &c.states[i]
	if _, ok := c.items[i].Primary.(mediasrc.Embedded); ok {
		st.Triggered = true
		st.Loaded = true
		st.Playing = true
		return
	}
	if st.Loaded {
		st.Playing = true
	}
}

// Current returns index of the current item.
func (c *Controller) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.current
}

func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]ItemState, len(c.states))
	copy(items, c.states)

	return Snapshot{
		Cycle:   c.cycle,
		Current: c.current,
		Items:   items,
	}
}

// Items returns items of the current cycle.
func (c *Controller) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Item, len(c.items))
	copy(out, c.items)

	return out
}

// Run drives the controller with trigger until ctx is done.
func (c *Controller) Run(ctx context.Context, trigger Trigger) {
	trigger.Run(ctx, c)
}

// Wait blocks until in-flight loads finish.
func (c *Controller) Wait() {
	c.loads.Wait()
}
