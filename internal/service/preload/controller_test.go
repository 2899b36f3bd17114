package preload_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GintGld/showreel/internal/lib/logger/handlers/slogdiscard"
	"github.com/GintGld/showreel/internal/lib/mediasrc"
	"github.com/GintGld/showreel/internal/service/preload"
)

type fakeLoader struct {
	mu           sync.Mutex
	placeholders []string
	primaries    []string
	unreachable  map[string]bool
	gate         chan struct{}
}

func (f *fakeLoader) Placeholder(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.placeholders = append(f.placeholders, url)
	return nil
}

func (f *fakeLoader) Primary(_ context.Context, src mediasrc.Direct, _ mediasrc.Quality) (preload.Probe, error) {
	f.mu.Lock()
	f.primaries = append(f.primaries, src.URL)
	gate, fail := f.gate, f.unreachable[src.URL]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if fail {
		return preload.Probe{}, errors.New("connection refused")
	}
	return preload.Probe{MIME: "video/mp4"}, nil
}

func (f *fakeLoader) primaryCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.primaries)
}

func directItems(ids ...string) []preload.Item {
	items := make([]preload.Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, preload.Item{
			ID:          id,
			Placeholder: "https://cdn.example.com/" + id + ".jpg",
			Primary:     mediasrc.Direct{URL: "https://cdn.example.com/" + id + ".mp4"},
		})
	}
	return items
}

func triggered(s preload.Snapshot) []int {
	out := make([]int, 0)
	for i, item := range s.Items {
		if item.Triggered {
			out = append(out, i)
		}
	}
	return out
}

func newController(loader preload.Loader, mode preload.Mode) *preload.Controller {
	return preload.New(slogdiscard.NewDiscardLogger(), loader, mediasrc.Medium, mode)
}

func TestReadAhead(t *testing.T) {
	loader := &fakeLoader{}
	c := newController(loader, preload.Sequence)

	c.Reset(directItems("a", "b", "c"))
	c.Wait()

	s := c.State()
	assert.Equal(t, []int{0, 1}, triggered(s))
	assert.True(t, s.Items[0].Loaded)
	assert.True(t, s.Items[0].Playing)
	assert.True(t, s.Items[1].Loaded)
	assert.False(t, s.Items[1].Playing)
	assert.False(t, s.Items[2].Loaded)

	c.Advance()
	s = c.State()
	assert.Equal(t, 1, s.Current)
	assert.False(t, s.Items[1].Playing)
	// exactly one new load: the item after the new current one
	assert.Equal(t, []int{0, 1, 2}, triggered(s))

	c.Wait()
	assert.Equal(t, 3, loader.primaryCalls())
	assert.True(t, c.State().Items[2].Loaded)
	assert.False(t, c.State().Items[2].Playing)

	c.Mounted(1)
	assert.True(t, c.State().Items[1].Playing)

	// wrapped read-ahead hits already triggered item 0
	c.Advance()
	c.Wait()
	assert.Equal(t, 3, loader.primaryCalls())
}

func TestWraparound(t *testing.T) {
	c := newController(&fakeLoader{}, preload.Sequence)

	const n = 4
	c.Reset(directItems("a", "b", "c", "d"))
	start := c.Current()

	for i := 0; i < n; i++ {
		c.Advance()
	}
	c.Wait()

	assert.Equal(t, start, c.Current())
}

func TestEmptySequence(t *testing.T) {
	c := newController(&fakeLoader{}, preload.Sequence)
	c.Reset(nil)

	c.Advance()
	c.BeginLoad(3)
	c.Mounted(0)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	c.Run(ctx, preload.TimerTrigger{Interval: time.Millisecond})

	s := c.State()
	assert.Equal(t, 0, s.Current)
	assert.Empty(t, s.Items)
}

func TestSingleItemNotAdvanced(t *testing.T) {
	c := newController(&fakeLoader{}, preload.Sequence)
	c.Reset(directItems("a"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	c.Run(ctx, preload.TimerTrigger{Interval: time.Millisecond})

	c.Wait()
	s := c.State()
	assert.Equal(t, 0, s.Current)
	assert.True(t, s.Items[0].Playing)
}

func TestTimerAdvances(t *testing.T) {
	c := newController(&fakeLoader{}, preload.Sequence)
	c.Reset(directItems("a", "b"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx, preload.TimerTrigger{Interval: 5 * time.Millisecond})

	assert.Eventually(t, func() bool {
		return c.Current() == 1
	}, time.Second, time.Millisecond)
}

func TestUnreachablePrimary(t *testing.T) {
	loader := &fakeLoader{unreachable: map[string]bool{"https://cdn.example.com/a.mp4": true}}
	c := newController(loader, preload.Sequence)

	c.Reset(directItems("a", "b"))
	c.Wait()

	s := c.State()
	assert.False(t, s.Items[0].Loaded)
	assert.False(t, s.Items[0].Playing)
	assert.True(t, s.Items[1].Loaded)

	// no retry
	c.BeginLoad(0)
	c.Mounted(0)
	c.Wait()
	assert.Equal(t, 2, loader.primaryCalls())
	assert.False(t, c.State().Items[0].Playing)
}

func TestEmbeddedLoadedOnMount(t *testing.T) {
	loader := &fakeLoader{}
	c := newController(loader, preload.Sequence)

	src, err := mediasrc.Parse("https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	require.NoError(t, err)

	c.Reset([]preload.Item{{ID: "yt", Placeholder: "https://cdn.example.com/yt.jpg", Primary: src}})
	c.Wait()

	s := c.State()
	assert.False(t, s.Items[0].Loaded)
	assert.Zero(t, loader.primaryCalls())

	c.Mounted(0)
	s = c.State()
	assert.True(t, s.Items[0].Loaded)
	assert.True(t, s.Items[0].Playing)
}

func TestPlaceholderOnlyItems(t *testing.T) {
	c := newController(&fakeLoader{}, preload.Sequence)

	c.Reset([]preload.Item{
		{ID: "1", Placeholder: "https://cdn.example.com/1.jpg"},
		{ID: "2", Placeholder: "https://cdn.example.com/2.jpg"},
	})
	c.Wait()

	s := c.State()
	assert.True(t, s.Items[0].Loaded)
	assert.True(t, s.Items[1].Loaded)
	assert.Empty(t, s.Items[0].Source)
}

func TestAutoPlayOnAdvance(t *testing.T) {
	items := []preload.Item{
		{ID: "1", Placeholder: "https://cdn.example.com/1.jpg"},
		{ID: "2", Placeholder: "https://cdn.example.com/2.jpg"},
		{ID: "3", Placeholder: "https://cdn.example.com/3.jpg"},
	}

	c := newController(&fakeLoader{}, preload.Sequence).WithAutoPlay()
	c.Reset(items)
	c.Wait()
	require.True(t, c.State().Items[0].Playing)

	for step := 1; step <= 4; step++ {
		c.Advance()
		c.Wait()

		s := c.State()
		cur := step % len(items)
		require.Equal(t, cur, s.Current)
		assert.Truef(t, s.Items[cur].Loaded, "step %d", step)
		assert.Truef(t, s.Items[cur].Playing, "step %d", step)
	}
}

func TestAutoPlayWaitsForLoad(t *testing.T) {
	loader := &fakeLoader{unreachable: map[string]bool{"https://cdn.example.com/b.mp4": true}}
	c := newController(loader, preload.Sequence).WithAutoPlay()

	c.Reset(directItems("a", "b", "c"))
	c.Wait()

	c.Advance()
	c.Wait()

	s := c.State()
	assert.Equal(t, 1, s.Current)
	assert.False(t, s.Items[1].Loaded)
	assert.False(t, s.Items[1].Playing)
}

func TestProbeDescribesSource(t *testing.T) {
	c := newController(&fakeLoader{}, preload.Sequence)

	c.Reset(directItems("a", "b"))
	c.Wait()

	s := c.State()
	assert.Equal(t, "https://cdn.example.com/a.mp4", s.Items[0].Source)
	require.NotNil(t, s.Items[0].Probe)
	assert.Equal(t, mediasrc.Medium, s.Items[0].Probe.Quality)
	assert.Equal(t, "video/mp4", s.Items[0].Probe.MIME)
}

func TestStaleCycleDropped(t *testing.T) {
	gate := make(chan struct{})
	loader := &fakeLoader{gate: gate}
	c := newController(loader, preload.Independent)

	c.Reset(directItems("a"))
	c.BeginLoad(0)

	c.Reset(directItems("x"))
	close(gate)
	c.Wait()

	s := c.State()
	assert.EqualValues(t, 2, s.Cycle)
	assert.Equal(t, "x", s.Items[0].ID)
	assert.False(t, s.Items[0].Loaded)
	assert.False(t, s.Items[0].Triggered)
}

func TestIndependentMode(t *testing.T) {
	loader := &fakeLoader{}
	c := newController(loader, preload.Independent)

	c.Reset(directItems("a", "b", "c"))
	c.Wait()
	assert.Empty(t, triggered(c.State()))
	assert.Zero(t, loader.primaryCalls())

	c.BeginLoad(2)
	c.Wait()
	assert.Equal(t, []int{2}, triggered(c.State()))
	assert.True(t, c.State().Items[2].Loaded)
	assert.False(t, c.State().Items[2].Playing)
}
