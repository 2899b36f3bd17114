package mirror_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GintGld/showreel/internal/lib/logger/handlers/slogdiscard"
	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/service/mirror"
	"github.com/GintGld/showreel/internal/service/realtime"
)

const waitFor = 2 * time.Second

// fakeList counts list calls and returns
// whatever is currently set.
type fakeList struct {
	calls atomic.Int32

	mu    sync.Mutex
	items []string
	err   error
}

func (f *fakeList) set(items []string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items, f.err = items, err
}

func (f *fakeList) list(_ context.Context) ([]string, error) {
	f.calls.Add(1)

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items, f.err
}

func start(t *testing.T, hub *realtime.Hub, f *fakeList) (*mirror.Mirror[string], chan []string, func()) {
	t.Helper()

	m := mirror.New(slogdiscard.NewDiscardLogger(), hub, models.CollectionVideos, f.list, time.Second)

	changes := make(chan []string, 16)
	m.OnChange(func(items []string) { changes <- items })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, m.Run(ctx))
	}()

	select {
	case <-m.Ready():
	case <-time.After(waitFor):
		t.Fatal("mirror is not ready")
	}

	stop := func() {
		cancel()
		<-done
	}
	t.Cleanup(stop)

	return m, changes, stop
}

func TestInitialLoad(t *testing.T) {
	hub := realtime.New(slogdiscard.NewDiscardLogger())
	defer hub.Close()

	f := &fakeList{}
	f.set([]string{"a", "b"}, nil)

	m, _, _ := start(t, hub, f)

	assert.Equal(t, []string{"a", "b"}, m.Snapshot())
	assert.EqualValues(t, 1, f.calls.Load())

	_, ok := m.LastNotice()
	assert.False(t, ok)
}

func TestRefetchOnEveryKind(t *testing.T) {
	hub := realtime.New(slogdiscard.NewDiscardLogger())
	defer hub.Close()

	f := &fakeList{}
	m, changes, _ := start(t, hub, f)
	<-changes

	for i, kind := range []realtime.Kind{realtime.Insert, realtime.Update, realtime.Delete} {
		items := []string{string(kind)}
		f.set(items, nil)

		hub.Publish(realtime.Change{Collection: models.CollectionVideos, Kind: kind})

		select {
		case got := <-changes:
			assert.Equal(t, items, got)
		case <-time.After(waitFor):
			t.Fatalf("no refetch after %s", kind)
		}

		// exactly one extra list call per notification
		assert.EqualValues(t, i+2, f.calls.Load())
		assert.Equal(t, items, m.Snapshot())
	}
}

func TestOtherCollectionIgnored(t *testing.T) {
	hub := realtime.New(slogdiscard.NewDiscardLogger())
	defer hub.Close()

	f := &fakeList{}
	_, changes, _ := start(t, hub, f)
	<-changes

	hub.Publish(realtime.Change{Collection: models.CollectionEquipment, Kind: realtime.Insert})

	select {
	case <-changes:
		t.Fatal("unexpected refetch")
	case <-time.After(50 * time.Millisecond):
	}
	assert.EqualValues(t, 1, f.calls.Load())
}

func TestInitialLoadFailure(t *testing.T) {
	hub := realtime.New(slogdiscard.NewDiscardLogger())
	defer hub.Close()

	f := &fakeList{}
	f.set(nil, errors.New("backend is down"))

	m, _, _ := start(t, hub, f)

	assert.NotNil(t, m.Snapshot())
	assert.Empty(t, m.Snapshot())

	notice, ok := m.LastNotice()
	require.True(t, ok)
	assert.Equal(t, "Error loading videos", notice.Title)
	assert.True(t, notice.Destructive)

	// no retry on its own
	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 1, f.calls.Load())
}

func TestRefetchFailureKeepsLastGood(t *testing.T) {
	hub := realtime.New(slogdiscard.NewDiscardLogger())
	defer hub.Close()

	f := &fakeList{}
	f.set([]string{"a"}, nil)

	m := mirror.New(slogdiscard.NewDiscardLogger(), hub, models.CollectionVideos, f.list, time.Second)
	notices := make(chan models.Notice, 1)
	m.OnNotice(func(n models.Notice) { notices <- n })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)
	<-m.Ready()

	f.set(nil, errors.New("timeout"))
	hub.Publish(realtime.Change{Collection: models.CollectionVideos, Kind: realtime.Update})

	select {
	case <-notices:
	case <-time.After(waitFor):
		t.Fatal("no notice")
	}
	assert.Equal(t, []string{"a"}, m.Snapshot())
}

func TestTeardownReleasesSubscription(t *testing.T) {
	hub := realtime.New(slogdiscard.NewDiscardLogger())
	defer hub.Close()

	f := &fakeList{}
	_, _, stop := start(t, hub, f)
	assert.Equal(t, 1, hub.Subscribers(models.CollectionVideos))

	stop()
	assert.Equal(t, 0, hub.Subscribers(models.CollectionVideos))
}
