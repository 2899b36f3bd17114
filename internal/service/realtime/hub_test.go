package realtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GintGld/showreel/internal/lib/logger/handlers/slogdiscard"
	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/service"
	"github.com/GintGld/showreel/internal/service/realtime"
)

func pending(sub *realtime.Subscription) int {
	n := 0
	for {
		select {
		case _, ok := <-sub.C():
			if !ok {
				return n
			}
			n++
		default:
			return n
		}
	}
}

func TestPublishCoalesces(t *testing.T) {
	hub := realtime.New(slogdiscard.NewDiscardLogger())
	defer hub.Close()

	sub, err := hub.Subscribe(models.CollectionVideos)
	require.NoError(t, err)
	defer sub.Close()

	for _, kind := range []realtime.Kind{realtime.Insert, realtime.Update, realtime.Delete} {
		hub.Publish(realtime.Change{Collection: models.CollectionVideos, Kind: kind})
	}
	assert.Equal(t, 1, pending(sub))

	hub.Publish(realtime.Change{Collection: models.CollectionVideos, Kind: realtime.Update})
	assert.Equal(t, 1, pending(sub))
}

func TestPublishOtherCollection(t *testing.T) {
	hub := realtime.New(slogdiscard.NewDiscardLogger())
	defer hub.Close()

	videos, err := hub.Subscribe(models.CollectionVideos)
	require.NoError(t, err)
	equipment, err := hub.Subscribe(models.CollectionEquipment)
	require.NoError(t, err)

	hub.Publish(realtime.Change{Collection: models.CollectionEquipment, Kind: realtime.Insert})

	assert.Equal(t, 0, pending(videos))
	assert.Equal(t, 1, pending(equipment))
}

func TestSubscribersAreIndependent(t *testing.T) {
	hub := realtime.New(slogdiscard.NewDiscardLogger())
	defer hub.Close()

	a, err := hub.Subscribe(models.CollectionHeroImages)
	require.NoError(t, err)
	b, err := hub.Subscribe(models.CollectionHeroImages)
	require.NoError(t, err)
	assert.Equal(t, 2, hub.Subscribers(models.CollectionHeroImages))

	hub.Publish(realtime.Change{Collection: models.CollectionHeroImages, Kind: realtime.Delete})

	assert.Equal(t, 1, pending(a))
	assert.Equal(t, 1, pending(b))
}

func TestSubscribeUnknown(t *testing.T) {
	hub := realtime.New(slogdiscard.NewDiscardLogger())
	defer hub.Close()

	_, err := hub.Subscribe(models.Collection("users"))
	assert.ErrorIs(t, err, service.ErrUnknownCollection)
}

func TestSubscriptionClose(t *testing.T) {
	hub := realtime.New(slogdiscard.NewDiscardLogger())
	defer hub.Close()

	sub, err := hub.Subscribe(models.CollectionSocialLinks)
	require.NoError(t, err)
	assert.Equal(t, 1, hub.Subscribers(models.CollectionSocialLinks))

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, hub.Subscribers(models.CollectionSocialLinks))

	_, ok := <-sub.C()
	assert.False(t, ok)

	// no panic on a released channel
	hub.Publish(realtime.Change{Collection: models.CollectionSocialLinks, Kind: realtime.Insert})
}

func TestHubClose(t *testing.T) {
	hub := realtime.New(slogdiscard.NewDiscardLogger())

	sub, err := hub.Subscribe(models.CollectionVideos)
	require.NoError(t, err)

	hub.Close()
	hub.Close()

	_, ok := <-sub.C()
	assert.False(t, ok)
	sub.Close()

	_, err = hub.Subscribe(models.CollectionVideos)
	assert.ErrorIs(t, err, realtime.ErrHubClosed)

	hub.Publish(realtime.Change{Collection: models.CollectionVideos, Kind: realtime.Insert})
}
