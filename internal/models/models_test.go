package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ptr "github.com/GintGld/showreel/internal/lib/utils/pointers"
	"github.com/GintGld/showreel/internal/models"
)

func TestGroupEquipment(t *testing.T) {
	items := []models.Equipment{
		{ID: "1", Name: "FX3", CategoryID: "cam", Category: "Cameras", CategoryOrder: 2, Order: 4},
		{ID: "2", Name: "Aputure 300d", CategoryID: "light", Category: "Lights", CategoryOrder: 1, Order: 2},
		{ID: "3", Name: "A7S III", CategoryID: "cam", Category: "Cameras", CategoryOrder: 2, Order: 1},
		{ID: "4", Name: "Nanlite", CategoryID: "light", Category: "Lights", CategoryOrder: 1, Order: 3},
	}

	groups := models.GroupEquipment(items)
	require.Len(t, groups, 2)

	assert.Equal(t, "Lights", groups[0].Category.Name)
	assert.Equal(t, "Cameras", groups[1].Category.Name)

	names := func(g models.EquipmentGroup) []string {
		out := make([]string, 0, len(g.Items))
		for _, item := range g.Items {
			out = append(out, item.Name)
		}
		return out
	}
	assert.Equal(t, []string{"Aputure 300d", "Nanlite"}, names(groups[0]))
	assert.Equal(t, []string{"A7S III", "FX3"}, names(groups[1]))
}

func TestGroupEquipmentEmpty(t *testing.T) {
	groups := models.GroupEquipment(nil)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestVideoAssets(t *testing.T) {
	v := models.Video{
		ThumbnailURL:       "https://cdn.example.com/thumb.jpg",
		VideoURL:           "https://cdn.example.com/video.mp4",
		MobileThumbnailURL: ptr.Pointer("https://cdn.example.com/thumb-m.jpg"),
		MobileVideoURL:     ptr.Pointer(""),
	}

	thumb, video := v.Assets(false)
	assert.Equal(t, v.ThumbnailURL, thumb)
	assert.Equal(t, v.VideoURL, video)

	thumb, video = v.Assets(true)
	assert.Equal(t, "https://cdn.example.com/thumb-m.jpg", thumb)
	assert.Equal(t, v.VideoURL, video)
}

func TestVideoPatchOmitted(t *testing.T) {
	var patch models.VideoPatch
	require.NoError(t, json.Unmarshal([]byte(`{"title":"New title","featured":false}`), &patch))

	require.NotNil(t, patch.Title)
	assert.Equal(t, "New title", *patch.Title)
	require.NotNil(t, patch.Featured)
	assert.False(t, *patch.Featured)
	assert.Nil(t, patch.Client)
	assert.Nil(t, patch.VideoURL)
}

func TestParseDirection(t *testing.T) {
	d, err := models.ParseDirection("up")
	require.NoError(t, err)
	assert.Equal(t, models.Up, d)

	d, err = models.ParseDirection("down")
	require.NoError(t, err)
	assert.Equal(t, models.Down, d)

	_, err = models.ParseDirection("left")
	assert.Error(t, err)
}
