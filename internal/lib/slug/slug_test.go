package slug

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GintGld/showreel/internal/models"
)

func TestMake(t *testing.T) {
	testCases := []struct {
		desc   string
		title  string
		expect string
	}{
		{desc: "punctuation", title: "Cinematic Wedding!", expect: "cinematic-wedding"},
		{desc: "space runs and edges", title: "  Multi   Space  ", expect: "multi-space"},
		{desc: "existing hyphens", title: "Behind-the-Scenes -- Part 2", expect: "behind-the-scenes-part-2"},
		{desc: "edge hyphens", title: "-Intro-", expect: "intro"},
		{desc: "underscore kept", title: "clip_01 final", expect: "clip_01-final"},
		{desc: "accents folded", title: "Café Crème", expect: "cafe-creme"},
		{desc: "dropped between spaces", title: "Sarah & John", expect: "sarah-john"},
		{desc: "tabs and newlines", title: "Night\tDrive\nTeaser", expect: "night-drive-teaser"},
		{desc: "nothing left", title: "!!!", expect: ""},
		{desc: "empty", title: "", expect: ""},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.expect, Make(tC.title))
		})
	}
}

func TestMakeIdempotent(t *testing.T) {
	titles := []string{
		"Cinematic Wedding!",
		"  Multi   Space  ",
		"a - b",
		"--x--",
		"Ünïcödé Tëst",
		"Brand Film: Spring/Summer '24",
	}
	for i := 0; i < 50; i++ {
		titles = append(titles, gofakeit.Sentence(5))
	}

	for _, title := range titles {
		once := Make(title)
		assert.Equal(t, once, Make(once), "title %q", title)
		assert.NotRegexp(t, `^-|-$|--`, once)
	}
}

func TestResolve(t *testing.T) {
	videos := []models.Video{
		{ID: "1", Title: "Cinematic Wedding"},
		{ID: "2", Title: "Brand Film"},
		{ID: "3", Title: "Night Drive"},
	}

	for _, v := range videos {
		got, ok := Resolve(Make(v.Title), videos)
		require.True(t, ok)
		assert.Equal(t, v, got)
	}

	_, ok := Resolve("no-such-slug", videos)
	assert.False(t, ok)

	_, ok = Resolve("brand-film", nil)
	assert.False(t, ok)
}

func TestResolveAmbiguousTakesFirst(t *testing.T) {
	videos := []models.Video{
		{ID: "1", Title: "Brand Film!"},
		{ID: "2", Title: "brand film"},
	}

	got, ok := Resolve("brand-film", videos)
	require.True(t, ok)
	assert.Equal(t, "1", got.ID)
}

func TestCollisions(t *testing.T) {
	videos := []models.Video{
		{ID: "1", Title: "Brand Film!"},
		{ID: "2", Title: "brand film"},
		{ID: "3", Title: "Night Drive"},
	}

	assert.Equal(t, map[string][]string{"brand-film": {"1", "2"}}, Collisions(videos))
	assert.Empty(t, Collisions(videos[2:]))
}

func TestTitleize(t *testing.T) {
	assert.Equal(t, "Cinematic Wedding", Titleize("cinematic-wedding"))
	assert.Equal(t, "", Titleize(""))
}
