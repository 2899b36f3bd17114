package mediasrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		desc   string
		raw    string
		expect Source
	}{
		{
			desc:   "mp4 file",
			raw:    "https://cdn.example.com/reel/final.mp4",
			expect: Direct{URL: "https://cdn.example.com/reel/final.mp4"},
		},
		{
			desc:   "dash manifest",
			raw:    "https://cdn.example.com/reel/manifest.MPD",
			expect: Direct{URL: "https://cdn.example.com/reel/manifest.MPD", Manifest: true},
		},
		{
			desc:   "vimeo hosted file",
			raw:    "https://player.vimeo.com/external/459863027.hd.mp4?s=abc",
			expect: Direct{URL: "https://player.vimeo.com/external/459863027.hd.mp4?s=abc"},
		},
		{
			desc:   "vimeo page",
			raw:    "https://vimeo.com/76979871",
			expect: Embedded{Provider: Vimeo, EmbedID: "76979871", URL: "https://vimeo.com/76979871"},
		},
		{
			desc:   "vimeo player",
			raw:    "https://player.vimeo.com/video/76979871",
			expect: Embedded{Provider: Vimeo, EmbedID: "76979871", URL: "https://player.vimeo.com/video/76979871"},
		},
		{
			desc:   "youtube watch",
			raw:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			expect: Embedded{Provider: YouTube, EmbedID: "dQw4w9WgXcQ", URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		},
		{
			desc:   "youtube short link",
			raw:    "https://youtu.be/dQw4w9WgXcQ",
			expect: Embedded{Provider: YouTube, EmbedID: "dQw4w9WgXcQ", URL: "https://youtu.be/dQw4w9WgXcQ"},
		},
		{
			desc:   "youtube embed",
			raw:    "https://www.youtube.com/embed/dQw4w9WgXcQ",
			expect: Embedded{Provider: YouTube, EmbedID: "dQw4w9WgXcQ", URL: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		},
		{
			desc:   "youtube channel is not a video",
			raw:    "https://www.youtube.com/@someone",
			expect: Direct{URL: "https://www.youtube.com/@someone"},
		},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			src, err := Parse(tC.raw)
			require.NoError(t, err)
			assert.Equal(t, tC.expect, src)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse("   ")
	assert.ErrorIs(t, err, ErrEmptyURL)
}

func TestQualityForWidth(t *testing.T) {
	assert.Equal(t, Low, QualityForWidth(375))
	assert.Equal(t, Low, QualityForWidth(767))
	assert.Equal(t, Medium, QualityForWidth(768))
	assert.Equal(t, Medium, QualityForWidth(1920))
	assert.Equal(t, Medium, QualityForWidth(0))
}

func TestOptimize(t *testing.T) {
	direct := Direct{URL: "https://cdn.example.com/a.mp4"}
	assert.Equal(t, "https://cdn.example.com/a.mp4", Optimize(direct, Low))

	hosted := Direct{URL: "https://player.vimeo.com/external/1.hd.mp4#t=10"}
	assert.Equal(t, "https://player.vimeo.com/external/1.hd.mp4#quality=360p", Optimize(hosted, Low))

	embed := Embedded{Provider: Vimeo, EmbedID: "42", URL: "https://vimeo.com/42"}
	assert.Equal(t, "https://player.vimeo.com/video/42#quality=720p", Optimize(embed, Medium))

	yt := Embedded{Provider: YouTube, EmbedID: "dQw4w9WgXcQ", URL: "https://youtu.be/dQw4w9WgXcQ"}
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", Optimize(yt, High))
}
