package preload_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GintGld/showreel/internal/lib/logger/handlers/slogdiscard"
	"github.com/GintGld/showreel/internal/lib/mediasrc"
	"github.com/GintGld/showreel/internal/service/preload"
)

const manifest = `<?xml version="1.0" encoding="UTF-8"?>
<MPD xmlns="urn:mpeg:dash:schema:mpd:2011" profiles="urn:mpeg:dash:profile:isoff-on-demand:2011" type="static" mediaPresentationDuration="PT10S" minBufferTime="PT2S">
  <Period>
    <AdaptationSet mimeType="video/mp4">
      <Representation id="v360" bandwidth="800000" width="640" height="360" codecs="avc1.4d401e"></Representation>
      <Representation id="v720" bandwidth="2500000" width="1280" height="720" codecs="avc1.4d401f"></Representation>
      <Representation id="v1080" bandwidth="5000000" width="1920" height="1080" codecs="avc1.640028"></Representation>
    </AdaptationSet>
    <AdaptationSet mimeType="audio/mp4">
      <Representation id="a128" bandwidth="128000" codecs="mp4a.40.2"></Representation>
    </AdaptationSet>
  </Period>
</MPD>`

// mp4Header is the beginning of an ISO BMFF file.
func mp4Header() []byte {
	b := []byte{
		0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
		'm', 'p', '4', '2', 0x00, 0x00, 0x00, 0x00,
		'm', 'p', '4', '2', 'i', 's', 'o', 'm',
	}
	return append(b, make([]byte, 1000)...)
}

func newAssetServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/video.mp4", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body := mp4Header()
		if r.Header.Get("Range") != "" {
			body = body[:64]
			w.Header().Set("Content-Range", "bytes 0-63/"+strconv.Itoa(len(mp4Header())))
			w.WriteHeader(http.StatusPartialContent)
		}
		w.Write(body)
	})
	mux.HandleFunc("/poster.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0})
	})
	mux.HandleFunc("/notes.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("just some text, not a video at all"))
	})
	mux.HandleFunc("/stream.mpd", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(manifest))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func newLoader() *preload.HTTPLoader {
	return preload.NewHTTPLoader(slogdiscard.NewDiscardLogger(), time.Second, 64, time.Minute)
}

func TestHTTPLoaderFile(t *testing.T) {
	var hits atomic.Int32
	srv := newAssetServer(t, &hits)
	l := newLoader()
	ctx := context.Background()

	probe, err := l.Primary(ctx, mediasrc.Direct{URL: srv.URL + "/video.mp4"}, mediasrc.Medium)
	require.NoError(t, err)
	assert.Equal(t, "video/mp4", probe.MIME)

	// cached
	_, err = l.Primary(ctx, mediasrc.Direct{URL: srv.URL + "/video.mp4"}, mediasrc.Medium)
	require.NoError(t, err)
	assert.EqualValues(t, 1, hits.Load())

	_, err = l.Primary(ctx, mediasrc.Direct{URL: srv.URL + "/notes.txt"}, mediasrc.Medium)
	assert.ErrorIs(t, err, preload.ErrNotVideo)

	_, err = l.Primary(ctx, mediasrc.Direct{URL: srv.URL + "/missing.mp4"}, mediasrc.Medium)
	assert.ErrorIs(t, err, preload.ErrUnreachable)

	require.NoError(t, l.Placeholder(ctx, srv.URL+"/poster.jpg"))
	assert.ErrorIs(t, l.Placeholder(ctx, srv.URL+"/missing.jpg"), preload.ErrUnreachable)
}

func TestHTTPLoaderManifest(t *testing.T) {
	var hits atomic.Int32
	srv := newAssetServer(t, &hits)
	l := newLoader()

	testCases := []struct {
		quality mediasrc.Quality
		expect  string
	}{
		{quality: mediasrc.Low, expect: "v360"},
		{quality: mediasrc.Medium, expect: "v720"},
		{quality: mediasrc.High, expect: "v1080"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.quality), func(t *testing.T) {
			probe, err := l.Primary(context.Background(), mediasrc.Direct{
				URL:      srv.URL + "/stream.mpd",
				Manifest: true,
			}, tc.quality)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, probe.Representation)
			assert.Equal(t, tc.quality.Height(), probe.Height)
		})
	}
}

func TestHTTPLoaderCancelled(t *testing.T) {
	var hits atomic.Int32
	srv := newAssetServer(t, &hits)
	l := newLoader()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Primary(ctx, mediasrc.Direct{URL: srv.URL + "/video.mp4"}, mediasrc.Medium)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, hits.Load())
}
