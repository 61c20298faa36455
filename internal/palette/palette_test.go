package palette

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"folio.dev/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// banded returns a w*h image whose rows before split are top and the rest bottom
func banded(w, h, split int, top, bottom color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if y < split {
				img.SetNRGBA(x, y, top)
			} else {
				img.SetNRGBA(x, y, bottom)
			}
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func TestRegion(t *testing.T) {
	assert.Equal(t, image.Rect(0, 19, 30, 30), Region(image.Rect(0, 0, 30, 30)))
	assert.Equal(t, image.Rect(0, 66, 10, 100), Region(image.Rect(0, 0, 10, 100)))
	assert.Equal(t, image.Rect(5, 0, 8, 1), Region(image.Rect(5, 0, 8, 1)))
	assert.Equal(t, image.Rect(2, 16, 4, 20), Region(image.Rect(2, 10, 4, 20)))
}

func TestAverage_OnlyBottomThird(t *testing.T) {
	// rows 0..18 red, rows 19..29 blue: only blue is in the sampled region
	c, ok := Average(banded(30, 30, 19, red, blue))
	require.True(t, ok)
	assert.Equal(t, Color{B: 255}, c)

	// one red row inside the region shifts the mean
	c, ok = Average(banded(30, 30, 20, red, blue))
	require.True(t, ok)
	assert.Equal(t, Color{R: 255 / 11, B: 255 * 10 / 11}, c)
}

func TestAverage_Floors(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 11, G: 21, B: 31, A: 255})
	c, ok := Average(img)
	require.True(t, ok)
	assert.Equal(t, Color{R: 10, G: 20, B: 30}, c)
}

func TestAverage_GenericPathMatchesFastPath(t *testing.T) {
	src := banded(17, 23, 12, color.NRGBA{R: 40, G: 90, B: 200, A: 255}, color.NRGBA{R: 3, G: 250, B: 77, A: 255})
	rgba := image.NewRGBA(src.Bounds())
	for y := 0; y < 23; y++ {
		for x := 0; x < 17; x++ {
			rgba.Set(x, y, src.At(x, y))
		}
	}

	fast, ok := Average(src)
	require.True(t, ok)
	slow, ok := Average(rgba)
	require.True(t, ok)
	assert.Equal(t, fast, slow)
}

func TestAverage_Empty(t *testing.T) {
	_, ok := Average(image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	assert.False(t, ok)
	_, ok = Average(image.NewNRGBA(image.Rect(0, 0, 5, 0)))
	assert.False(t, ok)
}

func TestColorFormatting(t *testing.T) {
	c := Color{R: 12, G: 200, B: 3}
	assert.Equal(t, "rgb(12,200,3)", c.String())
	assert.Equal(t, "#0cc803", c.Hex())
	assert.Equal(t, "rgba(12,200,3,0.6)", c.RGBA(0.6))
	assert.Equal(t, "rgba(12,200,3,0)", c.RGBA(0))
	assert.Equal(t, "#000000", Black.Hex())

	g := Scrim(c)
	assert.Equal(t, "linear-gradient(to top, rgba(12,200,3,0.6) 0%, rgba(12,200,3,0) 100%)", g.CSS())
	assert.Equal(t, "linear-gradient(to top, rgba(0,0,0,0.5) 0%, rgba(0,0,0,0) 100%)", DefaultScrim.CSS())

	data, err := json.Marshal(struct {
		Color    Color    `json:"color"`
		Gradient Gradient `json:"gradient"`
	}{c, g})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"color": "rgb(12,200,3)",
		"gradient": {
			"direction": "to top",
			"stops": [{"color":"rgba(12,200,3,0.6)","offset":0},{"color":"rgba(12,200,3,0)","offset":100}],
			"css": "linear-gradient(to top, rgba(12,200,3,0.6) 0%, rgba(12,200,3,0) 100%)"
		}
	}`, string(data))
}

type imageServer struct {
	*httptest.Server
	hits atomic.Int64
}

func newImageServer(t *testing.T) *imageServer {
	t.Helper()
	body := encodePNG(t, banded(30, 30, 19, red, blue))

	s := &imageServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/cover.png", func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	})
	mux.HandleFunc("/garbage.png", func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		_, _ = w.Write([]byte("definitely not an image"))
	})
	mux.HandleFunc("/hang.png", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	mux.HandleFunc("/missing.png", func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		http.NotFound(w, r)
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func newSampler(opts Options) *Sampler {
	opts.Client = &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	return New(opts)
}

func TestSampler_Sample(t *testing.T) {
	srv := newImageServer(t)
	s := newSampler(Options{})
	ctx := context.Background()

	first := s.Sample(ctx, srv.URL+"/cover.png")
	assert.Equal(t, Color{B: 255}, first)
	assert.Equal(t, first, s.Sample(ctx, srv.URL+"/cover.png"), "sampling a static image is idempotent")
	assert.Equal(t, int64(2), srv.hits.Load(), "no cache: every call refetches")
}

func TestSampler_FailuresResolveToBlack(t *testing.T) {
	srv := newImageServer(t)
	s := newSampler(Options{Timeout: 100 * time.Millisecond})
	ctx := context.Background()

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	for name, url := range map[string]string{
		"not found":   srv.URL + "/missing.png",
		"not image":   srv.URL + "/garbage.png",
		"timeout":     srv.URL + "/hang.png",
		"unreachable": closedURL + "/cover.png",
		"bad url":     "://nope",
		"empty":       "",
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, Black, s.Sample(ctx, url))
		})
	}
}

func TestSampler_CancelledContext(t *testing.T) {
	srv := newImageServer(t)
	s := newSampler(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, Black, s.Sample(ctx, srv.URL+"/cover.png"))
}

func TestSampler_BodyLimit(t *testing.T) {
	srv := newImageServer(t)
	s := newSampler(Options{MaxBytes: 16})
	assert.Equal(t, Black, s.Sample(context.Background(), srv.URL+"/cover.png"))
}

func TestSampler_Cache(t *testing.T) {
	srv := newImageServer(t)
	s := newSampler(Options{Cache: true})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.Equal(t, Color{B: 255}, s.Sample(ctx, srv.URL+"/cover.png"))
	}
	assert.Equal(t, int64(1), srv.hits.Load())

	s.Forget(srv.URL + "/cover.png")
	s.Sample(ctx, srv.URL+"/cover.png")
	assert.Equal(t, int64(2), srv.hits.Load())

	// failures are not memoised
	s.Sample(ctx, srv.URL+"/missing.png")
	s.Sample(ctx, srv.URL+"/missing.png")
	assert.Equal(t, int64(4), srv.hits.Load())
}

func TestSampler_SharedFetchOutlivesCancelledCaller(t *testing.T) {
	body := encodePNG(t, banded(4, 3, 0, red, red))
	arrived := make(chan struct{}, 1)
	release := make(chan struct{})
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case arrived <- struct{}{}:
		default:
		}
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	s := newSampler(Options{Cache: true})
	url := srv.URL + "/slow.png"

	ctxA, cancelA := context.WithCancel(context.Background())
	first := make(chan Color, 1)
	go func() { first <- s.Sample(ctxA, url) }()
	<-arrived

	second := make(chan Color, 1)
	go func() { second <- s.Sample(context.Background(), url) }()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	assert.Equal(t, Black, <-first, "the cancelled caller gives up")

	close(release)
	assert.Equal(t, Color{R: 255}, <-second, "the other caller still gets the color")
	assert.Equal(t, int64(1), hits.Load(), "both callers shared one fetch")
	assert.Equal(t, Color{R: 255}, s.Sample(context.Background(), url))
}

func TestSampler_Caching(t *testing.T) {
	assert.True(t, newSampler(Options{Cache: true}).Caching())
	assert.False(t, newSampler(Options{}).Caching())
}

func TestSampler_SampleAll(t *testing.T) {
	srv := newImageServer(t)
	s := newSampler(Options{Concurrency: 2})

	projects := []models.Project{
		{ID: 1, ImageURL: srv.URL + "/cover.png"},
		{ID: 2, ImageURL: srv.URL + "/missing.png"},
		{ID: 3},
		{ID: 4, ImageURL: srv.URL + "/cover.png"},
	}
	got := s.SampleAll(context.Background(), projects)
	assert.Equal(t, map[int64]Color{1: {B: 255}, 2: Black, 3: Black, 4: {B: 255}}, got)
}

func TestBoard_DiscardsStaleGenerations(t *testing.T) {
	b := NewBoard()
	old := b.Begin()
	require.True(t, b.Put(old, 1, Color{R: 1}))

	current := b.Begin()
	assert.Greater(t, current, old)
	_, ok := b.Get(1)
	assert.False(t, ok, "Begin clears previous slots")

	assert.False(t, b.Put(old, 1, Color{R: 9}), "late result from an older set is dropped")
	assert.True(t, b.Put(current, 2, Color{G: 2}))

	assert.Equal(t, map[int64]Color{2: {G: 2}}, b.Snapshot())
	assert.Equal(t, current, b.Generation())
}

func TestBoard_Fill(t *testing.T) {
	srv := newImageServer(t)
	s := newSampler(Options{})
	b := NewBoard()

	gen := b.Fill(context.Background(), s, []models.Project{
		{ID: 7, ImageURL: srv.URL + "/cover.png"},
		{ID: 8, ImageURL: srv.URL + "/garbage.png"},
	})
	assert.Equal(t, b.Generation(), gen)

	c, ok := b.Get(7)
	require.True(t, ok)
	assert.Equal(t, Color{B: 255}, c)
	_, ok = b.Get(8)
	assert.False(t, ok, "failed samples get no slot")
}

func TestBoard_FillKeepsEmptyCovers(t *testing.T) {
	b := NewBoard()
	b.Fill(context.Background(), newSampler(Options{}), []models.Project{{ID: 3}})

	c, ok := b.Get(3)
	require.True(t, ok, "a project without a cover has nothing to retry")
	assert.Equal(t, Black, c)
}
