package palette

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"folio.dev/internal/models"
)

// ErrEmptyImage is returned for images with no pixels in the sampled region
var ErrEmptyImage = errors.New("image has no pixels to sample")

// Defaults applied to zero Options fields
const (
	DefaultTimeout     = 10 * time.Second
	DefaultMaxBytes    = 20 << 20
	DefaultConcurrency = 6
)

// Options configures a Sampler
type Options struct {
	Client      *http.Client
	Timeout     time.Duration
	MaxBytes    int64
	Concurrency int
	// Cache memoises successful samples per URL for the Sampler's lifetime.
	Cache  bool
	Logger *zap.Logger
}

// Sampler fetches images and computes their scrim color.
// It never fails: any error resolves to Black.
type Sampler struct {
	client      *http.Client
	timeout     time.Duration
	maxBytes    int64
	concurrency int
	cache       bool
	log         *zap.Logger

	memo     sync.Map // url -> Color
	inflight singleflight.Group
}

// New creates a Sampler
func New(opts Options) *Sampler {
	s := &Sampler{
		client:      opts.Client,
		timeout:     opts.Timeout,
		maxBytes:    opts.MaxBytes,
		concurrency: opts.Concurrency,
		cache:       opts.Cache,
		log:         opts.Logger,
	}
	if s.client == nil {
		s.client = http.DefaultClient
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.maxBytes <= 0 {
		s.maxBytes = DefaultMaxBytes
	}
	if s.concurrency <= 0 {
		s.concurrency = DefaultConcurrency
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Sample returns the average color of the bottom third of the image at url,
// or Black if the image cannot be fetched or decoded in time.
func (s *Sampler) Sample(ctx context.Context, url string) Color {
	c, err := s.resolve(ctx, url)
	if err != nil {
		s.log.Debug("image sample failed", zap.String("url", url), zap.Error(err))
	}
	return c
}

// Caching reports whether successful samples are memoised
func (s *Sampler) Caching() bool {
	return s.cache
}

// resolve is Sample with the failure reported. An empty url has nothing to
// sample and resolves to Black without error.
func (s *Sampler) resolve(ctx context.Context, url string) (Color, error) {
	if url == "" {
		return Black, nil
	}
	if !s.cache {
		return s.sample(ctx, url)
	}

	if v, ok := s.memo.Load(url); ok {
		return v.(Color), nil
	}
	// The shared fetch must not die with whichever caller started it;
	// sample still bounds it with s.timeout.
	shared := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(url, func() (any, error) {
		c, err := s.sample(shared, url)
		if err != nil {
			return c, err
		}
		s.memo.Store(url, c)
		return c, nil
	})
	select {
	case <-ctx.Done():
		return Black, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return Black, r.Err
		}
		return r.Val.(Color), nil
	}
}

// SampleAll samples every project's cover image with bounded parallelism,
// keyed by project ID.
func (s *Sampler) SampleAll(ctx context.Context, projects []models.Project) map[int64]Color {
	out := make(map[int64]Color, len(projects))
	var mu sync.Mutex
	s.each(ctx, projects, func(id int64, c Color, err error) {
		if err != nil {
			s.log.Debug("image sample failed", zap.Int64("project_id", id), zap.Error(err))
		}
		mu.Lock()
		out[id] = c
		mu.Unlock()
	})
	return out
}

// each resolves every project's cover with bounded parallelism.
// fn is called concurrently, once per project.
func (s *Sampler) each(ctx context.Context, projects []models.Project, fn func(id int64, c Color, err error)) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, p := range projects {
		g.Go(func() error {
			c, err := s.resolve(gctx, p.ImageURL)
			fn(p.ID, c, err)
			return nil
		})
	}
	_ = g.Wait()
}

// Forget drops any memoised sample for url
func (s *Sampler) Forget(url string) {
	s.memo.Delete(url)
}

func (s *Sampler) sample(ctx context.Context, url string) (Color, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	img, err := s.fetch(ctx, url)
	if err != nil {
		return Black, err
	}
	c, ok := Average(img)
	if !ok {
		return Black, ErrEmptyImage
	}
	return c, nil
}

func (s *Sampler) fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download failed: %s", resp.Status)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, s.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
