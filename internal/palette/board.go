package palette

import (
	"context"
	"maps"
	"sync"

	"go.uber.org/zap"

	"folio.dev/internal/models"
)

// Board holds the scrim colors of the record set most recently begun.
// Results tagged with an older generation are dropped, so a slow sample for a
// previous set can never overwrite a slot of the current one.
type Board struct {
	mu     sync.RWMutex
	gen    uint64
	colors map[int64]Color
}

// NewBoard creates an empty board
func NewBoard() *Board {
	return &Board{colors: make(map[int64]Color)}
}

// Begin starts a new generation and clears all slots
func (b *Board) Begin() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gen++
	b.colors = make(map[int64]Color)
	return b.gen
}

// Generation returns the current generation
func (b *Board) Generation() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.gen
}

// Put stores c for id if gen is still current and reports whether it was kept
func (b *Board) Put(gen uint64, id int64, c Color) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		return false
	}
	b.colors[id] = c
	return true
}

// Get returns the color stored for id
func (b *Board) Get(id int64) (Color, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.colors[id]
	return c, ok
}

// Snapshot copies the current slots
func (b *Board) Snapshot() map[int64]Color {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return maps.Clone(b.colors)
}

// Fill begins a generation and samples every project into it.
// Projects whose cover could not be sampled get no slot, so callers
// sample them again instead of keeping the fallback.
// It returns the generation it filled.
func (b *Board) Fill(ctx context.Context, s *Sampler, projects []models.Project) uint64 {
	gen := b.Begin()
	s.each(ctx, projects, func(id int64, c Color, err error) {
		if err != nil {
			s.log.Debug("cover not sampled", zap.Int64("project_id", id), zap.Error(err))
			return
		}
		b.Put(gen, id, c)
	})
	return gen
}
