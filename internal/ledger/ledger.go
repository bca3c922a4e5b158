// Package ledger keeps the generation history and the saved-video gallery.
//
// Both collections are held newest first and written through to the
// key-value store on every mutation. History is capped; the gallery only
// shrinks when an item is deleted.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"veostudio/internal/domain"
	"veostudio/internal/infra"
	"veostudio/internal/kv"
)

const (
	HistoryKey = "veo_history"
	GalleryKey = "veo_videos"

	DefaultHistoryLimit = 20
)

type Options struct {
	HistoryLimit int
	Logger       *infra.Logger
}

type Ledger struct {
	store  kv.Store
	limit  int
	logger *infra.Logger

	mu      sync.RWMutex
	history []domain.HistoryEntry
	gallery []domain.VideoAsset
	issued  map[string]struct{}
}

func New(store kv.Store, opts Options) *Ledger {
	limit := opts.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &Ledger{
		store:  store,
		limit:  limit,
		logger: logger,
		issued: make(map[string]struct{}),
	}
}

// Load reads both collections from the store. Unparsable data is logged and
// replaced with an empty collection; only store failures are returned.
func (l *Ledger) Load(ctx context.Context) error {
	var (
		history []domain.HistoryEntry
		gallery []domain.VideoAsset
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return l.read(gctx, HistoryKey, &history)
	})
	g.Go(func() error {
		return l.read(gctx, GalleryKey, &gallery)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if len(history) > l.limit {
		history = history[:l.limit]
	}

	l.mu.Lock()
	l.history = history
	l.gallery = gallery
	for _, h := range history {
		l.issued[h.ID] = struct{}{}
	}
	for _, v := range gallery {
		l.issued[v.ID] = struct{}{}
	}
	l.mu.Unlock()

	l.logger.Debug().Int("history", len(history)).Int("gallery", len(gallery)).Msg("ledger: loaded")
	return nil
}

func (l *Ledger) read(ctx context.Context, key string, dst any) error {
	raw, ok, err := l.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("ledger: read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("ledger: discarding unparsable data")
		switch v := dst.(type) {
		case *[]domain.HistoryEntry:
			*v = nil
		case *[]domain.VideoAsset:
			*v = nil
		}
	}
	return nil
}

// History returns a copy of the history, newest first.
func (l *Ledger) History() []domain.HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.HistoryEntry(nil), l.history...)
}

// Gallery returns a copy of the gallery, newest first.
func (l *Ledger) Gallery() []domain.VideoAsset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.VideoAsset(nil), l.gallery...)
}

func (l *Ledger) FindGallery(id string) (domain.VideoAsset, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, v := range l.gallery {
		if v.ID == id {
			return v, true
		}
	}
	return domain.VideoAsset{}, false
}

// NewID returns a token not used by any entry seen in this session.
func (l *Ledger) NewID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	for {
		id := domain.NewToken()
		if _, taken := l.issued[id]; !taken {
			l.issued[id] = struct{}{}
			return id
		}
	}
}

// AppendHistory prepends entry and evicts the oldest entries beyond the cap.
// The in-memory collection is updated even when persisting fails.
func (l *Ledger) AppendHistory(ctx context.Context, entry domain.HistoryEntry) error {
	l.mu.Lock()
	next := make([]domain.HistoryEntry, 0, min(len(l.history)+1, l.limit))
	next = append(next, entry)
	next = append(next, l.history...)
	if len(next) > l.limit {
		next = next[:l.limit]
	}
	l.history = next
	l.issued[entry.ID] = struct{}{}
	snapshot := slices.Clone(next)
	l.mu.Unlock()

	return l.write(ctx, HistoryKey, snapshot)
}

// ClearHistory empties the history and removes its stored key.
func (l *Ledger) ClearHistory(ctx context.Context) error {
	l.mu.Lock()
	l.history = nil
	l.mu.Unlock()

	if err := l.store.Remove(ctx, HistoryKey); err != nil {
		return fmt.Errorf("ledger: clear history: %w", err)
	}
	return nil
}

func (l *Ledger) AppendGallery(ctx context.Context, asset domain.VideoAsset) error {
	l.mu.Lock()
	next := make([]domain.VideoAsset, 0, len(l.gallery)+1)
	next = append(next, asset)
	next = append(next, l.gallery...)
	l.gallery = next
	l.issued[asset.ID] = struct{}{}
	snapshot := slices.Clone(next)
	l.mu.Unlock()

	return l.write(ctx, GalleryKey, snapshot)
}

// DeleteGallery removes the asset with id. An unknown id leaves the gallery
// unchanged but still persists it.
func (l *Ledger) DeleteGallery(ctx context.Context, id string) error {
	l.mu.Lock()
	next := make([]domain.VideoAsset, 0, len(l.gallery))
	for _, v := range l.gallery {
		if v.ID != id {
			next = append(next, v)
		}
	}
	l.gallery = next
	snapshot := slices.Clone(next)
	l.mu.Unlock()

	return l.write(ctx, GalleryKey, snapshot)
}

func (l *Ledger) write(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("ledger: encode %s: %w", key, err)
	}
	if err := l.store.Set(ctx, key, string(raw)); err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("ledger: persist failed")
		return fmt.Errorf("ledger: persist %s: %w", key, err)
	}
	return nil
}
