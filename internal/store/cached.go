package store

import (
	"context"
	"time"

	"github.com/zjrosen/clientbook/internal/cachemanager"
	"github.com/zjrosen/clientbook/internal/log"
)

const cacheKey = "clients"

type cachedBlob struct {
	data []byte
	ok   bool
}

// CachedSlot serves repeated loads of an underlying slot from memory for up
// to ttl. Writes through the slot drop the cached entry.
type CachedSlot struct {
	inner Slot
	ttl   time.Duration
	cache *cachemanager.ReadThroughCache[string, cachedBlob, struct{}]
}

var _ Slot = (*CachedSlot)(nil)

// NewCachedSlot wraps inner. A non-positive ttl disables caching.
func NewCachedSlot(inner Slot, ttl time.Duration) *CachedSlot {
	s := &CachedSlot{inner: inner, ttl: ttl}
	manager := cachemanager.NewInMemoryCacheManager[string, cachedBlob]("slot", ttl, cachemanager.DefaultCleanupInterval)
	s.cache = cachemanager.NewReadThroughCache[string, cachedBlob, struct{}](manager, s.loadInner, ttl <= 0)
	return s
}

func (s *CachedSlot) loadInner(ctx context.Context, _ struct{}) (cachedBlob, error) {
	data, ok, err := s.inner.Load(ctx)
	if err != nil {
		return cachedBlob{}, err
	}
	return cachedBlob{data: data, ok: ok}, nil
}

// Load implements Slot.
func (s *CachedSlot) Load(ctx context.Context) ([]byte, bool, error) {
	blob, err := s.cache.Get(ctx, cacheKey, struct{}{}, s.ttl)
	if err != nil {
		return nil, false, err
	}
	return blob.data, blob.ok, nil
}

// Save implements Slot.
func (s *CachedSlot) Save(ctx context.Context, data []byte) error {
	defer s.Invalidate(ctx)
	return s.inner.Save(ctx, data)
}

// Remove implements Slot.
func (s *CachedSlot) Remove(ctx context.Context) error {
	defer s.Invalidate(ctx)
	return s.inner.Remove(ctx)
}

// Path implements Slot.
func (s *CachedSlot) Path() string { return s.inner.Path() }

// Invalidate forces the next Load to read the underlying slot. Called when
// the backing file changes outside this process.
func (s *CachedSlot) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, cacheKey); err != nil {
		log.ErrorErr(log.CatCache, "Invalidating slot cache failed", err)
	}
}
