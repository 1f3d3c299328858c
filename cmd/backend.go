package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/zjrosen/clientbook/internal/config"
	"github.com/zjrosen/clientbook/internal/infrastructure/sqlite"
	"github.com/zjrosen/clientbook/internal/log"
	"github.com/zjrosen/clientbook/internal/store"
	"github.com/zjrosen/clientbook/internal/tracing"
)

// backend bundles the opened store with the resources it holds.
type backend struct {
	store     *store.RecordStore
	cached    *store.CachedSlot
	watchPath string
	tracer    *tracing.Provider
	closers   []func() error
}

// openBackend builds the configured slot, wraps it in the read cache and
// returns a record store tracing through the configured provider.
func openBackend(c config.Config) (*backend, error) {
	provider, err := tracing.NewProvider(c.TracingConfig())
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}
	b := &backend{tracer: provider}

	var inner store.Slot
	switch c.Storage.Backend {
	case config.BackendSQLite:
		slot, err := sqlite.OpenSlot(filepath.Join(c.DataDir(), sqlite.DefaultFileName))
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("opening sqlite storage: %w", err)
		}
		b.closers = append(b.closers, slot.Close)
		inner = slot
	case config.BackendMemory:
		inner = store.NewMemorySlot()
	default:
		inner = store.NewFileSlot(filepath.Join(c.DataDir(), store.DefaultFileName))
	}

	b.cached = store.NewCachedSlot(inner, c.Storage.CacheTTL)
	b.watchPath = inner.Path()
	b.store = store.New(b.cached, store.WithTracer(provider.Tracer()))

	log.Debug(log.CatStore, "Opened storage", "backend", c.Storage.Backend, "path", b.watchPath,
		"cacheTTL", c.Storage.CacheTTL, "tracing", provider.Enabled())
	return b, nil
}

// Close releases the slot and flushes pending spans.
func (b *backend) Close() error {
	var errs []error
	for _, closeFn := range b.closers {
		errs = append(errs, closeFn())
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	errs = append(errs, b.tracer.Shutdown(ctx))
	return errors.Join(errs...)
}
