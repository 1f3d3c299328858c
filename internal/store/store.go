// Package store persists the client collection in a single storage slot.
//
// Every read loads and decodes the whole slot; every mutation rewrites it.
// Content that cannot be decoded is treated as an empty collection rather
// than an error, so a corrupted slot never blocks the UI.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/clientbook/internal/client"
	"github.com/zjrosen/clientbook/internal/log"
	"github.com/zjrosen/clientbook/internal/tracing"
)

// Store is the record store contract consumed by the page controller and
// the CLI.
type Store interface {
	ListAll(ctx context.Context) ([]client.Client, error)
	GetByID(ctx context.Context, id string) (client.Client, bool, error)
	Create(ctx context.Context, fields client.Fields) (client.Client, error)
	Update(ctx context.Context, id string, patch client.Patch) (client.Client, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	ClearAll(ctx context.Context) error
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

// Now implements Clock.
func (RealClock) Now() time.Time { return time.Now() }

// Option configures a RecordStore.
type Option func(*RecordStore)

// WithClock overrides the time source used for timestamps.
func WithClock(c Clock) Option {
	return func(s *RecordStore) { s.clock = c }
}

// WithIDGenerator overrides the id generator (uuid v4 by default).
func WithIDGenerator(fn func() string) Option {
	return func(s *RecordStore) { s.newID = fn }
}

// WithTracer records a span per store operation.
func WithTracer(t trace.Tracer) Option {
	return func(s *RecordStore) { s.tracer = t }
}

// RecordStore implements Store over a Slot.
type RecordStore struct {
	slot   Slot
	clock  Clock
	newID  func() string
	tracer trace.Tracer
}

// Ensure RecordStore implements Store.
var _ Store = (*RecordStore)(nil)

// New creates a record store persisting to slot.
func New(slot Slot, opts ...Option) *RecordStore {
	s := &RecordStore{
		slot:   slot,
		clock:  RealClock{},
		newID:  func() string { return uuid.New().String() },
		tracer: noop.NewTracerProvider().Tracer("noop"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Slot returns the underlying slot.
func (s *RecordStore) Slot() Slot {
	return s.slot
}

// ListAll implements Store.
func (s *RecordStore) ListAll(ctx context.Context) ([]client.Client, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixStore+"list_all")
	defer span.End()

	clients, err := s.load(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int(tracing.AttrClientCount, len(clients)))
	return clients, nil
}

// GetByID implements Store.
func (s *RecordStore) GetByID(ctx context.Context, id string) (client.Client, bool, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixStore+"get_by_id",
		trace.WithAttributes(attribute.String(tracing.AttrClientID, id)))
	defer span.End()

	clients, err := s.load(ctx)
	if err != nil {
		recordError(span, err)
		return client.Client{}, false, err
	}
	for _, c := range clients {
		if c.ID == id {
			return c, true, nil
		}
	}
	return client.Client{}, false, nil
}

// Create implements Store.
func (s *RecordStore) Create(ctx context.Context, fields client.Fields) (client.Client, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixStore+"create")
	defer span.End()

	clients, err := s.load(ctx)
	if err != nil {
		recordError(span, err)
		return client.Client{}, err
	}

	now := s.now()
	created := client.PatchFrom(fields).Apply(client.Client{
		ID:        s.newID(),
		CreatedAt: now,
		UpdatedAt: now,
	})
	span.SetAttributes(attribute.String(tracing.AttrClientID, created.ID))

	if err := s.save(ctx, append(clients, created)); err != nil {
		recordError(span, err)
		return client.Client{}, err
	}
	log.Info(log.CatStore, "Created client", "id", created.ID, "taxId", created.TaxID)
	return created, nil
}

// Update implements Store. A missing id returns ok=false and writes nothing.
func (s *RecordStore) Update(ctx context.Context, id string, patch client.Patch) (client.Client, bool, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixStore+"update",
		trace.WithAttributes(attribute.String(tracing.AttrClientID, id)))
	defer span.End()

	clients, err := s.load(ctx)
	if err != nil {
		recordError(span, err)
		return client.Client{}, false, err
	}

	idx := indexOf(clients, id)
	if idx == -1 {
		span.AddEvent(tracing.EventNotFound)
		log.Debug(log.CatStore, "Update skipped, client not found", "id", id)
		return client.Client{}, false, nil
	}

	updated := patch.Apply(clients[idx])
	updated.UpdatedAt = s.now()
	clients[idx] = updated

	if err := s.save(ctx, clients); err != nil {
		recordError(span, err)
		return client.Client{}, false, err
	}
	log.Info(log.CatStore, "Updated client", "id", id)
	return updated, true, nil
}

// Delete implements Store. The slot is rewritten only when a record was
// removed.
func (s *RecordStore) Delete(ctx context.Context, id string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixStore+"delete",
		trace.WithAttributes(attribute.String(tracing.AttrClientID, id)))
	defer span.End()

	clients, err := s.load(ctx)
	if err != nil {
		recordError(span, err)
		return false, err
	}

	kept := make([]client.Client, 0, len(clients))
	for _, c := range clients {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(clients) {
		span.AddEvent(tracing.EventNotFound)
		return false, nil
	}

	if err := s.save(ctx, kept); err != nil {
		recordError(span, err)
		return false, err
	}
	log.Info(log.CatStore, "Deleted client", "id", id)
	return true, nil
}

// ClearAll implements Store by removing the slot entirely.
func (s *RecordStore) ClearAll(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixStore+"clear_all")
	defer span.End()

	if err := s.slot.Remove(ctx); err != nil {
		recordError(span, err)
		return fmt.Errorf("clearing clients: %w", err)
	}
	log.Warn(log.CatStore, "Cleared all clients", "path", s.slot.Path())
	return nil
}

func (s *RecordStore) load(ctx context.Context) ([]client.Client, error) {
	data, ok, err := s.slot.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading clients: %w", err)
	}
	if !ok {
		return []client.Client{}, nil
	}
	clients, valid := Decode(data)
	if !valid {
		log.Warn(log.CatStore, "Ignoring malformed client data", "path", s.slot.Path(), "bytes", len(data))
	}
	return clients, nil
}

func (s *RecordStore) save(ctx context.Context, clients []client.Client) error {
	data, err := Encode(clients)
	if err != nil {
		return fmt.Errorf("encoding clients: %w", err)
	}
	if err := s.slot.Save(ctx, data); err != nil {
		return fmt.Errorf("saving clients: %w", err)
	}
	return nil
}

// now strips the monotonic reading so timestamps survive a JSON round trip
// unchanged.
func (s *RecordStore) now() time.Time {
	return s.clock.Now().UTC()
}

func indexOf(clients []client.Client, id string) int {
	for i, c := range clients {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
