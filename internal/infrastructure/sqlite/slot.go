package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/clientbook/internal/log"
	"github.com/zjrosen/clientbook/internal/store"
)

// SlotKey is the row holding the client collection.
const SlotKey = "clients"

// Slot implements store.Slot as a single row of the slots table.
type Slot struct {
	db   *sql.DB
	key  string
	path string
	now  func() time.Time
}

// Ensure Slot implements store.Slot.
var _ store.Slot = (*Slot)(nil)

// OpenSlot opens (and migrates) the database at path and returns the
// collection slot. Close releases the database.
func OpenSlot(path string) (*Slot, error) {
	db, err := NewDB(path)
	if err != nil {
		return nil, err
	}
	return NewSlot(db, path), nil
}

// NewSlot uses an already migrated database.
func NewSlot(db *sql.DB, path string) *Slot {
	return &Slot{db: db, key: SlotKey, path: path, now: time.Now}
}

// Load implements store.Slot.
func (s *Slot) Load(ctx context.Context) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load slot %s: %w", s.key, err)
	}
	return value, true, nil
}

// Save implements store.Slot.
func (s *Slot) Save(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, data, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save slot %s: %w", s.key, err)
	}
	log.Debug(log.CatDB, "Saved slot", "key", s.key, "bytes", len(data))
	return nil
}

// Remove implements store.Slot.
func (s *Slot) Remove(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, s.key); err != nil {
		return fmt.Errorf("failed to remove slot %s: %w", s.key, err)
	}
	return nil
}

// Path implements store.Slot.
func (s *Slot) Path() string { return s.path }

// Close closes the database.
func (s *Slot) Close() error {
	return s.db.Close()
}
