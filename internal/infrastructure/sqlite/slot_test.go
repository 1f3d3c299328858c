package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/clientbook/internal/client"
	"github.com/zjrosen/clientbook/internal/store"
)

func openTestSlot(t *testing.T) *Slot {
	t.Helper()
	slot, err := OpenSlot(filepath.Join(t.TempDir(), DefaultFileName))
	require.NoError(t, err)
	t.Cleanup(func() { _ = slot.Close() })
	return slot
}

func TestSlot_LoadEmpty(t *testing.T) {
	data, ok, err := openTestSlot(t).Load(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, data)
}

func TestSlot_SaveLoadRemove(t *testing.T) {
	ctx := context.Background()
	slot := openTestSlot(t)

	require.NoError(t, slot.Save(ctx, []byte(`[{"id":"1"}]`)))
	require.NoError(t, slot.Save(ctx, []byte(`[]`)))

	data, ok, err := slot.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[]`, string(data))

	require.NoError(t, slot.Remove(ctx))
	_, ok, err = slot.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, slot.Remove(ctx), "removing an empty slot is fine")
}

func TestSlot_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DefaultFileName)

	first, err := OpenSlot(path)
	require.NoError(t, err)
	created, err := store.New(first).Create(ctx, client.Fields{
		TaxID: "11.222.333/0001-81", LegalName: "Acme", TradeName: "Acme Corp", Email: "a@acme.com",
	})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := OpenSlot(path)
	require.NoError(t, err)
	defer second.Close()
	require.Equal(t, path, second.Path())

	got, ok, err := store.New(second).GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, created, got)
}

func TestSlot_ArbitraryBlobsRoundTrip(t *testing.T) {
	slot := openTestSlot(t)
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		blob := rapid.SliceOfN(rapid.Byte(), 1, 512).Draw(rt, "blob")

		require.NoError(rt, slot.Save(ctx, blob))
		data, ok, err := slot.Load(ctx)
		require.NoError(rt, err)
		require.True(rt, ok)
		require.Equal(rt, blob, data)
	})
}
