package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festory/festory/internal/persistence"
	"github.com/festory/festory/internal/testfixtures"
)

func TestSnapshotRepository(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrNotFound for a namespace never written", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewSQLiteHarness(t)
		_, err := harness.Snapshots.GetSnapshot(context.Background(), "festory-storage")
		assert.ErrorIs(t, err, persistence.ErrNotFound)
	})

	t.Run("stores and returns the latest payload per namespace", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)

		first := persistence.SnapshotRecord{
			Namespace: "festory-storage",
			Payload:   []byte(`{"version":1,"state":{}}`),
			UpdatedAt: testfixtures.ReferenceTime(),
		}
		require.NoError(t, harness.Snapshots.SaveSnapshot(ctx, first))

		second := first
		second.Payload = []byte(`{"version":1,"state":{"loginUser":"hana"}}`)
		second.UpdatedAt = first.UpdatedAt.Add(1e9)
		require.NoError(t, harness.Snapshots.SaveSnapshot(ctx, second))

		fetched, err := harness.Snapshots.GetSnapshot(ctx, "festory-storage")
		require.NoError(t, err)
		assert.Equal(t, second.Payload, fetched.Payload)
		assert.True(t, fetched.UpdatedAt.Equal(second.UpdatedAt.UTC().Truncate(1e9)) || fetched.UpdatedAt.After(first.UpdatedAt))
	})

	t.Run("keeps namespaces independent", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)

		require.NoError(t, harness.Snapshots.SaveSnapshot(ctx, persistence.SnapshotRecord{
			Namespace: "festory-storage",
			Payload:   []byte("a"),
		}))
		require.NoError(t, harness.Snapshots.SaveSnapshot(ctx, persistence.SnapshotRecord{
			Namespace: "other",
			Payload:   []byte("b"),
		}))

		fetched, err := harness.Snapshots.GetSnapshot(ctx, "other")
		require.NoError(t, err)
		assert.Equal(t, []byte("b"), fetched.Payload)
	})

	t.Run("rejects empty namespaces", func(t *testing.T) {
		t.Parallel()

		err := testfixtures.NewSQLiteHarness(t).Snapshots.SaveSnapshot(context.Background(), persistence.SnapshotRecord{
			Payload: []byte("x"),
		})
		assert.ErrorIs(t, err, persistence.ErrConstraintViolation)
	})

	t.Run("deletes snapshots and reports missing ones", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)

		require.NoError(t, harness.Snapshots.SaveSnapshot(ctx, persistence.SnapshotRecord{
			Namespace: "festory-storage",
			Payload:   []byte("x"),
		}))
		require.NoError(t, harness.Snapshots.DeleteSnapshot(ctx, "festory-storage"))
		assert.ErrorIs(t, harness.Snapshots.DeleteSnapshot(ctx, "festory-storage"), persistence.ErrNotFound)
	})
}
