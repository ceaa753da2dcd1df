package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/docstore"
)

type item struct {
	ID      string `json:"id"`
	Owner   string `json:"owner"`
	Qty     int    `json:"qty"`
	Version int64  `json:"version"`
}

func seed(t *testing.T, col docstore.Collection, items ...item) {
	t.Helper()
	for _, it := range items {
		it.Version = 1
		require.NoError(t, col.Insert(context.Background(), it.ID, it))
	}
}

func TestInsertAndFind(t *testing.T) {
	ctx := context.Background()
	col := NewStore().Collection("items")
	seed(t, col, item{ID: "a", Owner: "u1", Qty: 1}, item{ID: "b", Owner: "u2", Qty: 2}, item{ID: "c", Owner: "u1", Qty: 3})

	var got item
	require.NoError(t, col.FindByID(ctx, "b", &got))
	assert.Equal(t, "u2", got.Owner)

	var mine []item
	require.NoError(t, col.FindMany(ctx, docstore.Filter{"owner": "u1"}, &mine))
	require.Len(t, mine, 2)
	assert.Equal(t, "a", mine[0].ID)
	assert.Equal(t, "c", mine[1].ID)

	var byQty item
	require.NoError(t, col.FindOne(ctx, docstore.Filter{"qty": 3}, &byQty))
	assert.Equal(t, "c", byQty.ID)

	var some []item
	require.NoError(t, col.FindByIDs(ctx, []string{"c", "a", "zzz"}, &some))
	assert.Equal(t, []string{"a", "c"}, []string{some[0].ID, some[1].ID})
}

func TestFindMissing(t *testing.T) {
	ctx := context.Background()
	col := NewStore().Collection("items")

	var got item
	assert.ErrorIs(t, col.FindByID(ctx, "nope", &got), docstore.ErrNotFound)
	assert.ErrorIs(t, col.FindOne(ctx, docstore.Filter{"owner": "x"}, &got), docstore.ErrNotFound)

	var all []item
	require.NoError(t, col.FindMany(ctx, nil, &all))
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestInsertDuplicate(t *testing.T) {
	col := NewStore().Collection("items")
	seed(t, col, item{ID: "a"})

	err := col.Insert(context.Background(), "a", item{ID: "a", Version: 1})
	assert.ErrorIs(t, err, docstore.ErrDuplicate)
}

func TestReplaceChecksVersion(t *testing.T) {
	ctx := context.Background()
	col := NewStore().Collection("items")
	seed(t, col, item{ID: "a", Qty: 1})

	require.NoError(t, col.Replace(ctx, "a", 1, item{ID: "a", Qty: 5, Version: 2}))
	assert.ErrorIs(t, col.Replace(ctx, "a", 1, item{ID: "a", Qty: 9, Version: 2}), docstore.ErrConflict)
	assert.ErrorIs(t, col.Replace(ctx, "missing", 1, item{ID: "missing"}), docstore.ErrNotFound)

	var got item
	require.NoError(t, col.FindByID(ctx, "a", &got))
	assert.Equal(t, 5, got.Qty)
	assert.Equal(t, int64(2), got.Version)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	col := NewStore().Collection("items")
	seed(t, col, item{ID: "a", Owner: "u1"}, item{ID: "b", Owner: "u1"})

	require.NoError(t, col.DeleteOne(ctx, docstore.Filter{"owner": "u1"}))
	var rest []item
	require.NoError(t, col.FindMany(ctx, nil, &rest))
	require.Len(t, rest, 1)
	assert.Equal(t, "b", rest[0].ID)

	require.NoError(t, col.DeleteByID(ctx, "b"))
	assert.ErrorIs(t, col.DeleteByID(ctx, "b"), docstore.ErrNotFound)
	assert.ErrorIs(t, col.DeleteOne(ctx, docstore.Filter{"owner": "u1"}), docstore.ErrNotFound)
}

func TestCollectionsAreIsolated(t *testing.T) {
	s := NewStore()
	seed(t, s.Collection("a"), item{ID: "x"})

	var got item
	assert.ErrorIs(t, s.Collection("b").FindByID(context.Background(), "x", &got), docstore.ErrNotFound)
	assert.Same(t, s.Collection("a"), s.Collection("a"))
}
