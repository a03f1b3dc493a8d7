package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bigbrain/internal/domain"
	"bigbrain/internal/store"
)

// mustCreateDeck inserts a deck through the store and returns its ID.
func mustCreateDeck(t *testing.T, s *DeckStore, parentID *int64, name string) int64 {
	t.Helper()

	deck, err := domain.NewDeck(parentID, name, "", "#ffffff", "")
	require.NoError(t, err)

	id, err := s.Create(context.Background(), deck)
	require.NoError(t, err)
	return id
}

func TestDeckStoreCreateAndGet(t *testing.T) {
	gw := newTestGateway(t)
	s := NewDeckStore(gw, nil)
	ctx := context.Background()

	deck, err := domain.NewDeck(nil, "Algebra", "Linear equations", "#ff0000", "")
	require.NoError(t, err)

	id, err := s.Create(ctx, deck)
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.Equal(t, id, deck.ID, "assigned ID should be written back")

	got, err := s.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Nil(t, got.ParentID)
	assert.Equal(t, "Algebra", got.Name)
	assert.Equal(t, "Linear equations", got.Description)
	assert.Equal(t, "#ff0000", got.Color)
	assert.Empty(t, got.CoverImage)
	assert.False(t, got.Archived)
	assert.Equal(t, deck.CreatedAt.Truncate(time.Second).UTC(), got.CreatedAt, "timestamps survive the RFC3339 round trip at second precision")
}

func TestDeckStoreCreateValidation(t *testing.T) {
	gw := newTestGateway(t)
	s := NewDeckStore(gw, nil)

	deck := &domain.Deck{Color: "#ff0000"} // missing name

	_, err := s.Create(context.Background(), deck)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.Zero(t, countRows(t, gw, "deck"))
}

func TestDeckStoreCreateInvalidParentReference(t *testing.T) {
	gw := newTestGateway(t)
	s := NewDeckStore(gw, nil)

	missing := int64(9999)
	deck, err := domain.NewDeck(&missing, "Orphan", "", "#ff0000", "")
	require.NoError(t, err)

	_, err = s.Create(context.Background(), deck)
	assert.ErrorIs(t, err, store.ErrStorage, "a dangling parent reference is a storage failure")
}

func TestDeckStoreGetByIDNotFound(t *testing.T) {
	gw := newTestGateway(t)
	s := NewDeckStore(gw, nil)

	_, err := s.GetByID(context.Background(), 12345)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
	assert.True(t, store.IsNotFoundError(err))
}

func TestDeckStoreGetName(t *testing.T) {
	gw := newTestGateway(t)
	s := NewDeckStore(gw, nil)
	ctx := context.Background()

	id := mustCreateDeck(t, s, nil, "Biology")

	name, err := s.GetName(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Biology", name)

	_, err = s.GetName(ctx, id+1)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}

func TestDeckStoreListChildren(t *testing.T) {
	gw := newTestGateway(t)
	s := NewDeckStore(gw, nil)
	ctx := context.Background()

	rootA := mustCreateDeck(t, s, nil, "A")
	rootB := mustCreateDeck(t, s, nil, "B")
	childA1 := mustCreateDeck(t, s, &rootA, "A1")
	childA2 := mustCreateDeck(t, s, &rootA, "A2")
	mustCreateDeck(t, s, &rootB, "B1")

	t.Run("nil parent selects only roots", func(t *testing.T) {
		roots, err := s.ListChildren(ctx, nil)
		require.NoError(t, err)
		require.Len(t, roots, 2, "a nil parent must never return the whole tree")
		assert.Equal(t, rootA, roots[0].ID, "insertion order")
		assert.Equal(t, rootB, roots[1].ID)
	})

	t.Run("parent filter returns only its children", func(t *testing.T) {
		children, err := s.ListChildren(ctx, &rootA)
		require.NoError(t, err)
		require.Len(t, children, 2)
		assert.Equal(t, childA1, children[0].ID)
		assert.Equal(t, childA2, children[1].ID)
	})

	t.Run("childless parent yields empty slice", func(t *testing.T) {
		children, err := s.ListChildren(ctx, &childA1)
		require.NoError(t, err)
		assert.Empty(t, children)
		assert.NotNil(t, children)
	})
}

func TestDeckStoreListChildrenExcludesArchived(t *testing.T) {
	gw := newTestGateway(t)
	s := NewDeckStore(gw, nil)
	ctx := context.Background()

	kept := mustCreateDeck(t, s, nil, "Kept")
	hidden := mustCreateDeck(t, s, nil, "Hidden")
	archiveDeck(t, gw, hidden)

	roots, err := s.ListChildren(ctx, nil)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, kept, roots[0].ID)

	// Archived decks stay fetchable by direct lookup.
	got, err := s.GetByID(ctx, hidden)
	require.NoError(t, err)
	assert.True(t, got.Archived)
}

func TestDeckStoreGetAncestorChain(t *testing.T) {
	gw := newTestGateway(t)
	s := NewDeckStore(gw, nil)
	ctx := context.Background()

	a := mustCreateDeck(t, s, nil, "A")
	b := mustCreateDeck(t, s, &a, "B")
	c := mustCreateDeck(t, s, &b, "C")

	t.Run("walks child to root", func(t *testing.T) {
		crumbs, err := s.GetAncestorChain(ctx, c)
		require.NoError(t, err)
		require.Len(t, crumbs, 3)
		assert.Equal(t, []domain.Crumb{
			{ID: c, Name: "C"},
			{ID: b, Name: "B"},
			{ID: a, Name: "A"},
		}, crumbs)
	})

	t.Run("root deck yields a single crumb", func(t *testing.T) {
		crumbs, err := s.GetAncestorChain(ctx, a)
		require.NoError(t, err)
		require.Len(t, crumbs, 1)
		assert.Equal(t, domain.Crumb{ID: a, Name: "A"}, crumbs[0])
	})

	t.Run("missing deck is not found", func(t *testing.T) {
		_, err := s.GetAncestorChain(ctx, 9999)
		assert.ErrorIs(t, err, store.ErrDeckNotFound)
	})
}

func TestDeckStoreGetAncestorChainDetectsCycle(t *testing.T) {
	gw := newTestGateway(t)
	s := NewDeckStore(gw, nil)
	ctx := context.Background()

	a := mustCreateDeck(t, s, nil, "A")
	b := mustCreateDeck(t, s, &a, "B")

	// Corrupt the tree: point A back at its own child.
	_, err := gw.db.Exec("UPDATE deck SET parent_id = ? WHERE id = ?", b, a)
	require.NoError(t, err)

	_, err = s.GetAncestorChain(ctx, b)
	assert.ErrorIs(t, err, store.ErrCorruptHierarchy, "a cycle must surface as an error, never a hang")
}
