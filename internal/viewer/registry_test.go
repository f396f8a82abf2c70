package viewer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardshelf/showcase/internal/search"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	cat := testCatalog()
	create := func() *Controller { return NewController(cat, nil, nil, 1, testOptions()) }

	c1, created := r.GetOrCreate("session-a", create)
	assert.True(t, created)
	c2, created := r.GetOrCreate("session-a", create)
	assert.False(t, created)
	assert.Same(t, c1, c2)

	other, _ := r.GetOrCreate("session-b", create)
	assert.NotSame(t, c1, other)
	assert.Equal(t, 2, r.Len())

	got, ok := r.Get("session-b")
	require.True(t, ok)
	assert.Same(t, other, got)

	r.Remove("session-b")
	_, ok = r.Get("session-b")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_ReplaceClosesPrevious(t *testing.T) {
	r := NewRegistry()
	cat := testCatalog()

	old := NewController(cat, nil, nil, 1, testOptions())
	require.NoError(t, old.Load(context.Background()))
	r.Replace("s", old)
	_, err := old.OpenCard(search.CardKey{Kind: search.KindDeck, CollectionID: 7, Index: 0}, Gesture{})
	require.NoError(t, err)
	session := old.Tilt()

	r.Replace("s", NewController(cat, nil, nil, 2, testOptions()))
	assert.True(t, session.Closed())

	r.CloseAll()
	assert.Equal(t, 0, r.Len())
}
