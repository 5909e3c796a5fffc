package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreInsertAndFindOne(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id, err := store.InsertOne(ctx, CollectionCustomers, Document{"name": "Barbearia Central", "phone": "11999999999"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := store.FindOne(ctx, CollectionCustomers, Filter{"_id": id})
	require.NoError(t, err)
	assert.Equal(t, "Barbearia Central", doc["name"])

	_, err = store.FindOne(ctx, CollectionCustomers, Filter{"name": "desconhecido"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreFindSortAndLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i, name := range []string{"carlos", "ana", "bruno"} {
		_, err := store.InsertOne(ctx, CollectionUsers, Document{"name": name, "visits": i})
		require.NoError(t, err)
	}

	docs, err := store.Find(ctx, CollectionUsers, Filter{}, &FindOptions{Sort: []Sort{{Field: "name"}}})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "ana", docs[0]["name"])
	assert.Equal(t, "carlos", docs[2]["name"])

	docs, err = store.Find(ctx, CollectionUsers, Filter{}, &FindOptions{Sort: []Sort{{Field: "visits", Desc: true}}, Limit: 2})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "bruno", docs[0]["name"])
}

func TestMemoryStoreUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.InsertOne(ctx, CollectionUsers, Document{"name": "joão", "phone": "111"})
	require.NoError(t, err)
	_, err = store.InsertOne(ctx, CollectionUsers, Document{"name": "joão", "phone": "222"})
	require.NoError(t, err)

	n, err := store.UpdateOne(ctx, CollectionUsers, Filter{"name": "joão"}, Update{"phone": "333"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = store.UpdateMany(ctx, CollectionUsers, Filter{"name": "joão"}, Update{"vip": true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = store.UpdateOne(ctx, CollectionUsers, Filter{"name": "maria"}, Update{"phone": "444"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, phone := range []string{"111", "222", "333"} {
		_, err := store.InsertOne(ctx, CollectionConversationHistory, Document{"phone": phone, "customer": "c1"})
		require.NoError(t, err)
	}

	n, err := store.DeleteOne(ctx, CollectionConversationHistory, Filter{"phone": "111"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = store.DeleteMany(ctx, CollectionConversationHistory, Filter{"customer": "c1"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	docs, err := store.Find(ctx, CollectionConversationHistory, Filter{}, nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMemoryStoreFindReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id, err := store.InsertOne(ctx, CollectionInstructions, Document{"text": "original"})
	require.NoError(t, err)

	doc, err := store.FindOne(ctx, CollectionInstructions, Filter{"_id": id})
	require.NoError(t, err)
	doc["text"] = "mutated"

	again, err := store.FindOne(ctx, CollectionInstructions, Filter{"_id": id})
	require.NoError(t, err)
	assert.Equal(t, "original", again["text"])
}
