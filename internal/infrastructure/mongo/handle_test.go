package mongo

import (
	"bytes"
	"context"
	"log"
	"testing"

	"github.com/sngm3741/restreviews/api/internal/restaurants/domain"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// lazyClient returns a client that never dials until an operation runs.
func lazyClient(t *testing.T) *mongo.Client {
	t.Helper()
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:27017"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
	})
	return client
}

func TestCollectionHandleBind(t *testing.T) {
	t.Run("unbound handle reports ErrNotBound", func(t *testing.T) {
		h := NewCollectionHandle("restaurants", nil)
		require.False(t, h.Bound())
		_, err := h.Collection()
		require.ErrorIs(t, err, domain.ErrNotBound)
	})

	t.Run("binds once and ignores later binds", func(t *testing.T) {
		client := lazyClient(t)
		h := NewCollectionHandle("restaurants", nil)

		h.Bind(client, "sample_restaurants")
		require.True(t, h.Bound())
		first, err := h.Collection()
		require.NoError(t, err)
		require.Equal(t, "sample_restaurants", first.Database().Name())
		require.Equal(t, "restaurants", first.Name())

		h.Bind(client, "other_db")
		h.Bind(nil, "")
		second, err := h.Collection()
		require.NoError(t, err)
		require.Same(t, first, second)
	})

	t.Run("failures are logged and leave the handle unbound", func(t *testing.T) {
		var buf bytes.Buffer
		h := NewCollectionHandle("restaurants", log.New(&buf, "", 0))

		h.Bind(nil, "sample_restaurants")
		require.False(t, h.Bound())
		require.Contains(t, buf.String(), "mongo client is nil")

		buf.Reset()
		h.Bind(lazyClient(t), "   ")
		require.False(t, h.Bound())
		require.Contains(t, buf.String(), "database namespace is not configured")
	})

	t.Run("blank collection name never binds", func(t *testing.T) {
		var buf bytes.Buffer
		h := NewCollectionHandle(" ", log.New(&buf, "", 0))
		h.Bind(lazyClient(t), "sample_restaurants")
		require.False(t, h.Bound())
		require.Contains(t, buf.String(), "collection name is not configured")
	})

	t.Run("bind collection keeps the first reference", func(t *testing.T) {
		client := lazyClient(t)
		h := NewCollectionHandle("restaurants", nil)
		first := client.Database("a").Collection("restaurants")
		h.BindCollection(first)
		h.BindCollection(client.Database("b").Collection("restaurants"))
		got, err := h.Collection()
		require.NoError(t, err)
		require.Same(t, first, got)
	})
}
