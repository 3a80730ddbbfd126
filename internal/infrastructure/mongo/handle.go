package mongo

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/sngm3741/restreviews/api/internal/restaurants/domain"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionHandle holds a collection reference that is bound once during
// bootstrap and only read afterwards.
type CollectionHandle struct {
	name   string
	logger *log.Logger
	ref    atomic.Pointer[mongo.Collection]
}

// NewCollectionHandle returns an unbound handle for the named collection.
func NewCollectionHandle(name string, logger *log.Logger) *CollectionHandle {
	if logger == nil {
		logger = log.Default()
	}
	return &CollectionHandle{name: strings.TrimSpace(name), logger: logger}
}

// Bind resolves the collection from the given database. It is a no-op when the
// handle is already bound. Resolution failures are logged and leave the handle
// unbound; callers find out through ErrNotBound on their next operation.
func (h *CollectionHandle) Bind(client *mongo.Client, database string) {
	if h.Bound() {
		return
	}
	coll, err := resolveCollection(client, database, h.name)
	if err != nil {
		h.logger.Printf("unable to establish a collection handle for %q: %v", h.name, err)
		return
	}
	h.ref.CompareAndSwap(nil, coll)
}

// BindCollection binds an already resolved collection, with the same
// first-bind-wins semantics as Bind.
func (h *CollectionHandle) BindCollection(coll *mongo.Collection) {
	if coll == nil {
		h.logger.Printf("unable to establish a collection handle for %q: nil collection", h.name)
		return
	}
	h.ref.CompareAndSwap(nil, coll)
}

// Bound reports whether a collection reference is held.
func (h *CollectionHandle) Bound() bool {
	return h.ref.Load() != nil
}

// Name returns the configured collection name.
func (h *CollectionHandle) Name() string {
	return h.name
}

// Collection returns the bound collection or domain.ErrNotBound.
func (h *CollectionHandle) Collection() (*mongo.Collection, error) {
	coll := h.ref.Load()
	if coll == nil {
		return nil, domain.ErrNotBound
	}
	return coll, nil
}

func resolveCollection(client *mongo.Client, database, collection string) (*mongo.Collection, error) {
	if client == nil {
		return nil, errors.New("mongo client is nil")
	}
	database = strings.TrimSpace(database)
	if database == "" {
		return nil, errors.New("database namespace is not configured")
	}
	if collection == "" {
		return nil, errors.New("collection name is not configured")
	}
	return client.Database(database).Collection(collection), nil
}
