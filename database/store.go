// Package database is the boundary to the document store holding every
// marketplace collection. Callers address records by collection name and
// equality filters only.
package database

import (
	"context"
	"errors"
	"fmt"
)

// Collection names.
const (
	CollectionAchievements   = "achievements"
	CollectionUserProgress   = "user_progress"
	CollectionUserProfiles   = "user_profiles"
	CollectionJobs           = "jobs"
	CollectionApplications   = "applications"
	CollectionOrders         = "orders"
	CollectionInteractions   = "interactions"
	CollectionRatingsReviews = "ratings_reviews"
)

// Filters are field = value equality constraints, ANDed together.
type Filters map[string]interface{}

// DocumentStore is implemented by GormStore and RemoteStore.
type DocumentStore interface {
	ListDocuments(ctx context.Context, collection string, filters Filters) ([]Document, error)
	CreateDocument(ctx context.Context, collection, id string, fields map[string]interface{}) (Document, error)
	UpdateDocument(ctx context.Context, collection, id string, fields map[string]interface{}) (Document, error)
	// Transaction runs fn against a store scoped to one unit of work. Stores
	// without multi-document transactions run fn against themselves.
	Transaction(ctx context.Context, fn func(tx DocumentStore) error) error
}

// ErrNotFound is wrapped by UpdateDocument when no record carries the id.
var ErrNotFound = errors.New("document not found")

// StoreError is the single failure class of the store: a read or write that
// did not go through (network, permission, malformed filter).
type StoreError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Collection: collection, Err: err}
}

// IsStoreError reports whether err came from the document store.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// First returns the first document matching filters, or nil when none does.
func First(ctx context.Context, s DocumentStore, collection string, filters Filters) (Document, error) {
	docs, err := s.ListDocuments(ctx, collection, filters)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}
