// Package docstore is the document store client used by every store
// package. It exposes the small set of operations the dashboard needs:
// keyed get/set/delete, generated-id inserts, partial updates, and
// equality-filtered, ordered queries over named collections.
//
// Two backends implement Store: Mongo for production and Memory for tests
// and the local demo mode.
package docstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get and Update when the document does not exist.
var ErrNotFound = errors.New("docstore: document not found")

// Filter is an equality condition on a document field.
type Filter struct {
	Field string
	Value any
}

// Eq is shorthand for Filter{Field: field, Value: value}.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// Order sorts query results by a field.
type Order struct {
	Field string
	Desc  bool
}

// Asc and Desc build orderings.
func Asc(field string) Order  { return Order{Field: field} }
func Desc(field string) Order { return Order{Field: field, Desc: true} }

// Query describes a filtered, ordered read over one collection.
type Query struct {
	Filters []Filter
	Order   []Order
}

// Where starts a query with the given filters.
func Where(filters ...Filter) Query {
	return Query{Filters: filters}
}

// OrderBy appends orderings to the query.
func (q Query) OrderBy(o ...Order) Query {
	q.Order = append(append([]Order(nil), q.Order...), o...)
	return q
}

// Store is the document store contract.
//
// Documents are Go structs with bson tags; the document id lives in the
// "_id" field and is always a string. out arguments are pointers to a
// struct (Get) or to a slice of structs (Query).
type Store interface {
	Get(ctx context.Context, coll, id string, out any) error
	Exists(ctx context.Context, coll, id string) (bool, error)
	// Set replaces (or creates) the document with the given id.
	Set(ctx context.Context, coll, id string, doc any) error
	// Add inserts doc under a newly generated id and returns it.
	Add(ctx context.Context, coll string, doc any) (string, error)
	// Update sets the given fields on an existing document.
	Update(ctx context.Context, coll, id string, fields map[string]any) error
	// Delete removes the document; deleting a missing document is not an error.
	Delete(ctx context.Context, coll, id string) error
	Query(ctx context.Context, coll string, q Query, out any) error
	Count(ctx context.Context, coll string, filters ...Filter) (int64, error)
	// Atomic runs fn so that its writes commit together when the backend
	// supports multi-document transactions, and sequentially otherwise.
	// fn must use the context it is given.
	Atomic(ctx context.Context, fn func(ctx context.Context) error) error
	Pinger
}

// Pinger reports whether the backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
