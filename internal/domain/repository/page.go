package repository

import "context"

// PageRequest is a zero-based page request. Sort is a whitelisted key that
// each repository maps onto its own columns; unknown keys fall back to the default order.
type PageRequest struct {
	Page int
	Size int
	Sort string
	Desc bool
}

func (p PageRequest) Offset() int { return p.Page * p.Size }

// Page is a slice of results plus the total row count for the query.
type Page[T any] struct {
	Items []T
	Total int64
}

// TxManager runs fn inside a transaction. Repository calls made with the ctx
// passed to fn join that transaction. Nested calls reuse the outer transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
