// Package dto holds the JSON request and response bodies of the HTTP API
// together with their mapping to and from domain entities.
package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// amounts are JSON numbers on the wire
	decimal.MarshalJSONWithoutQuotes = true
}

// Map converts a slice of entities into response values.
func Map[E any, R any](items []E, fn func(*E) R) []R {
	out := make([]R, 0, len(items))
	for i := range items {
		out = append(out, fn(&items[i]))
	}
	return out
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func timePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
