// Package memory is an in-process implementation of the domain repositories.
// It backs STORE_DRIVER=memory and the service and handler tests.
package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
)

type tables struct {
	seq            map[string]int64
	users          map[int64]entity.User
	categories     map[int64]entity.Category
	products       map[int64]entity.Product
	carts          map[int64]entity.Cart
	cartItems      map[int64]entity.CartItem
	addresses      map[int64]entity.Address
	orders         map[int64]entity.Order
	orderItems     map[int64]entity.OrderItem
	payments       map[int64]entity.Payment
	promotions     map[int64]entity.Promotion
	blogPosts      map[int64]entity.BlogPost
	aboutPages     map[int64]entity.AboutPage
	analytics      map[int64]entity.Analytics
	refreshTokens  map[int64]entity.RefreshToken
	passwordResets map[int64]entity.PasswordResetToken
}

func newTables() *tables {
	return &tables{
		seq:            map[string]int64{},
		users:          map[int64]entity.User{},
		categories:     map[int64]entity.Category{},
		products:       map[int64]entity.Product{},
		carts:          map[int64]entity.Cart{},
		cartItems:      map[int64]entity.CartItem{},
		addresses:      map[int64]entity.Address{},
		orders:         map[int64]entity.Order{},
		orderItems:     map[int64]entity.OrderItem{},
		payments:       map[int64]entity.Payment{},
		promotions:     map[int64]entity.Promotion{},
		blogPosts:      map[int64]entity.BlogPost{},
		aboutPages:     map[int64]entity.AboutPage{},
		analytics:      map[int64]entity.Analytics{},
		refreshTokens:  map[int64]entity.RefreshToken{},
		passwordResets: map[int64]entity.PasswordResetToken{},
	}
}

// clone copies every table. Stored rows never share slices or maps with
// callers, so a shallow copy of each table is enough.
func (t *tables) clone() *tables {
	return &tables{
		seq:            maps.Clone(t.seq),
		users:          maps.Clone(t.users),
		categories:     maps.Clone(t.categories),
		products:       maps.Clone(t.products),
		carts:          maps.Clone(t.carts),
		cartItems:      maps.Clone(t.cartItems),
		addresses:      maps.Clone(t.addresses),
		orders:         maps.Clone(t.orders),
		orderItems:     maps.Clone(t.orderItems),
		payments:       maps.Clone(t.payments),
		promotions:     maps.Clone(t.promotions),
		blogPosts:      maps.Clone(t.blogPosts),
		aboutPages:     maps.Clone(t.aboutPages),
		analytics:      maps.Clone(t.analytics),
		refreshTokens:  maps.Clone(t.refreshTokens),
		passwordResets: maps.Clone(t.passwordResets),
	}
}

func (t *tables) next(table string) int64 {
	t.seq[table]++
	return t.seq[table]
}

// Store holds all tables behind a single mutex.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	t    *tables
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{t: newTables(), now: func() time.Time { return time.Now().UTC() }}
}

// read runs fn with the store locked.
func (s *Store) read(fn func(t *tables)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.t)
}

// write runs fn with the store locked. Outside a transaction it also waits
// for any running transaction, so a rollback cannot discard the write.
func (s *Store) write(ctx context.Context, fn func(t *tables, now time.Time) error) error {
	if ctx.Value(txKey{}) == nil {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.t, s.now())
}

type txKey struct{}

// TxManager serializes transactions and restores a snapshot of every table
// when fn fails. Writes outside a transaction wait until it ends.
type TxManager struct {
	s *Store
}

func NewTxManager(s *Store) *TxManager {
	return &TxManager{s: s}
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	var snapshot *tables
	m.s.read(func(t *tables) { snapshot = t.clone() })

	if err := fn(context.WithValue(ctx, txKey{}, struct{}{})); err != nil {
		m.s.mu.Lock()
		m.s.t = snapshot
		m.s.mu.Unlock()
		return err
	}
	return nil
}

var _ repository.TxManager = (*TxManager)(nil)

// sortKeys maps whitelisted sort keys onto comparators.
type sortKeys[T any] map[string]func(a, b T) int

// paginate sorts items by the requested key, or by def when the key is
// unknown, and cuts the requested page. id breaks ties.
func paginate[T any](items []T, page repository.PageRequest, keys sortKeys[T], def func(a, b T) int, id func(T) int64) repository.Page[T] {
	if c, ok := keys[page.Sort]; ok {
		slices.SortStableFunc(items, func(a, b T) int {
			r := c(a, b)
			if r == 0 {
				r = cmp.Compare(id(a), id(b))
			}
			if page.Desc {
				return -r
			}
			return r
		})
	} else {
		slices.SortStableFunc(items, def)
	}

	res := repository.Page[T]{Total: int64(len(items)), Items: make([]T, 0)}
	from := page.Offset()
	if page.Size <= 0 || from < 0 || from >= len(items) {
		return res
	}
	to := min(from+page.Size, len(items))
	res.Items = append(res.Items, items[from:to]...)
	return res
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}

func byID[T any](id func(T) int64) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(id(a), id(b)) }
}

func sortedValues[T any](m map[int64]T, keep func(T) bool) []T {
	ids := slices.Sorted(maps.Keys(m))
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if keep == nil || keep(m[id]) {
			out = append(out, m[id])
		}
	}
	return out
}

func timeDesc(a, b time.Time) int { return b.Compare(a) }
