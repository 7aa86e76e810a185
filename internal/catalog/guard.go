package catalog

import (
	"context"
	"errors"
	"net/http"

	"github.com/noah-isme/frozen-toko/internal/common"
	"github.com/noah-isme/frozen-toko/internal/resilience"
)

// GuardedSource fails fast while the breaker around next is open. Missing items do not
// count as failures.
type GuardedSource struct {
	next    Source
	breaker *resilience.Breaker
}

// NewGuardedSource wraps next with breaker.
func NewGuardedSource(next Source, breaker *resilience.Breaker) *GuardedSource {
	return &GuardedSource{next: next, breaker: breaker}
}

// ListItems implements Source.
func (g *GuardedSource) ListItems(ctx context.Context) ([]Item, error) {
	var items []Item
	err := g.breaker.Do(ctx, func() error {
		var err error
		items, err = g.next.ListItems(ctx)
		return err
	}, nil)
	return items, unavailable(err)
}

// GetItem implements Source.
func (g *GuardedSource) GetItem(ctx context.Context, id string) (Item, error) {
	var item Item
	err := g.breaker.Do(ctx, func() error {
		var err error
		item, err = g.next.GetItem(ctx, id)
		return err
	}, isNotFound)
	return item, unavailable(err)
}

func isNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func unavailable(err error) error {
	if errors.Is(err, resilience.ErrOpenCircuit) {
		return common.NewAppError(common.CodeUnavailable, "catalog temporarily unavailable", http.StatusServiceUnavailable, err)
	}
	return err
}
