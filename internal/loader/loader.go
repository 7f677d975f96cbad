// Package loader provides request scoped dataloaders. A fresh set of loaders
// is installed into every request context, so keys are deduplicated and
// cached for the lifetime of one request and never shared across requests.
package loader

import (
	"context"
	"net/http"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/pkg/errors"
)

// Context keys for loader data
type contextKey string

const (
	contextKeyLoaders contextKey = "loaders"
)

// ErrNoLoaders is returned when a request context carries no loaders.
var ErrNoLoaders = errors.New("request has no dataloaders installed")

// CreditsSource fetches credit balances for a batch of user ids. Ids without
// a balance are left out of the returned map.
type CreditsSource interface {
	CreditsByUserIDs(ctx context.Context, userIDs []string) (map[string]int64, error)
}

// BatchObserver is told about every dispatched credits batch.
type BatchObserver interface {
	ObserveCreditsBatch(size int, err error)
}

// Options tune batching.
type Options struct {
	// Wait is how long the loader collects keys before dispatching.
	Wait time.Duration
	// BatchCapacity caps the number of keys per batch.
	BatchCapacity int
	Observer      BatchObserver
}

// DefaultOptions are used by New for zero fields.
var DefaultOptions = Options{
	Wait:          2 * time.Millisecond,
	BatchCapacity: 100,
}

// Loaders holds the dataloaders of one request.
type Loaders struct {
	Credits *dataloader.Loader[string, *int64]
}

// New builds a fresh set of loaders backed by src.
func New(src CreditsSource, opts Options) *Loaders {
	if opts.Wait <= 0 {
		opts.Wait = DefaultOptions.Wait
	}
	if opts.BatchCapacity <= 0 {
		opts.BatchCapacity = DefaultOptions.BatchCapacity
	}

	return &Loaders{
		Credits: dataloader.NewBatchedLoader(
			creditsBatch(src, opts.Observer),
			dataloader.WithWait[string, *int64](opts.Wait),
			dataloader.WithBatchCapacity[string, *int64](opts.BatchCapacity),
		),
	}
}

func creditsBatch(src CreditsSource, obs BatchObserver) dataloader.BatchFunc[string, *int64] {
	return func(ctx context.Context, userIDs []string) []*dataloader.Result[*int64] {
		credits, err := src.CreditsByUserIDs(ctx, userIDs)
		if obs != nil {
			obs.ObserveCreditsBatch(len(userIDs), err)
		}

		results := make([]*dataloader.Result[*int64], len(userIDs))
		for i, id := range userIDs {
			if err != nil {
				results[i] = &dataloader.Result[*int64]{Error: err}
				continue
			}
			amount, ok := credits[id]
			if !ok {
				results[i] = &dataloader.Result[*int64]{}
				continue
			}
			results[i] = &dataloader.Result[*int64]{Data: &amount}
		}
		return results
	}
}

// WithLoaders returns a copy of ctx carrying l.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, contextKeyLoaders, l)
}

// FromContext extracts the loaders from a request context.
func FromContext(ctx context.Context) (*Loaders, bool) {
	l, ok := ctx.Value(contextKeyLoaders).(*Loaders)
	return l, ok && l != nil
}

// LoadCredits returns the balance of userID, or nil when the user has no
// credits row.
func LoadCredits(ctx context.Context, userID string) (*int64, error) {
	l, ok := FromContext(ctx)
	if !ok {
		return nil, ErrNoLoaders
	}
	return l.Credits.Load(ctx, userID)()
}

// Middleware installs a fresh set of loaders into every request.
func Middleware(src CreditsSource, opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLoaders(r.Context(), New(src, opts))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
