package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nucleus/starwars-api/internal/logging"
	"github.com/nucleus/starwars-api/internal/starwars"
)

// =============================================================================
// QUERY RESOLVERS
// =============================================================================

// Hero returns the hero of an episode, or the saga hero without one.
func (r *Resolver) Hero(args struct{ Episode *string }) (*characterResolver, error) {
	var episode *starwars.Episode
	if args.Episode != nil {
		ep, err := starwars.ParseEpisode(*args.Episode)
		if err != nil {
			return nil, err
		}
		episode = &ep
	}
	return r.character(r.api.Hero(episode)), nil
}

// Human returns a human by id, or null.
func (r *Resolver) Human(args struct{ ID graphql.ID }) *humanResolver {
	c, ok := r.api.Human(string(args.ID))
	if !ok {
		return nil
	}
	return r.human(c)
}

// Humans returns all humans.
func (r *Resolver) Humans() []*humanResolver {
	humans := r.api.Humans()
	result := make([]*humanResolver, len(humans))
	for i, c := range humans {
		result[i] = r.human(c)
	}
	return result
}

// Droid returns a droid by id, or null.
func (r *Resolver) Droid(args struct{ ID graphql.ID }) *droidResolver {
	c, ok := r.api.Droid(string(args.ID))
	if !ok {
		return nil
	}
	return r.droid(c)
}

// Droids returns all droids.
func (r *Resolver) Droids() []*droidResolver {
	droids := r.api.Droids()
	result := make([]*droidResolver, len(droids))
	for i, c := range droids {
		result[i] = r.droid(c)
	}
	return result
}

// Starship returns a starship by id, or null.
func (r *Resolver) Starship(args struct{ ID graphql.ID }) *starshipResolver {
	s, ok := r.api.Starship(string(args.ID))
	if !ok {
		return nil
	}
	return &starshipResolver{s}
}

// =============================================================================
// MUTATION RESOLVERS
// =============================================================================

type transactArgs struct {
	FromUserID string
	ToUserID   string
	Amount     int32
}

// Transact accepts a credit transfer. Transfers are not settled yet: the
// call validates its input and reports success without touching storage.
func (r *Resolver) Transact(ctx context.Context, args transactArgs) (bool, error) {
	if args.Amount < 0 {
		return false, errors.Errorf("amount must not be negative, got %d", args.Amount)
	}
	logging.FromContext(ctx).Debug("transact accepted",
		zap.String("from", args.FromUserID),
		zap.String("to", args.ToUserID),
		zap.Int32("amount", args.Amount),
	)
	return true, nil
}
