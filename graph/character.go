package graph

import (
	"context"
	"math"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/pkg/errors"

	"github.com/nucleus/starwars-api/internal/loader"
	"github.com/nucleus/starwars-api/internal/starwars"
)

// characterFields resolves the fields shared by every Character.
type characterFields struct {
	r *Resolver
	c starwars.Character
}

func (f *characterFields) ID() graphql.ID {
	return graphql.ID(f.c.ID)
}

func (f *characterFields) Name() string {
	return f.c.Name
}

func (f *characterFields) Friends() []*characterResolver {
	friends := f.r.api.Friends(f.c)
	result := make([]*characterResolver, len(friends))
	for i, c := range friends {
		result[i] = f.r.character(c)
	}
	return result
}

func (f *characterFields) AppearsIn() []string {
	result := make([]string, len(f.c.AppearsIn))
	for i, ep := range f.c.AppearsIn {
		result[i] = ep.String()
	}
	return result
}

// characterResolver is the Character interface; it narrows to Human or Droid
// on the IsHuman discriminator.
type characterResolver struct {
	characterFields
}

func (r *Resolver) character(c starwars.Character) *characterResolver {
	return &characterResolver{characterFields{r: r, c: c}}
}

func (c *characterResolver) ToHuman() (*humanResolver, bool) {
	if !c.c.IsHuman {
		return nil, false
	}
	return c.r.human(c.c), true
}

func (c *characterResolver) ToDroid() (*droidResolver, bool) {
	if c.c.IsHuman {
		return nil, false
	}
	return c.r.droid(c.c), true
}

// =============================================================================
// HUMAN
// =============================================================================

type humanResolver struct {
	characterFields
}

func (r *Resolver) human(c starwars.Character) *humanResolver {
	return &humanResolver{characterFields{r: r, c: c}}
}

func (h *humanResolver) Mass() int32 {
	return int32(h.c.Mass)
}

func (h *humanResolver) HomePlanet() *planetResolver {
	p, ok := h.r.api.HomePlanet(h.c)
	if !ok {
		return nil
	}
	return &planetResolver{p}
}

func (h *humanResolver) Starship() *starshipResolver {
	s, ok := h.r.api.StarshipOf(h.c)
	if !ok {
		return nil
	}
	return &starshipResolver{s}
}

// Credits goes through the request's credits loader, so every credits field
// in one response is fetched in a single batch. A failed batch only nulls
// this field.
func (h *humanResolver) Credits(ctx context.Context) (*int32, error) {
	amount, err := loader.LoadCredits(ctx, h.c.ID)
	if err != nil {
		return nil, err
	}
	if amount == nil {
		return nil, nil
	}
	if *amount > math.MaxInt32 || *amount < math.MinInt32 {
		return nil, errors.Errorf("credits of %s do not fit in Int: %d", h.c.ID, *amount)
	}
	v := int32(*amount)
	return &v, nil
}

// =============================================================================
// DROID
// =============================================================================

type droidResolver struct {
	characterFields
}

func (r *Resolver) droid(c starwars.Character) *droidResolver {
	return &droidResolver{characterFields{r: r, c: c}}
}

func (d *droidResolver) PrimaryFunction() *string {
	return d.c.PrimaryFunction
}
