// Package graph provides the GraphQL schema and resolvers for the starwars-api.
package graph

import (
	_ "embed"

	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"github.com/nucleus/starwars-api/internal/starwars"
)

//go:embed schema.graphql
var schemaSDL string

// SDL returns the schema definition served by the API.
func SDL() string {
	return schemaSDL
}

// Resolver is the root resolver for GraphQL queries and mutations.
type Resolver struct {
	api    *starwars.API
	logger *zap.Logger
}

// NewResolver creates a new resolver with the given dependencies.
func NewResolver(api *starwars.API, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		api:    api,
		logger: logger,
	}
}

// NewSchema parses the schema and binds it to r.
func NewSchema(r *Resolver, opts ...graphql.SchemaOpt) (*graphql.Schema, error) {
	opts = append([]graphql.SchemaOpt{graphql.Logger(panicLogger{r.logger})}, opts...)
	return graphql.ParseSchema(schemaSDL, r, opts...)
}
