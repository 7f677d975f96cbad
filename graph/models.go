package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"github.com/nucleus/starwars-api/internal/logging"
	"github.com/nucleus/starwars-api/internal/starwars"
)

type starshipResolver struct {
	s starwars.Starship
}

func (s *starshipResolver) ID() graphql.ID {
	return graphql.ID(s.s.ID)
}

func (s *starshipResolver) Name() string {
	return s.s.Name
}

func (s *starshipResolver) Length() float64 {
	return s.s.Length
}

type planetResolver struct {
	p starwars.Planet
}

func (p *planetResolver) ID() graphql.ID {
	return graphql.ID(p.p.ID)
}

func (p *planetResolver) Name() string {
	return p.p.Name
}

func (p *planetResolver) Climate() string {
	return p.p.Climate
}

func (p *planetResolver) Diameter() int32 {
	return int32(p.p.Diameter)
}

func (p *planetResolver) Gravity() string {
	return p.p.Gravity
}

func (p *planetResolver) Population() float64 {
	return float64(p.p.Population)
}

func (p *planetResolver) RotationPeriod() int32 {
	return int32(p.p.RotationPeriod)
}

func (p *planetResolver) OrbitalPeriod() int32 {
	return int32(p.p.OrbitalPeriod)
}

// panicLogger reports resolver panics through zap instead of the standard
// library logger.
type panicLogger struct {
	fallback *zap.Logger
}

func (l panicLogger) LogPanic(ctx context.Context, value interface{}) {
	logger := logging.FromContext(ctx)
	if !logger.Core().Enabled(zap.ErrorLevel) {
		logger = l.fallback
	}
	logger.Error("graphql resolver panic", zap.Any("panic", value), zap.Stack("stack"))
}
