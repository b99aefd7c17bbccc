package service

import (
	"context"

	"github.com/myblog-api/internal/repository"
	"github.com/myblog-api/internal/telemetry"
	"github.com/rs/zerolog"
)

// healthService is the concrete implementation of HealthService
type healthService struct {
	db    Pinger
	posts repository.PostRepository
	log   zerolog.Logger
}

func newHealthService(db Pinger, posts repository.PostRepository, log zerolog.Logger) *healthService {
	return &healthService{
		db:    db,
		posts: posts,
		log:   log.With().Str("service", "health").Logger(),
	}
}

// Check pings the database and runs a trivial query against the posts table.
// Detail holds the failure message when the check does not pass.
func (s *healthService) Check(ctx context.Context) HealthStatus {
	var err error
	ctx, span := telemetry.StartSpan(ctx, "HealthService.Check")
	defer func() { telemetry.EndSpan(span, err) }()

	if err = s.db.HealthCheck(ctx); err != nil {
		s.log.Error().Err(err).Msg("Database ping failed")
		return HealthStatus{Detail: err.Error()}
	}
	if _, err = s.posts.Exists(ctx); err != nil {
		s.log.Error().Err(err).Msg("Database query failed")
		return HealthStatus{Detail: err.Error()}
	}
	return HealthStatus{OK: true}
}
