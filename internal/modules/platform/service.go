package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Service defines platform business logic.
type Service interface {
	// CreatePlatform validates, persists and commits a platform, then makes one
	// best-effort attempt to propagate it. Only validation and persistence
	// failures are returned.
	CreatePlatform(ctx context.Context, req CreatePlatformRequest) (*CreateResult, error)

	// GetPlatform returns ErrNotFound when id does not exist.
	GetPlatform(ctx context.Context, id int) (*ReadModel, error)

	ListPlatforms(ctx context.Context) ([]ReadModel, error)
}

// CreateResult is the outcome of a successful create.
type CreateResult struct {
	Platform ReadModel
	// Location is the path the new platform can be fetched from.
	Location string
	// Propagation is informational; it never affects success.
	Propagation SendResult
}

type service struct {
	repo       Repository
	propagator Propagator
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewService creates a new platform service.
func NewService(repo Repository, propagator Propagator, logger *slog.Logger) Service {
	return &service{
		repo:       repo,
		propagator: propagator,
		logger:     logger,
		tracer:     otel.Tracer("github.com/georgemunganga/platform-service/internal/modules/platform"),
	}
}

// Location returns the read path for a platform id.
func Location(id int) string { return fmt.Sprintf("/platforms/%d", id) }

func validateCreate(req CreatePlatformRequest) error {
	var missing []string
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(req.Publisher) == "" {
		missing = append(missing, "publisher")
	}
	if strings.TrimSpace(req.Cost) == "" {
		missing = append(missing, "cost")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Reason: "required fields are missing"}
	}
	return nil
}

func (s *service) CreatePlatform(ctx context.Context, req CreatePlatformRequest) (*CreateResult, error) {
	ctx, span := s.tracer.Start(ctx, "platform.create")
	defer span.End()

	s.logger.InfoContext(ctx, "creating platform")

	if err := validateCreate(req); err != nil {
		span.SetStatus(codes.Error, "invalid input")
		return nil, err
	}

	p := ToEntity(req)
	if err := s.persist(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "platform persistence failed", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("platform.id", p.ID))

	rm := ToReadModel(p)

	// The write is already committed; the client going away must not abort
	// the propagation attempt.
	sent := s.propagator.Send(context.WithoutCancel(ctx), rm)
	span.SetAttributes(attribute.String("platform.propagation", sent.Outcome.String()))
	if sent.Outcome != OutcomeDelivered {
		s.logger.ErrorContext(ctx, "could not send platform synchronously",
			"platform_id", rm.ID,
			"outcome", sent.Outcome.String(),
			"status", sent.StatusCode,
			"error", sent.Err,
		)
	}

	return &CreateResult{Platform: rm, Location: Location(rm.ID), Propagation: sent}, nil
}

func (s *service) persist(ctx context.Context, p *Platform) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return persistenceErr("begin", err)
	}
	defer tx.Rollback()

	if err := tx.CreatePlatform(ctx, p); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return err
		}
		return persistenceErr("create", err)
	}
	if err := tx.Commit(); err != nil {
		return persistenceErr("commit", err)
	}
	return nil
}

func (s *service) GetPlatform(ctx context.Context, id int) (*ReadModel, error) {
	s.logger.InfoContext(ctx, "getting platform", "platform_id", id)
	p, err := s.repo.GetPlatformByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rm := ToReadModel(p)
	return &rm, nil
}

func (s *service) ListPlatforms(ctx context.Context) ([]ReadModel, error) {
	s.logger.InfoContext(ctx, "getting platforms")
	platforms, err := s.repo.ListPlatforms(ctx)
	if err != nil {
		return nil, err
	}
	return ToReadModels(platforms), nil
}
