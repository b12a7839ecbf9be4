package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Nike1016/selfoss/internal/domain/entity"
	"github.com/Nike1016/selfoss/internal/domain/spout"
	"github.com/Nike1016/selfoss/internal/observability/logging"
	"github.com/Nike1016/selfoss/internal/observability/metrics"
	"github.com/Nike1016/selfoss/internal/observability/tracing"
	"github.com/Nike1016/selfoss/internal/repository"
)

// CreateInput represents the input parameters for creating a new source.
type CreateInput struct {
	Title  string
	Spout  string
	Params entity.Params
}

// UpdateInput replaces title, spout and params of an existing source.
type UpdateInput struct {
	ID     int64
	Title  string
	Spout  string
	Params entity.Params
}

// Service provides source management use cases.
// Writes are validated against the spout registry before they reach the repository.
type Service struct {
	Repo   repository.SourceRepository
	Spouts spout.Registry
}

func (s *Service) validator() *Validator {
	return &Validator{Spouts: s.Spouts}
}

// view attaches the spout descriptor; it is nil for spouts no longer registered.
func (s *Service) view(src *entity.Source) *entity.SourceView {
	desc, _ := s.Spouts.Resolve(src.Spout)
	return &entity.SourceView{Source: src, Descriptor: desc}
}

// List returns every source ordered by title, each with its spout descriptor.
func (s *Service) List(ctx context.Context) ([]*entity.SourceView, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "source.List")
	defer span.End()

	start := time.Now()
	sources, err := s.Repo.List(ctx)
	metrics.RecordDBQuery("list_sources", time.Since(start))
	if err != nil {
		return nil, fail(span, "list", fmt.Errorf("list sources: %w", err))
	}

	views := make([]*entity.SourceView, 0, len(sources))
	failing := 0
	for _, src := range sources {
		if src.HasError() {
			failing++
		}
		views = append(views, s.view(src))
	}
	metrics.UpdateSourceCounts(len(sources), failing)
	span.SetAttributes(attribute.Int("source.count", len(views)))
	metrics.RecordSourceOperation("list", metrics.ResultSuccess)
	return views, nil
}

// Get returns one source with its spout descriptor.
// Returns ErrSourceNotFound if the source does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.SourceView, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "source.Get",
		trace.WithAttributes(attribute.Int64("source.id", id)))
	defer span.End()

	if err := checkID(id); err != nil {
		return nil, fail(span, "get", err)
	}

	src, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fail(span, "get", fmt.Errorf("get source: %w", err))
	}
	if src == nil {
		return nil, fail(span, "get", ErrSourceNotFound)
	}
	metrics.RecordSourceOperation("get", metrics.ResultSuccess)
	return s.view(src), nil
}

// Validate checks a submission without storing anything.
func (s *Service) Validate(title, spoutName string, params entity.Params) entity.FieldErrors {
	return s.validator().Validate(title, spoutName, params)
}

// Create validates the input and stores a new source.
// Returns entity.FieldErrors when the input is rejected.
func (s *Service) Create(ctx context.Context, in CreateInput) (int64, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "source.Create",
		trace.WithAttributes(attribute.String("source.spout", in.Spout)))
	defer span.End()

	if errs := s.Validate(in.Title, in.Spout, in.Params); errs != nil {
		metrics.RecordValidationErrors(errs)
		return 0, fail(span, "create", errs)
	}

	start := time.Now()
	id, err := s.Repo.Add(ctx, in.Title, in.Spout, in.Params)
	metrics.RecordDBQuery("add_source", time.Since(start))
	if err != nil {
		return 0, fail(span, "create", fmt.Errorf("create source: %w", err))
	}

	span.SetAttributes(attribute.Int64("source.id", id))
	metrics.RecordSourceOperation("create", metrics.ResultSuccess)
	logging.FromContext(ctx).Info("source created",
		slog.Int64("id", id),
		slog.String("spout", in.Spout))
	return id, nil
}

// Update validates the input and overwrites title, spout and params.
// Returns ErrSourceNotFound if the source does not exist and
// entity.FieldErrors when the input is rejected.
func (s *Service) Update(ctx context.Context, in UpdateInput) error {
	ctx, span := tracing.GetTracer().Start(ctx, "source.Update",
		trace.WithAttributes(
			attribute.Int64("source.id", in.ID),
			attribute.String("source.spout", in.Spout)))
	defer span.End()

	if err := checkID(in.ID); err != nil {
		return fail(span, "update", err)
	}

	existing, err := s.Repo.Get(ctx, in.ID)
	if err != nil {
		return fail(span, "update", fmt.Errorf("get source: %w", err))
	}
	if existing == nil {
		return fail(span, "update", ErrSourceNotFound)
	}

	if errs := s.Validate(in.Title, in.Spout, in.Params); errs != nil {
		metrics.RecordValidationErrors(errs)
		return fail(span, "update", errs)
	}

	start := time.Now()
	err = s.Repo.Edit(ctx, in.ID, in.Title, in.Spout, in.Params)
	metrics.RecordDBQuery("edit_source", time.Since(start))
	if errors.Is(err, entity.ErrNotFound) {
		// Deleted between the lookup and the write.
		return fail(span, "update", ErrSourceNotFound)
	}
	if err != nil {
		return fail(span, "update", fmt.Errorf("update source: %w", err))
	}

	metrics.RecordSourceOperation("update", metrics.ResultSuccess)
	logging.FromContext(ctx).Info("source updated", slog.Int64("id", in.ID))
	return nil
}

// Delete removes a source and all of its items.
// Deleting a source that does not exist succeeds.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := tracing.GetTracer().Start(ctx, "source.Delete",
		trace.WithAttributes(attribute.Int64("source.id", id)))
	defer span.End()

	if err := checkID(id); err != nil {
		return fail(span, "delete", err)
	}

	start := time.Now()
	err := s.Repo.Delete(ctx, id)
	metrics.RecordDBQuery("delete_source", time.Since(start))
	if err != nil {
		return fail(span, "delete", fmt.Errorf("delete source: %w", err))
	}

	metrics.RecordSourceOperation("delete", metrics.ResultSuccess)
	logging.FromContext(ctx).Info("source deleted", slog.Int64("id", id))
	return nil
}

// SetError records the last fetch error of a source; an empty message clears it.
func (s *Service) SetError(ctx context.Context, id int64, message string) error {
	ctx, span := tracing.GetTracer().Start(ctx, "source.SetError",
		trace.WithAttributes(
			attribute.Int64("source.id", id),
			attribute.Bool("source.error.cleared", message == "")))
	defer span.End()

	if err := checkID(id); err != nil {
		return fail(span, "set_error", err)
	}

	if err := s.Repo.SetError(ctx, id, message); err != nil {
		return fail(span, "set_error", fmt.Errorf("set source error: %w", err))
	}
	metrics.RecordSourceOperation("set_error", metrics.ResultSuccess)
	return nil
}

func checkID(id int64) error {
	if id <= 0 {
		return &entity.ValidationError{Field: "id", Message: "must be positive"}
	}
	return nil
}

// fail records the outcome of a failed operation on the span and the
// operation counter, then returns err unchanged.
func fail(span trace.Span, operation string, err error) error {
	var fieldErrs entity.FieldErrors
	var valErr *entity.ValidationError
	switch {
	case errors.As(err, &fieldErrs), errors.As(err, &valErr):
		metrics.RecordSourceOperation(operation, metrics.ResultInvalid)
		span.SetAttributes(attribute.Bool("source.invalid", true))
	case errors.Is(err, ErrSourceNotFound):
		metrics.RecordSourceOperation(operation, metrics.ResultNotFound)
	default:
		metrics.RecordSourceOperation(operation, metrics.ResultError)
		span.RecordError(err)
		span.SetStatus(codes.Error, operation+" failed")
	}
	return err
}
