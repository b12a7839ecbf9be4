package circuitbreaker

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"

	"github.com/Nike1016/selfoss/internal/domain/entity"
	"github.com/Nike1016/selfoss/internal/repository"
)

// SourceRepository guards a repository.SourceRepository with a circuit
// breaker. Only storage failures count against the circuit; a missing row
// is a regular answer. While the circuit is open every call fails fast with
// a storage error.
type SourceRepository struct {
	cb   *CircuitBreaker
	next repository.SourceRepository
}

var _ repository.SourceRepository = (*SourceRepository)(nil)

// NewSourceRepository wraps next. cfg.IsSuccessful is replaced.
func NewSourceRepository(next repository.SourceRepository, cfg Config) *SourceRepository {
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || !errors.Is(err, entity.ErrStorage)
	}
	return &SourceRepository{cb: New(cfg), next: next}
}

// Breaker exposes the underlying circuit breaker for health reporting.
func (r *SourceRepository) Breaker() *CircuitBreaker { return r.cb }

func run[T any](r *SourceRepository, op string, fn func() (T, error)) (T, error) {
	out, err := r.cb.Execute(func() (any, error) { return fn() })
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		var zero T
		return zero, entity.NewStorageError(op, err)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}

func (r *SourceRepository) Get(ctx context.Context, id int64) (*entity.Source, error) {
	return run(r, "Get", func() (*entity.Source, error) { return r.next.Get(ctx, id) })
}

func (r *SourceRepository) List(ctx context.Context) ([]*entity.Source, error) {
	return run(r, "List", func() ([]*entity.Source, error) { return r.next.List(ctx) })
}

func (r *SourceRepository) Add(ctx context.Context, title, spout string, params entity.Params) (int64, error) {
	return run(r, "Add", func() (int64, error) { return r.next.Add(ctx, title, spout, params) })
}

func (r *SourceRepository) Edit(ctx context.Context, id int64, title, spout string, params entity.Params) error {
	_, err := run(r, "Edit", func() (struct{}, error) {
		return struct{}{}, r.next.Edit(ctx, id, title, spout, params)
	})
	return err
}

func (r *SourceRepository) Delete(ctx context.Context, id int64) error {
	_, err := run(r, "Delete", func() (struct{}, error) { return struct{}{}, r.next.Delete(ctx, id) })
	return err
}

func (r *SourceRepository) SetError(ctx context.Context, id int64, message string) error {
	_, err := run(r, "SetError", func() (struct{}, error) {
		return struct{}{}, r.next.SetError(ctx, id, message)
	})
	return err
}
