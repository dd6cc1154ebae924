package store

import (
	"context"
	"errors"

	"github.com/artfolio/internal/logging"
	"github.com/artfolio/internal/metrics"
	"go.uber.org/zap"
)

type instrumented struct {
	next   Store
	logger *zap.Logger
}

// Instrument wraps a store with operation counters and debug logging.
// Not-found results are counted as ok since they are an expected outcome.
func Instrument(next Store, logger *zap.Logger) Store {
	return &instrumented{next: next, logger: logging.OrNop(logger).Named("store")}
}

func (s *instrumented) observe(op, collection, id string, err error) {
	result := metrics.Result(err)
	if errors.Is(err, ErrNotFound) {
		result = "not_found"
	}
	metrics.StoreOps.WithLabelValues(collection, op, result).Inc()
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Warn("store operation failed",
			zap.String("op", op),
			zap.String("collection", collection),
			zap.String("id", id),
			zap.Error(err),
		)
	}
}

func (s *instrumented) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	id, err := s.next.Create(ctx, collection, fields)
	s.observe("create", collection, id, err)
	return id, err
}

func (s *instrumented) Get(ctx context.Context, collection, id string) (Record, error) {
	record, err := s.next.Get(ctx, collection, id)
	s.observe("get", collection, id, err)
	return record, err
}

func (s *instrumented) List(ctx context.Context, collection string, order ...Order) ([]Record, error) {
	records, err := s.next.List(ctx, collection, order...)
	s.observe("list", collection, "", err)
	return records, err
}

func (s *instrumented) Update(ctx context.Context, collection, id string, partial Fields) error {
	err := s.next.Update(ctx, collection, id, partial)
	s.observe("update", collection, id, err)
	return err
}

func (s *instrumented) Set(ctx context.Context, collection, id string, fields Fields) error {
	err := s.next.Set(ctx, collection, id, fields)
	s.observe("set", collection, id, err)
	return err
}

func (s *instrumented) Delete(ctx context.Context, collection, id string) error {
	err := s.next.Delete(ctx, collection, id)
	s.observe("delete", collection, id, err)
	return err
}
