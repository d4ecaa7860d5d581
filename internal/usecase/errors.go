package usecase

import "github.com/cockroachdb/errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrConfiguration aborts a settlement run before any data is read.
	ErrConfiguration = errors.New("invalid settlement configuration")
	// ErrPredictionProcessing marks a single prediction failure; the batch continues.
	ErrPredictionProcessing = errors.New("prediction processing failed")
	// ErrAggregation marks a failure while applying user totals or room leaderboards.
	ErrAggregation = errors.New("settlement aggregation failed")
)
