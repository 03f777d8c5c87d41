package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the recommendation core. Services wrap lower-level
// failures with these so callers can classify them with errors.Is.
var (
	// ErrEmptySeeds marks a request that arrived without any usable seed track URI.
	ErrEmptySeeds = errors.New("seed track list is empty or invalid")

	// ErrEmptyQueryText marks a blank playlist-name query. Embedding a blank
	// string is always a caller mistake, never an empty result.
	ErrEmptyQueryText = errors.New("playlist name query is empty")

	// ErrStoreUnavailable covers connection failures and timeouts against the
	// playlist store. It is surfaced per retrieval path, not retried here.
	ErrStoreUnavailable = errors.New("playlist store unavailable")

	// ErrEmbeddingFailure covers vectorizer/model errors for a query text.
	ErrEmbeddingFailure = errors.New("embedding failure")

	// ErrDimensionMismatch is fatal at index-build time: a computed vector
	// disagrees with the collection's declared dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// StoreFailure wraps a raw store error so it classifies as ErrStoreUnavailable.
func StoreFailure(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// EmbeddingFailure wraps a vectorizer error so it classifies as ErrEmbeddingFailure.
func EmbeddingFailure(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrEmbeddingFailure, err)
}

// DimensionMismatch reports the offending record position and both dimensions.
func DimensionMismatch(position, got, want int) error {
	return fmt.Errorf("%w: record %d has dimension %d, collection declares %d",
		ErrDimensionMismatch, position, got, want)
}

// BatchUploadError carries the half-open corpus range [Start, End) of a batch
// whose upload failed. It is logged and aggregated, never fatal to the build.
type BatchUploadError struct {
	Start int
	End   int
	Err   error
}

func (e *BatchUploadError) Error() string {
	return fmt.Sprintf("batch upload failed for records [%d, %d): %v", e.Start, e.End, e.Err)
}

func (e *BatchUploadError) Unwrap() error {
	return e.Err
}
