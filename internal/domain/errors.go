package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCatalogFormat is the sentinel matched by every CatalogFormatError
	ErrCatalogFormat = errors.New("unrecognized catalog format")

	// ErrCatalogNotLoaded is returned when scoring is attempted before a catalog snapshot exists
	ErrCatalogNotLoaded = errors.New("catalog not loaded")

	// ErrCatalogSourceFailure is returned when the catalog source cannot be read
	ErrCatalogSourceFailure = errors.New("catalog source request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)

// CatalogFormatError reports a catalog payload whose top-level shape is
// neither {"cards": [...]} nor a bare array.
type CatalogFormatError struct {
	Source string
	Reason string
}

func (e *CatalogFormatError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("catalog format error: %s", e.Reason)
	}
	return fmt.Sprintf("catalog format error (%s): %s", e.Source, e.Reason)
}

// Is lets errors.Is(err, ErrCatalogFormat) match any CatalogFormatError.
func (e *CatalogFormatError) Is(target error) bool {
	return target == ErrCatalogFormat
}
