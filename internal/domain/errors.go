package domain

import (
	"errors"
	"fmt"
)

// Terminal request errors. The API boundary maps these to 404/422 responses;
// the core never retries on any of them.
var (
	ErrUnsupportedCountry      = errors.New("unsupported country")
	ErrUnsupportedMapType      = errors.New("unsupported or unknown map type")
	ErrUnrecognisedMapID       = errors.New("map ID is not recognised")
	ErrUnknownAlertArea        = errors.New("unknown alert area")
	ErrUnknownStation          = errors.New("unknown station")
	ErrUnknownStationAlertArea = errors.New("station has no assigned alerts area")

	// ErrInvalidSearchQuery is the match target for [InvalidSearchQueryError].
	ErrInvalidSearchQuery = errors.New("invalid search query")

	// ErrUpstreamFetch wraps provider fetch failures, including timeouts.
	// Retry and backoff belong to the external scheduler, not the core.
	ErrUpstreamFetch = errors.New("upstream fetch failed")
)

// InvalidSearchQueryError carries the reason a search query was rejected.
// It matches [ErrInvalidSearchQuery] via errors.Is.
type InvalidSearchQueryError struct {
	Reason string
}

func (e *InvalidSearchQueryError) Error() string {
	return fmt.Sprintf("invalid search query: %s", e.Reason)
}

func (e *InvalidSearchQueryError) Is(target error) bool {
	return target == ErrInvalidSearchQuery
}
