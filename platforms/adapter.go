package platforms

import (
	"context"
	"errors"
	"fmt"

	"codefolio/models"
)

// FetchErrorKind classifies why a platform fetch failed.
type FetchErrorKind string

const (
	ErrKindUnavailable  FetchErrorKind = "upstream_unavailable"
	ErrKindShape        FetchErrorKind = "upstream_shape_error"
	ErrKindVerification FetchErrorKind = "verification_failed"
)

// FetchError is the typed failure an adapter returns instead of stats. It
// names the platform and a human-readable cause so the dashboard can render
// a per-platform failure panel.
type FetchError struct {
	Platform models.Platform
	Kind     FetchErrorKind
	Cause    string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Platform, e.Kind, e.Cause)
}

func unavailable(p models.Platform, format string, args ...interface{}) *FetchError {
	return &FetchError{Platform: p, Kind: ErrKindUnavailable, Cause: fmt.Sprintf(format, args...)}
}

func shapeError(p models.Platform, format string, args ...interface{}) *FetchError {
	return &FetchError{Platform: p, Kind: ErrKindShape, Cause: fmt.Sprintf(format, args...)}
}

// AsFetchError coerces any adapter failure into a *FetchError so the
// aggregator never sees an unclassified error.
func AsFetchError(p models.Platform, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return unavailable(p, "%v", err)
}

// Adapter translates one upstream platform into the normalized stats shape.
// Implementations are stateless and safe for concurrent use; username must
// be non-empty (the aggregator never calls an adapter for an unlinked
// platform).
type Adapter interface {
	Platform() models.Platform

	// FetchStats returns a fully normalized record or a *FetchError.
	FetchStats(ctx context.Context, username string) (*models.PlatformStats, error)

	// Verify reports whether the username exists upstream. Purely advisory:
	// any failure reads as false, never as an error.
	Verify(ctx context.Context, username string) bool
}
