package uow

import (
	"errors"
	"fmt"
)

// Failure taxonomy for Commit. Callers classify with errors.Is; the
// underlying storage error is carried in the message only.
var (
	// ErrConflict is a lost optimistic-concurrency race: another writer
	// modified a version-tokened row between read and commit. The caller
	// must re-fetch and retry the whole business operation; the unit of
	// work never retries automatically.
	ErrConflict = errors.New("commit conflict: aggregate modified concurrently")

	// ErrInternal is an unexpected storage or serialization failure.
	// Surfaced to the caller opaquely and not retried automatically.
	ErrInternal = errors.New("internal commit failure")
)

// ErrCascadeOverflow means the domain-event cascade did not reach a fixed
// point within the round cap: a handler cycle, which is a programming
// error, not a retryable condition. It is Internal-class for callers.
var ErrCascadeOverflow = fmt.Errorf("%w: domain event cascade exceeded round limit", ErrInternal)
