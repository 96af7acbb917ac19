package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when an attempt to register a new
	// user fails because a user with the same email already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrNoUserWasFound is returned when a query expected to match at least
	// one user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrTokenNotFound is returned when no unexpired token row matches the
	// requested (token, purpose) pair. Consumed and expired tokens are
	// indistinguishable from tokens that never existed.
	ErrTokenNotFound = errors.New("token not found")

	// ErrNotFound is returned when a content entity (course, post, product,
	// discussion, message, payment) addressed by id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateMessage is returned when a message insert collides with an
	// existing row on the (text, sender, discussion, timestamp) natural key.
	ErrDuplicateMessage = errors.New("duplicate message")

	// ErrSlugAlreadyExists is returned when a course insert collides on the
	// unique slug column after the collision-avoidance suffix was applied.
	ErrSlugAlreadyExists = errors.New("slug already exists")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
