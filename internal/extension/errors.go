package extension

import "errors"

// Sentinel errors returned by extension functions. Parse failures are
// reported as *semver.ParseError instead.
var (
	// ErrArgument is returned for a missing argument or one of the wrong type.
	ErrArgument = errors.New("semver: invalid argument")
	// ErrDomain is returned when a numeric argument is out of range.
	ErrDomain = errors.New("semver: numeric argument out of range")
	// ErrInternal is returned when a cursor is used outside its contract.
	ErrInternal = errors.New("semver: internal error")
	// ErrConstraint is returned by the planner hook when a query does not
	// bind the requirement column of semver_requirements.
	ErrConstraint = errors.New("semver: semver_requirements needs an equality constraint on requirement")
)
