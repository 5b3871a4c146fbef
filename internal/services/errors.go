package services

import (
	"errors"
)

var (
	ErrSiteNotFound     = errors.New("site not found")
	ErrPolicyNotFound   = errors.New("bot policy not found")
	ErrOverrideNotFound = errors.New("override entry not found")
	ErrJobNotFound      = errors.New("recompute job not found")

	ErrInvalidPolicyMode   = errors.New("invalid policy mode")
	ErrInvalidThreshold    = errors.New("threshold score must be between 0 and 100")
	ErrInvalidOverrideList = errors.New("invalid override list")
	ErrInvalidMatchType    = errors.New("invalid match type")
	ErrInvalidMatchValue   = errors.New("invalid match value")
	ErrInvalidDateRange    = errors.New("start date must not be after end date")

	ErrRecomputeConflict = errors.New("a recompute job is already active for this site")
)

// IsValidation reports whether err belongs to the validation family, mapped
// to HTTP 400 at the API boundary.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidPolicyMode) ||
		errors.Is(err, ErrInvalidThreshold) ||
		errors.Is(err, ErrInvalidOverrideList) ||
		errors.Is(err, ErrInvalidMatchType) ||
		errors.Is(err, ErrInvalidMatchValue) ||
		errors.Is(err, ErrInvalidDateRange)
}

// IsNotFound reports whether err belongs to the not-found family, mapped to
// HTTP 404 at the API boundary.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSiteNotFound) ||
		errors.Is(err, ErrPolicyNotFound) ||
		errors.Is(err, ErrOverrideNotFound) ||
		errors.Is(err, ErrJobNotFound)
}
