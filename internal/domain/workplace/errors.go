package workplace

import "errors"

// Workplace domain errors
var (
	ErrLocationNotFound = errors.New("workplace location not found")
	ErrEmptyCache       = errors.New("workplace location cache is empty")
)
