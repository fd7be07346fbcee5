package source

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCSV is returned when a directory holds no *.csv file.
	ErrNoCSV = errors.New("no csv file found")
	// ErrMissingCredentials is returned when a Kaggle download has no
	// username or key.
	ErrMissingCredentials = errors.New("kaggle credentials not set (KAGGLE_USERNAME, KAGGLE_KEY)")
	// ErrInvalidRef is returned for a malformed source reference.
	ErrInvalidRef = errors.New("invalid source reference")
)

// AcquireError reports a source that could not be resolved to a local file.
type AcquireError struct {
	Ref string
	Err error
}

func (e *AcquireError) Error() string {
	return fmt.Sprintf("acquire %s: %v", e.Ref, e.Err)
}

func (e *AcquireError) Unwrap() error {
	return e.Err
}

// StatusError is an unexpected HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}
