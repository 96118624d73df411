// internal/engine/errors.go
package engine

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	ErrCodeFetch  ErrorCode = "FETCH_ERROR"
	ErrCodeParse  ErrorCode = "PARSE_ERROR"
	ErrCodeExport ErrorCode = "EXPORT_ERROR"
)

// Sentinels for errors.Is. They match any Error with the same code.
var (
	ErrFetch  = &Error{Code: ErrCodeFetch}
	ErrParse  = &Error{Code: ErrCodeParse}
	ErrExport = &Error{Code: ErrCodeExport}

	ErrNoData = errors.New("no data to export")
)

// Error wraps scraping failures with the URL and an error code
type Error struct {
	Code       ErrorCode
	URL        string
	Message    string
	StatusCode int
	Underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := string(e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.URL != "" {
		msg += ": " + e.URL
	}
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Underlying != nil {
		msg += fmt.Sprintf(": %v", e.Underlying)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Is checks if the error matches the target
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// NewFetchError reports a network failure, timeout or non-2xx status for url
func NewFetchError(url string, status int, err error) *Error {
	return &Error{
		Code:       ErrCodeFetch,
		URL:        url,
		Message:    "request failed",
		StatusCode: status,
		Underlying: err,
	}
}

// NewParseError reports a response body that could not be parsed
func NewParseError(url string, err error) *Error {
	return &Error{
		Code:       ErrCodeParse,
		URL:        url,
		Message:    "failed to parse response",
		Underlying: err,
	}
}

// NewExportError reports an export that wrote nothing or failed mid-write
func NewExportError(path string, err error) *Error {
	return &Error{
		Code:       ErrCodeExport,
		URL:        path,
		Message:    "export failed",
		Underlying: err,
	}
}

// IsSiteError reports whether err is confined to a single site and should be
// skipped rather than abort a batch.
func IsSiteError(err error) bool {
	return errors.Is(err, ErrFetch) || errors.Is(err, ErrParse)
}
