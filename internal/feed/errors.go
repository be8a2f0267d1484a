package feed

import "fmt"

// FetchError is returned when the feed cannot be retrieved: a transport failure or a
// non-success HTTP status.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching station feed %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetching station feed %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func NewFetchError(url string, statusCode int, err error) *FetchError {
	return &FetchError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// FormatError is returned when the feed body is not a feature collection.
type FormatError struct {
	Message string
	Err     error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed station feed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("malformed station feed: %s", e.Message)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func NewFormatError(message string, err error) *FormatError {
	return &FormatError{
		Message: message,
		Err:     err,
	}
}
