package driven

import "errors"

var (
	// ErrNotFound is matched by backend errors for missing resources.
	ErrNotFound = errors.New("resource not found")
	// ErrUnauthorized is matched by backend errors that reject the bearer token.
	ErrUnauthorized = errors.New("unauthorized")
)

// ErrorDetail returns the backend's human-readable message carried anywhere in
// err's chain, or "" when there is none.
func ErrorDetail(err error) string {
	var d interface{ ErrorDetail() string }
	if errors.As(err, &d) {
		return d.ErrorDetail()
	}
	return ""
}
