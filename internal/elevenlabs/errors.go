package elevenlabs

import (
	"errors"
	"fmt"
)

// ErrAuth indicates the API rejected the credential. It is fatal to the
// whole session: nothing is retried after it.
var ErrAuth = errors.New("invalid or missing API key")

// UpstreamError is a non-success response from the service that is not an
// authentication failure. For the history listing it is session-fatal;
// for a single audio download the caller recovers by skipping that item.
type UpstreamError struct {
	StatusCode int
	Status     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream HTTP %d: %s", e.StatusCode, e.Status)
}

// classifyStatus maps a non-2xx response status to the error taxonomy.
func classifyStatus(statusCode int, status string) error {
	switch statusCode {
	case 401, 403:
		return fmt.Errorf("%w (HTTP %d)", ErrAuth, statusCode)
	default:
		return &UpstreamError{StatusCode: statusCode, Status: status}
	}
}
