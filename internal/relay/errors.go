package relay

import (
	"errors"

	"github.com/mattjoyce/chirpgw/internal/workspace"
)

// IsFatal reports whether err should abort the relay loop. Only a rejected
// client-credentials exchange qualifies; the service is unusable without
// valid application credentials.
func IsFatal(err error) bool {
	return errors.Is(err, workspace.ErrAuthRejected)
}
