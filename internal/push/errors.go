package push

import (
	"errors"
	"fmt"
	"net/http"

	"firebase.google.com/go/v4/messaging"
)

// ErrChannelDisabled is returned by a channel whose credentials were never
// configured. The dispatcher logs and skips; it is not a token failure.
var ErrChannelDisabled = errors.New("push channel disabled")

// StatusError carries the provider HTTP status of a failed delivery so the
// dispatcher can tell permanent rejections from transient ones.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("push provider returned status %d", e.StatusCode)
}

// IsPermanent reports whether err means the token will never accept
// deliveries again: HTTP 404/410 from the provider, or an FCM
// unregistered-token error. Permanent errors trigger token deletion.
func IsPermanent(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusNotFound || statusErr.StatusCode == http.StatusGone
	}
	return messaging.IsUnregistered(err)
}
