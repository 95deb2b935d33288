package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrDeliveryTimeout = errors.New("delivery timed out")
	ErrUnauthorized    = errors.New("unauthorized")
)

// ThrottledError reports that the delivery channel rate-limited the sender and
// carries the wait the channel demanded before the next attempt.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("throttled, retry after %s", e.RetryAfter)
}

// AsThrottled unwraps err into a ThrottledError if one is present in its
// chain.
func AsThrottled(err error) (*ThrottledError, bool) {
	var te *ThrottledError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
