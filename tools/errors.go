package tools

import (
	"errors"
	"fmt"
)

// ErrInvalidQuery indicates a query rejected by local validation. No quota
// was spent and nothing reached the upstream.
var ErrInvalidQuery = errors.New("tools: invalid query")

// invalid builds a validation error naming the offending parameter.
func invalid(param, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidQuery, param, reason)
}
