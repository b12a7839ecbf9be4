package config

import (
	"fmt"
	"time"
)

// ValidationError reports an environment variable whose value is unusable.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s=%q: %s", e.Field, e.Value, e.Message)
}

// CheckDuration returns a *ValidationError for field unless min <= d and,
// when max is non-zero, d <= max. A zero min still rejects non-positive d.
func CheckDuration(field string, d, min, max time.Duration) error {
	reject := func(msg string, args ...any) error {
		return &ValidationError{Field: field, Value: d.String(), Message: fmt.Sprintf(msg, args...)}
	}
	switch {
	case max != 0 && min > max:
		return reject("bounds out of order (%v > %v)", min, max)
	case d <= 0:
		return reject("must be positive")
	case d < min:
		return reject("below minimum %v", min)
	case max != 0 && d > max:
		return reject("above maximum %v", max)
	}
	return nil
}
