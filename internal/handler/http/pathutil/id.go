package pathutil

import (
	"errors"
	"strconv"
)

// ErrInvalidID is returned for path ids that are not positive integers.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses the value of an {id} route wildcard.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
