package coach

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidKey           = errors.New("invalid niche key")
	ErrReservedKey          = errors.New("the custom niche key is reserved")
	ErrPresetNotFound       = errors.New("preset not found")
	ErrNicheContextNotFound = errors.New("niche context not found")
	ErrSessionNotFound      = errors.New("practice session not found")
	ErrInvalidMode          = errors.New("reset mode must be keep_niche or change_niche")
	ErrInvalidField         = errors.New("invalid clarifying field")
	ErrContentRejected      = errors.New("text rejected by content guidelines")
	ErrUsageCapped          = errors.New("daily free practice limit reached")
	ErrStoreUnavailable     = errors.New("store unavailable")
)

// storeErr marks a failed store call so callers can tell it apart from validation errors.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
