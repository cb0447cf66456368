package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewConditionID generates a UUIDv7 condition identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewConditionID() ConditionID {
	return ConditionID(uuid.Must(uuid.NewV7()).String())
}

// ParseConditionID validates and converts a string to ConditionID.
// Rejects malformed UUIDs; seed records with short numeric ids bypass this
// and are stored verbatim.
func ParseConditionID(s string) (ConditionID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidConditionID, s, err)
	}
	return ConditionID(s), nil
}

// ConditionIDTime extracts the creation timestamp embedded in a UUIDv7 ID.
// Returns zero time for ids that are not UUIDs; caller should check IsZero().
func ConditionIDTime(id ConditionID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil || u.Version() != 7 {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
