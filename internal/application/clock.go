package application

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time. Every staleness and expiry window is
// measured against it so tests can pin "now".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// IDGenerator returns a new unique record identifier.
type IDGenerator func() string

// NewUUID is the production IDGenerator.
func NewUUID() string {
	return uuid.NewString()
}
