package uid

import "github.com/google/uuid"

// NewSessionID returns a random identifier for a host session.
func NewSessionID() string {
	return uuid.NewString()
}
