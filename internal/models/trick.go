// internal/models/trick.go
package models

import "github.com/google/uuid"

// Trick is the single active trick of a match. While Selection is true the
// match is in the trump-selection phase and OpenerID points at the turned-up
// trump candidate rather than a played card. Count is the number of
// consecutive passes during trump selection.
type Trick struct {
	ID        uuid.UUID `json:"id"`
	OpenerID  uuid.UUID `json:"opener_id"`
	HighestID uuid.UUID `json:"highest_id"`
	Selection bool      `json:"selection"`
	Count     int       `json:"count"`
}
