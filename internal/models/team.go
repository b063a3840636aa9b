// internal/models/team.go
package models

import "github.com/google/uuid"

// Team is one side of a Euchre match: exactly two players. TricksWon resets
// every round; Points accumulates across rounds. GoingAlone holds the ID of
// the player whose partner sits out the round, or uuid.Nil. The seat-skipping
// consequence of going alone is intentionally not modeled; the flag only
// feeds scoring.
type Team struct {
	ID         uuid.UUID `json:"id"`
	MatchID    uuid.UUID `json:"match_id"`
	TricksWon  int       `json:"tricks_won"`
	Points     int       `json:"points"`
	GoingAlone uuid.UUID `json:"going_alone"`
}
