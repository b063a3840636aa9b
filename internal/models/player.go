// internal/models/player.go
package models

import "github.com/google/uuid"

// Player is one of the four seats in a Euchre match. ID is the player's user
// ID; DiscordID is the external chat identity used for mentions. Seat is the
// player's fixed position in the clockwise play order established at setup.
type Player struct {
	ID        uuid.UUID `json:"id"`
	DiscordID string    `json:"discord_id"`
	TeamID    uuid.UUID `json:"team_id"`
	Seat      int       `json:"seat"`
}
