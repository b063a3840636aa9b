package models

import "github.com/google/uuid"

type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	Username  string    `json:"username"`
	DiscordID string    `json:"discord_id"`

	IsStaff bool `json:"is_staff"`
	IsAdmin bool `json:"is_admin"`
}
