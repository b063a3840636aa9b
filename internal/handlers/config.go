// internal/handlers/config.go
package handlers

import (
	"os"
	"strings"
)

// Config carries the permission lists the command dispatcher is constructed
// with. It is passed in explicitly; nothing here is read from globals after
// startup.
type Config struct {
	// AdminDiscordIDs may run the privileged commands (start and end).
	AdminDiscordIDs []string

	// SuperadminDiscordIDs are admins that additionally may end matches they
	// are not seated in.
	SuperadminDiscordIDs []string
}

// ConfigFromEnv builds a Config from the comma-separated EUCHRE_ADMIN_IDS
// and EUCHRE_SUPERADMIN_IDS variables.
func ConfigFromEnv() Config {
	return Config{
		AdminDiscordIDs:      splitIDList(os.Getenv("EUCHRE_ADMIN_IDS")),
		SuperadminDiscordIDs: splitIDList(os.Getenv("EUCHRE_SUPERADMIN_IDS")),
	}
}

func splitIDList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// IsAdmin reports whether the Discord user may run privileged commands.
func (c Config) IsAdmin(discordID string) bool {
	return contains(c.AdminDiscordIDs, discordID) || c.IsSuperadmin(discordID)
}

// IsSuperadmin reports whether the Discord user holds the superadmin role.
func (c Config) IsSuperadmin(discordID string) bool {
	return contains(c.SuperadminDiscordIDs, discordID)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
