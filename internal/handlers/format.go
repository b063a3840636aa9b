// internal/handlers/format.go
package handlers

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/engfrosh/euchre/internal/euchre"
	"github.com/engfrosh/euchre/internal/models"
)

// All chat-facing message text lives here. The engine reports tagged events;
// this file turns them into Discord-flavored strings with <@id> mentions.

func mention(discordID string) string {
	return fmt.Sprintf("<@%s>", discordID)
}

func mentionAll(discordIDs []string) string {
	out := make([]string, len(discordIDs))
	for i, id := range discordIDs {
		out[i] = mention(id)
	}
	return strings.Join(out, " and ")
}

func mentionPlayer(m *euchre.Match, playerID uuid.UUID) string {
	for _, p := range m.Players {
		if p.ID == playerID {
			return mention(p.DiscordID)
		}
	}
	return "someone"
}

// FormatMatchStarted announces the teams, the dealer, and the turned-up card.
func FormatMatchStarted(m *euchre.Match) string {
	statuses := m.Status()
	var b strings.Builder
	fmt.Fprintf(&b, "A new game of Euchre has started! %s are playing against %s.\n",
		mentionAll(statuses[0].DiscordIDs), mentionAll(statuses[1].DiscordIDs))
	fmt.Fprintf(&b, "%s is the dealer.", mentionPlayer(m, m.DealerID))
	if up := m.UpCard(); up != nil {
		fmt.Fprintf(&b, " The %s has been turned up.", up.Name())
	}
	fmt.Fprintf(&b, "\n%s, accept or reject the trump candidate.", mentionPlayer(m, m.SelectorID))
	return b.String()
}

// FormatHand lists the player's unplayed cards, one per line.
func FormatHand(cards []*models.Card) string {
	if len(cards) == 0 {
		return "Your hand is empty."
	}
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.Name()
	}
	return "Your hand:\n" + strings.Join(names, "\n")
}

// FormatStatus reports both teams' tricks and points.
func FormatStatus(m *euchre.Match) string {
	var b strings.Builder
	b.WriteString("Current standings:\n")
	for _, st := range m.Status() {
		fmt.Fprintf(&b, "%s: %d trick(s) this round, %d point(s)\n",
			mentionAll(st.DiscordIDs), st.TricksWon, st.Points)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatMatchEnded announces the final standings when a game is closed.
func FormatMatchEnded(m *euchre.Match) string {
	winner := m.Teams[0]
	if m.Teams[1].Points > winner.Points {
		winner = m.Teams[1]
	}
	var members []string
	for _, p := range m.Players {
		if p.TeamID == winner.ID {
			members = append(members, p.DiscordID)
		}
	}
	return fmt.Sprintf("The game is over. %s win with %d point(s)!\n%s",
		mentionAll(members), winner.Points, FormatStatus(m))
}

// FormatEvent renders one engine outcome event as a public announcement.
func FormatEvent(m *euchre.Match, ev *euchre.Event) string {
	switch ev.Type {
	case euchre.EventTrumpSelected:
		var b strings.Builder
		fmt.Fprintf(&b, "Trump is %s!", ev.Trump.Name())
		if ev.GoingAlone {
			b.WriteString(" The accepting player is going alone.")
		}
		fmt.Fprintf(&b, "\n%s, lead the first trick.", mentionPlayer(m, ev.NextPlayerID))
		return b.String()

	case euchre.EventTrumpPassed:
		if ev.StuckDealer {
			return fmt.Sprintf(
				"Everyone has passed. %s, you must accept and name a card from your hand to set trump.",
				mentionPlayer(m, ev.NextPlayerID))
		}
		return fmt.Sprintf("Passed. %s, accept or reject the trump candidate.",
			mentionPlayer(m, ev.NextPlayerID))

	case euchre.EventCardPlayed:
		return fmt.Sprintf("%s was played. %s, you're up.",
			ev.CardName, mentionPlayer(m, ev.NextPlayerID))

	case euchre.EventTrickWon:
		return fmt.Sprintf("%s take the trick! %s leads the next trick.",
			mentionAll(ev.TeamDiscordIDs), mentionPlayer(m, ev.NextPlayerID))

	case euchre.EventRoundWon:
		var b strings.Builder
		fmt.Fprintf(&b, "%s win the round and now have %d point(s)!\n",
			mentionAll(ev.TeamDiscordIDs), ev.Points)
		fmt.Fprintf(&b, "%s is now dealing.", mentionPlayer(m, ev.DealerID))
		if ev.TrumpCandidate != "" {
			fmt.Fprintf(&b, " The %s has been turned up.", ev.TrumpCandidate)
		}
		fmt.Fprintf(&b, "\n%s, accept or reject the trump candidate.", mentionPlayer(m, ev.NextPlayerID))
		return b.String()
	}
	return ""
}
