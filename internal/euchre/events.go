// internal/euchre/events.go
package euchre

import (
	"github.com/engfrosh/euchre/internal/models"
	"github.com/google/uuid"
)

// EventType tags the outcome of a successful state transition.
type EventType string

const (
	// EventTrumpSelected fires when accept succeeds: trump is fixed and play
	// begins with NextPlayerID leading the first trick.
	EventTrumpSelected EventType = "trump_selected"
	// EventTrumpPassed fires when reject succeeds and the decision moves to
	// the next seat.
	EventTrumpPassed EventType = "trump_passed"
	// EventCardPlayed fires for a card play that does not close the trick.
	EventCardPlayed EventType = "card_played"
	// EventTrickWon fires when the fourth card closes a trick but the round
	// continues; NextPlayerID is the trick winner, who leads next.
	EventTrickWon EventType = "trick_won"
	// EventRoundWon fires when a trick win also finishes the round: points
	// are awarded, the deal rotates, and a fresh selection phase begins.
	EventRoundWon EventType = "round_won"
)

// Event is the tagged result of a state transition, carrying everything the
// command layer needs to format chat messages without reaching back into the
// match. Fields are populated per type; zero values mean "not applicable".
type Event struct {
	Type EventType

	// NextPlayerID is the player whose action is expected next.
	NextPlayerID uuid.UUID

	// Trump and CardName describe the selection result (trump_selected) or
	// the card just played.
	Trump    models.Suit
	CardName string

	// GoingAlone is set when the accept marked the acceptor's team as
	// playing alone this round.
	GoingAlone bool

	// StuckDealer is set on trump_passed once all four players have passed
	// on the turned-up card; the next acceptor must nominate a hand card.
	StuckDealer bool

	// TeamID and TeamDiscordIDs identify the winning team for trick_won and
	// round_won.
	TeamID         uuid.UUID
	TeamDiscordIDs []string

	// Points is the winning team's cumulative score after a round_won.
	Points int

	// DealerID and TrumpCandidate describe the re-deal after round_won.
	DealerID       uuid.UUID
	TrumpCandidate string
}
