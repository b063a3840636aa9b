// internal/models/card.go
package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Suit is a single-letter card suit code.
type Suit string

const (
	Hearts   Suit = "H"
	Diamonds Suit = "D"
	Clubs    Suit = "C"
	Spades   Suit = "S"
)

// Suits lists every suit in deck-building order.
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// suitNames maps suit codes to display names.
var suitNames = map[Suit]string{
	Hearts:   "Hearts",
	Diamonds: "Diamonds",
	Clubs:    "Clubs",
	Spades:   "Spades",
}

// SameColor returns the other suit of the same color. For a trump suit this
// is the suit whose Jack is the left bower.
func (s Suit) SameColor() Suit {
	switch s {
	case Hearts:
		return Diamonds
	case Diamonds:
		return Hearts
	case Clubs:
		return Spades
	case Spades:
		return Clubs
	}
	return s
}

// Name returns the display name of the suit, e.g. "Hearts".
func (s Suit) Name() string {
	return suitNames[s]
}

// Euchre rank bounds. Jack is 11, Ace is high at 14.
const (
	MinRank  = 7
	JackRank = 11
	MaxRank  = 14
)

// rankNames maps face-card ranks to display names.
var rankNames = map[int]string{
	11: "Jack",
	12: "Queen",
	13: "King",
	14: "Ace",
}

// RankName returns the display name for a rank, e.g. "Jack" or "9".
func RankName(rank int) string {
	if n, ok := rankNames[rank]; ok {
		return n
	}
	return fmt.Sprintf("%d", rank)
}

// Card is a single Euchre card. PlayerID is uuid.Nil while the card is
// unowned (the turned-up trump candidate and the extra card start unowned).
// A played card stays attached to its owner but is excluded from the
// playable hand.
type Card struct {
	ID       uuid.UUID `json:"id"`
	Suit     Suit      `json:"suit"`
	Rank     int       `json:"rank"`
	PlayerID uuid.UUID `json:"player_id"`
	Played   bool      `json:"played"`
}

// Name returns the display name of the card, e.g. "Jack of Hearts".
func (c *Card) Name() string {
	return RankName(c.Rank) + " of " + c.Suit.Name()
}
