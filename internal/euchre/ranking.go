// internal/euchre/ranking.go
package euchre

import (
	"github.com/engfrosh/euchre/internal/models"
	"github.com/google/uuid"
)

// isRightBower reports whether the card is the Jack of the trump suit, the
// highest card of the round.
func isRightBower(c *models.Card, trump models.Suit) bool {
	return c.Rank == models.JackRank && c.Suit == trump
}

// isLeftBower reports whether the card is the Jack of the suit sharing
// trump's color. It counts as a trump card, second only to the right bower.
func isLeftBower(c *models.Card, trump models.Suit) bool {
	return c.Rank == models.JackRank && c.Suit == trump.SameColor()
}

// isBower reports whether the card is either bower.
func isBower(c *models.Card, trump models.Suit) bool {
	return isRightBower(c, trump) || isLeftBower(c, trump)
}

// effectiveSuit returns the suit a card counts as for suit-following: the
// left bower belongs to the trump suit, not its printed suit.
func (m *Match) effectiveSuit(c *models.Card) models.Suit {
	if isLeftBower(c, m.Trump) {
		return m.Trump
	}
	return c.Suit
}

// canFollowSuit reports whether the player holds any unplayed card of the
// given effective suit.
func (m *Match) canFollowSuit(playerID uuid.UUID, suit models.Suit) bool {
	for _, c := range m.Cards {
		if c.PlayerID == playerID && !c.Played && m.effectiveSuit(c) == suit {
			return true
		}
	}
	return false
}

// beats reports whether card outranks the current highest card of the trick.
// Ranking: right bower > left bower > other trump by rank > lead suit by
// rank > everything else. Off-suit non-trump cards never win. The highest
// card is always lead suit or trump, so the lead-suit branch only needs a
// rank comparison once bowers and trump are excluded.
func (m *Match) beats(card, highest, opener *models.Card) bool {
	switch {
	case isRightBower(card, m.Trump):
		return true
	case isLeftBower(card, m.Trump):
		return !isBower(highest, m.Trump)
	case card.Suit == m.Trump:
		if isBower(highest, m.Trump) {
			return false
		}
		return highest.Suit != m.Trump || card.Rank > highest.Rank
	case m.effectiveSuit(card) == m.effectiveSuit(opener):
		return !isBower(highest, m.Trump) && highest.Suit != m.Trump && card.Rank > highest.Rank
	default:
		return false
	}
}
