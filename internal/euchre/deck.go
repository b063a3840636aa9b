// internal/euchre/deck.go
package euchre

import (
	"github.com/engfrosh/euchre/internal/models"
	"github.com/google/uuid"
)

// HandSize is the number of cards dealt to each player per round.
const HandSize = 5

// deckSpec is a card identity before it is materialized with an ID and owner.
type deckSpec struct {
	suit models.Suit
	rank int
}

// buildDeck returns the 24-card Euchre deck: ranks 7 through Ace in each of
// the four suits.
func buildDeck() []deckSpec {
	deck := make([]deckSpec, 0, 24)
	for _, s := range models.Suits {
		for r := models.MinRank; r <= models.MaxRank; r++ {
			deck = append(deck, deckSpec{suit: s, rank: r})
		}
	}
	return deck
}

// deal replaces the match's cards with a fresh deal: five cards per player
// drawn uniformly without replacement, then the turned-up trump candidate and
// the extra card. Two deck cards are deliberately never dealt. The trick is
// reset to the selection phase with the up-card as its opener.
func (m *Match) deal() {
	deck := buildDeck()
	draw := func() deckSpec {
		i := m.rng.Intn(len(deck))
		spec := deck[i]
		deck = append(deck[:i], deck[i+1:]...)
		return spec
	}

	cards := make([]*models.Card, 0, 4*HandSize+2)
	for _, p := range m.Players {
		for i := 0; i < HandSize; i++ {
			spec := draw()
			cards = append(cards, &models.Card{
				ID:       uuid.New(),
				Suit:     spec.suit,
				Rank:     spec.rank,
				PlayerID: p.ID,
			})
		}
	}

	upSpec := draw()
	upcard := &models.Card{ID: uuid.New(), Suit: upSpec.suit, Rank: upSpec.rank}
	extraSpec := draw()
	extra := &models.Card{ID: uuid.New(), Suit: extraSpec.suit, Rank: extraSpec.rank}
	cards = append(cards, upcard, extra)

	m.Cards = cards
	m.ExtraCardID = extra.ID
	m.Trick.OpenerID = upcard.ID
	m.Trick.HighestID = uuid.Nil
	m.Trick.Selection = true
	m.Trick.Count = 0
}
