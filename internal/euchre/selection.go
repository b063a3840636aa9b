// internal/euchre/selection.go
package euchre

import (
	"github.com/engfrosh/euchre/internal/models"
	"github.com/google/uuid"
)

// Accept fixes trump for the round. Before four passes the turned-up card's
// suit becomes trump; with the default exchange rule the up-card joins the
// acceptor's hand and the named hand card is discarded. After four passes
// ("stuck the dealer") the acceptor nominates one of their own cards as the
// trump-determining card and receives the extra card as compensation.
//
// The accepting player's team becomes the declarer. A player accepting on
// the dealer's team who is not the dealer goes alone: their team is flagged
// but no seat is skipped.
//
// On success the selection phase ends and the original first bidder (the
// next dealer) leads the first trick.
func (m *Match) Accept(playerID uuid.UUID, cardName string) (*Event, error) {
	if !m.Trick.Selection {
		return nil, ErrSelectionOver
	}
	if m.SelectorID != playerID {
		return nil, ErrNotYourTurn
	}

	stuck := m.Trick.Count >= 4
	needCard := stuck || m.Rules.ExchangeOnAccept

	var card *models.Card
	if needCard {
		if cardName == "" {
			return nil, ErrCardRequired
		}
		card = m.findHandCard(playerID, cardName)
		if card == nil {
			return nil, ErrCardNotFound
		}
	}

	team := m.teamOf(playerID)
	dealer := m.player(m.DealerID)
	goingAlone := team.ID == dealer.TeamID && playerID != m.DealerID

	ev := &Event{
		Type:         EventTrumpSelected,
		NextPlayerID: m.NextDealerID,
		GoingAlone:   goingAlone,
	}

	if stuck {
		// All four players passed on the up-card: the nominated card's suit
		// becomes trump, the card is spent, and the extra card joins the
		// acceptor's hand.
		m.Trump = card.Suit
		card.Played = true
		if extra := m.card(m.ExtraCardID); extra != nil {
			extra.PlayerID = playerID
		}
		ev.CardName = card.Name()
	} else {
		upcard := m.card(m.Trick.OpenerID)
		m.Trump = upcard.Suit
		ev.CardName = upcard.Name()
		if m.Rules.ExchangeOnAccept {
			upcard.PlayerID = playerID
			card.Played = true
		}
	}
	ev.Trump = m.Trump

	m.DeclarerID = team.ID
	if goingAlone {
		team.GoingAlone = playerID
	}
	m.RoundValue = m.Rules.Points.Single

	m.Trick.OpenerID = uuid.Nil
	m.Trick.Selection = false
	m.Trick.Count = 0
	m.SelectorID = m.NextDealerID
	return ev, nil
}

// Reject passes on the turned-up trump candidate and moves the decision to
// the next seat. After the fourth consecutive pass the next acceptor is
// routed into the pick-your-own-card branch of Accept; rejecting remains
// legal and simply keeps rotating.
func (m *Match) Reject(playerID uuid.UUID) (*Event, error) {
	if !m.Trick.Selection {
		return nil, ErrSelectionOver
	}
	if m.SelectorID != playerID {
		return nil, ErrNotYourTurn
	}

	m.Trick.Count++
	m.SelectorID = m.nextAfter(playerID)
	return &Event{
		Type:         EventTrumpPassed,
		NextPlayerID: m.SelectorID,
		StuckDealer:  m.Trick.Count >= 4,
	}, nil
}
