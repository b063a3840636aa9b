// internal/euchre/selection_test.go
package euchre

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptUpCardFirstTry(t *testing.T) {
	m, _ := setupTestMatch(t)
	selector := m.SelectorID
	upcard := m.card(m.Trick.OpenerID)
	handCard := m.Hand(selector)[0]

	ev, err := m.Accept(selector, handCard.Name())
	require.NoError(t, err)

	assert.Equal(t, EventTrumpSelected, ev.Type)
	assert.Equal(t, upcard.Suit, m.Trump)
	assert.Equal(t, upcard.Suit, ev.Trump)
	assert.False(t, m.Trick.Selection)
	assert.Equal(t, uuid.Nil, m.Trick.OpenerID)

	// Exchange: the up-card joins the acceptor's hand and the named card is
	// spent, so the hand stays at five.
	assert.Equal(t, selector, upcard.PlayerID)
	assert.True(t, handCard.Played)
	assert.Len(t, m.Hand(selector), HandSize)

	// The original first bidder leads the first trick.
	assert.Equal(t, m.NextDealerID, m.SelectorID)
	assert.Equal(t, m.NextDealerID, ev.NextPlayerID)

	// Acceptor's team is the declarer.
	assert.Equal(t, m.teamOf(selector).ID, m.DeclarerID)
}

func TestAcceptRequiresCardWhenExchanging(t *testing.T) {
	m, _ := setupTestMatch(t)
	_, err := m.Accept(m.SelectorID, "")
	assert.ErrorIs(t, err, ErrCardRequired)
	assert.True(t, m.Trick.Selection, "failed accept must not mutate state")

	_, err = m.Accept(m.SelectorID, "no such card")
	assert.ErrorIs(t, err, ErrCardNotFound)
	assert.True(t, m.Trick.Selection)
}

func TestAcceptWithoutExchangeRule(t *testing.T) {
	players := testPlayers()
	rules := DefaultRules()
	rules.ExchangeOnAccept = false
	m, err := NewMatch(players, rules, newTestRand())
	require.NoError(t, err)

	selector := m.SelectorID
	upcard := m.card(m.Trick.OpenerID)

	ev, err := m.Accept(selector, "")
	require.NoError(t, err)
	assert.Equal(t, EventTrumpSelected, ev.Type)
	assert.Equal(t, upcard.Suit, m.Trump)

	// Up-card is set aside, not taken into the hand.
	assert.Equal(t, uuid.Nil, upcard.PlayerID)
	assert.Len(t, m.Hand(selector), HandSize)
}

func TestRejectRotatesSelector(t *testing.T) {
	m, _ := setupTestMatch(t)
	first := m.SelectorID

	ev, err := m.Reject(first)
	require.NoError(t, err)
	assert.Equal(t, EventTrumpPassed, ev.Type)
	assert.False(t, ev.StuckDealer)
	assert.Equal(t, 1, m.Trick.Count)
	assert.Equal(t, m.nextAfter(first), m.SelectorID)
	assert.NotEqual(t, first, m.SelectorID)
}

func TestFourRejectsStickTheDealer(t *testing.T) {
	m, _ := setupTestMatch(t)

	var last *Event
	for i := 0; i < 4; i++ {
		ev, err := m.Reject(m.SelectorID)
		require.NoError(t, err)
		last = ev
	}
	assert.Equal(t, 4, m.Trick.Count)
	assert.True(t, last.StuckDealer)

	// Four passes bring the decision back to the original first bidder.
	assert.Equal(t, m.NextDealerID, m.SelectorID)

	// The fifth actor must nominate a hand card.
	selector := m.SelectorID
	_, err := m.Accept(selector, "")
	assert.ErrorIs(t, err, ErrCardRequired)

	nominee := m.Hand(selector)[0]
	extra := m.card(m.ExtraCardID)
	ev, err := m.Accept(selector, nominee.Name())
	require.NoError(t, err)

	assert.Equal(t, EventTrumpSelected, ev.Type)
	assert.Equal(t, nominee.Suit, m.Trump)
	assert.True(t, nominee.Played)
	// The extra card compensates the acceptor.
	assert.Equal(t, selector, extra.PlayerID)
	assert.Len(t, m.Hand(selector), HandSize)
	assert.False(t, m.Trick.Selection)
}

func TestAcceptGoingAlone(t *testing.T) {
	m, _ := setupTestMatch(t)

	// One pass moves the decision to the dealer's partner (seat 2).
	_, err := m.Reject(m.SelectorID)
	require.NoError(t, err)
	partner := m.Players[2]
	require.Equal(t, partner.ID, m.SelectorID)
	require.Equal(t, m.player(m.DealerID).TeamID, partner.TeamID)

	ev, err := m.Accept(partner.ID, m.Hand(partner.ID)[0].Name())
	require.NoError(t, err)
	assert.True(t, ev.GoingAlone)
	assert.Equal(t, partner.ID, m.teamOf(partner.ID).GoingAlone)
}

func TestAcceptByDealerNotAlone(t *testing.T) {
	m, _ := setupTestMatch(t)

	// Three passes bring the decision to the dealer (seat 0 is reached after
	// seats 1, 2, 3 have acted... seat order starts at next dealer).
	for m.SelectorID != m.DealerID {
		_, err := m.Reject(m.SelectorID)
		require.NoError(t, err)
	}
	ev, err := m.Accept(m.DealerID, m.Hand(m.DealerID)[0].Name())
	require.NoError(t, err)
	assert.False(t, ev.GoingAlone)
	assert.Equal(t, uuid.Nil, m.teamOf(m.DealerID).GoingAlone)
}

func TestSelectionTurnAndPhaseErrors(t *testing.T) {
	m, _ := setupTestMatch(t)

	// Only the selector may act.
	other := m.nextAfter(m.SelectorID)
	_, err := m.Reject(other)
	assert.ErrorIs(t, err, ErrNotYourTurn)
	_, err = m.Accept(other, "whatever")
	assert.ErrorIs(t, err, ErrNotYourTurn)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindTurnOrder, rerr.Kind())

	// After selection is over, accept/reject are phase errors.
	selector := m.SelectorID
	_, err = m.Accept(selector, m.Hand(selector)[0].Name())
	require.NoError(t, err)
	_, err = m.Reject(m.SelectorID)
	assert.ErrorIs(t, err, ErrSelectionOver)
	_, err = m.Accept(m.SelectorID, "whatever")
	assert.ErrorIs(t, err, ErrSelectionOver)
}
