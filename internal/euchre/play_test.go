// internal/euchre/play_test.go
package euchre

import (
	"testing"

	"github.com/engfrosh/euchre/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayTurnOrderError(t *testing.T) {
	m, _ := setupTestMatch(t)
	beginPlayPhase(m, models.Hearts)

	other := m.nextAfter(m.SelectorID)
	_, err := m.Play(other, "Ace of Hearts")
	assert.ErrorIs(t, err, ErrNotYourTurn)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindTurnOrder, rerr.Kind())
}

func TestPlayDuringSelection(t *testing.T) {
	m, _ := setupTestMatch(t)
	selector := m.SelectorID
	_, err := m.Play(selector, m.Hand(selector)[0].Name())
	assert.ErrorIs(t, err, ErrTrumpNotSelected)
}

func TestPlayUnknownCard(t *testing.T) {
	m, _ := setupTestMatch(t)
	beginPlayPhase(m, models.Hearts)
	_, err := m.Play(m.SelectorID, "Jack of Nothing")
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestLeftBowerFollowsTrump(t *testing.T) {
	m, _ := setupTestMatch(t)
	beginPlayPhase(m, models.Hearts)

	leader := m.Players[0]
	second := m.Players[1]
	lead := givePlayerCards(m, leader.ID, []deckSpec{{models.Hearts, 14}, {models.Clubs, 9}})
	hand := givePlayerCards(m, second.ID, []deckSpec{{models.Diamonds, models.JackRank}, {models.Diamonds, 9}})

	_, err := m.Play(leader.ID, lead[0].Name())
	require.NoError(t, err)

	// A plain Diamond does not satisfy following Hearts while the left bower
	// (an effective Heart) is in hand.
	_, err = m.Play(second.ID, hand[1].Name())
	assert.ErrorIs(t, err, ErrMustFollowSuit)
	assert.False(t, hand[1].Played, "rejected play must not mutate the card")

	// The Jack of Diamonds counts as trump and outranks the Ace of Hearts.
	ev, err := m.Play(second.ID, hand[0].Name())
	require.NoError(t, err)
	assert.Equal(t, EventCardPlayed, ev.Type)
	assert.Equal(t, hand[0].ID, m.Trick.HighestID)
}

func TestRightBowerBeatsLeftBower(t *testing.T) {
	m, _ := setupTestMatch(t)
	beginPlayPhase(m, models.Hearts)

	leader := m.Players[0]
	second := m.Players[1]
	lead := givePlayerCards(m, leader.ID, []deckSpec{{models.Diamonds, models.JackRank}, {models.Clubs, 9}})
	hand := givePlayerCards(m, second.ID, []deckSpec{{models.Hearts, models.JackRank}, {models.Clubs, 10}})

	_, err := m.Play(leader.ID, lead[0].Name())
	require.NoError(t, err)
	require.Equal(t, lead[0].ID, m.Trick.HighestID)

	_, err = m.Play(second.ID, hand[0].Name())
	require.NoError(t, err)
	assert.Equal(t, hand[0].ID, m.Trick.HighestID)
}

func TestOffSuitNeverWins(t *testing.T) {
	m, _ := setupTestMatch(t)
	beginPlayPhase(m, models.Hearts)

	leader := m.Players[0]
	second := m.Players[1]
	lead := givePlayerCards(m, leader.ID, []deckSpec{{models.Spades, 9}, {models.Clubs, 9}})
	hand := givePlayerCards(m, second.ID, []deckSpec{{models.Diamonds, 14}, {models.Diamonds, 13}})

	_, err := m.Play(leader.ID, lead[0].Name())
	require.NoError(t, err)

	// Ace of Diamonds is off-suit and not trump: the lead 9 stays highest.
	_, err = m.Play(second.ID, hand[0].Name())
	require.NoError(t, err)
	assert.Equal(t, lead[0].ID, m.Trick.HighestID)
}

// playTestTrick deals two cards per seat and plays one full trick: spades
// led, followed twice, trumped by seat 3. Returns the trick winner.
func playTestTrick(t *testing.T, m *Match) *models.Player {
	t.Helper()
	beginPlayPhase(m, models.Hearts)

	s0, s1, s2, s3 := m.Players[0], m.Players[1], m.Players[2], m.Players[3]
	c0 := givePlayerCards(m, s0.ID, []deckSpec{{models.Spades, 9}, {models.Clubs, 7}})
	c1 := givePlayerCards(m, s1.ID, []deckSpec{{models.Spades, 10}, {models.Clubs, 8}})
	c2 := givePlayerCards(m, s2.ID, []deckSpec{{models.Spades, 13}, {models.Clubs, 9}})
	c3 := givePlayerCards(m, s3.ID, []deckSpec{{models.Hearts, 7}, {models.Clubs, 10}})

	for i, play := range []struct {
		player *models.Player
		card   *models.Card
	}{{s0, c0[0]}, {s1, c1[0]}, {s2, c2[0]}, {s3, c3[0]}} {
		ev, err := m.Play(play.player.ID, play.card.Name())
		require.NoError(t, err, "play %d", i)
		if i < 3 {
			require.Equal(t, EventCardPlayed, ev.Type)
		}
	}
	return s3
}

func TestTrickResolution(t *testing.T) {
	m, _ := setupTestMatch(t)
	winner := playTestTrick(t, m)
	winTeam := m.teamOf(winner.ID)

	// The 7 of Hearts trumps the spade lead: seat 3's team takes the trick.
	assert.Equal(t, 1, winTeam.TricksWon)

	// Fresh empty trick, winner leads.
	assert.Equal(t, uuid.Nil, m.Trick.OpenerID)
	assert.Equal(t, uuid.Nil, m.Trick.HighestID)
	assert.Equal(t, winner.ID, m.SelectorID)
	assert.False(t, m.Trick.Selection)
}

func TestTrickWonEvent(t *testing.T) {
	m, _ := setupTestMatch(t)
	beginPlayPhase(m, models.Hearts)

	s0, s1, s2, s3 := m.Players[0], m.Players[1], m.Players[2], m.Players[3]
	c0 := givePlayerCards(m, s0.ID, []deckSpec{{models.Spades, 9}, {models.Clubs, 7}})
	c1 := givePlayerCards(m, s1.ID, []deckSpec{{models.Spades, 10}, {models.Clubs, 8}})
	c2 := givePlayerCards(m, s2.ID, []deckSpec{{models.Spades, 13}, {models.Clubs, 9}})
	c3 := givePlayerCards(m, s3.ID, []deckSpec{{models.Hearts, 7}, {models.Clubs, 10}})

	for _, play := range []struct {
		player *models.Player
		card   *models.Card
	}{{s0, c0[0]}, {s1, c1[0]}, {s2, c2[0]}} {
		_, err := m.Play(play.player.ID, play.card.Name())
		require.NoError(t, err)
	}

	ev, err := m.Play(s3.ID, c3[0].Name())
	require.NoError(t, err)
	assert.Equal(t, EventTrickWon, ev.Type)
	assert.Equal(t, m.teamOf(s3.ID).ID, ev.TeamID)
	assert.ElementsMatch(t, []string{s1.DiscordID, s3.DiscordID}, ev.TeamDiscordIDs)
	assert.Equal(t, s3.ID, ev.NextPlayerID)
}

func TestRoundFinishesAtWinningTrickCount(t *testing.T) {
	m, _ := setupTestMatch(t)
	oldDealer := m.DealerID
	oldNext := m.NextDealerID

	// Seat 3's team already has two tricks; this trick is their third.
	winTeam := m.teamOf(m.Players[3].ID)
	winTeam.TricksWon = 2
	loseTeam := m.teamOf(m.Players[0].ID)
	loseTeam.TricksWon = 1

	beginPlayPhase(m, models.Hearts)
	s0, s1, s2, s3 := m.Players[0], m.Players[1], m.Players[2], m.Players[3]
	c0 := givePlayerCards(m, s0.ID, []deckSpec{{models.Spades, 9}, {models.Clubs, 7}})
	c1 := givePlayerCards(m, s1.ID, []deckSpec{{models.Spades, 10}, {models.Clubs, 8}})
	c2 := givePlayerCards(m, s2.ID, []deckSpec{{models.Spades, 13}, {models.Clubs, 9}})
	c3 := givePlayerCards(m, s3.ID, []deckSpec{{models.Hearts, 7}, {models.Clubs, 10}})

	for _, play := range []struct {
		player *models.Player
		card   *models.Card
	}{{s0, c0[0]}, {s1, c1[0]}, {s2, c2[0]}} {
		_, err := m.Play(play.player.ID, play.card.Name())
		require.NoError(t, err)
	}
	ev, err := m.Play(s3.ID, c3[0].Name())
	require.NoError(t, err)

	require.Equal(t, EventRoundWon, ev.Type)
	assert.Equal(t, winTeam.ID, ev.TeamID)
	assert.Equal(t, 1, ev.Points)
	assert.Equal(t, 1, winTeam.Points)

	// Trick counters reset for both teams.
	assert.Equal(t, 0, winTeam.TricksWon)
	assert.Equal(t, 0, loseTeam.TricksWon)

	// Deal rotates by exactly one seat.
	assert.Equal(t, oldNext, m.DealerID)
	assert.Equal(t, m.nextAfter(oldNext), m.NextDealerID)
	assert.NotEqual(t, oldDealer, m.DealerID)
	assert.Equal(t, m.NextDealerID, m.SelectorID)
	assert.Equal(t, m.DealerID, ev.DealerID)

	// Fresh deal: remaining hands are discarded, everyone has five new
	// unplayed cards, and trump selection is open again.
	for _, p := range m.Players {
		assert.Len(t, m.Hand(p.ID), HandSize)
	}
	assert.True(t, m.Trick.Selection)
	assert.Equal(t, models.Suit(""), m.Trump)
	assert.Equal(t, uuid.Nil, m.DeclarerID)
	assert.NotEmpty(t, ev.TrumpCandidate)
	assert.Equal(t, m.card(m.Trick.OpenerID).Name(), ev.TrumpCandidate)
}

func TestFullRoundFromSelectionToScore(t *testing.T) {
	m, _ := setupTestMatch(t)

	// Accept the up-card immediately, then play tricks until the round ends.
	selector := m.SelectorID
	_, err := m.Accept(selector, m.Hand(selector)[0].Name())
	require.NoError(t, err)

	var rounds int
	for i := 0; i < 25 && rounds == 0; i++ {
		p := m.SelectorID
		hand := m.Hand(p)
		require.NotEmpty(t, hand)

		// Play the first legal card.
		var ev *Event
		var playErr error
		for _, c := range hand {
			ev, playErr = m.Play(p, c.Name())
			if playErr == nil {
				break
			}
			require.ErrorIs(t, playErr, ErrMustFollowSuit)
		}
		require.NoError(t, playErr)
		if ev.Type == EventRoundWon {
			rounds++
		}
	}
	require.Equal(t, 1, rounds, "round should finish within 25 plays")

	total := m.Teams[0].Points + m.Teams[1].Points
	assert.Equal(t, 1, total)
	assert.True(t, m.Trick.Selection, "new round starts in selection")
}
