// internal/euchre/play.go
package euchre

import (
	"github.com/engfrosh/euchre/internal/models"
	"github.com/google/uuid"
)

// Play plays the named card from the player's hand. The card must follow the
// opener's effective suit when the player is able to; the left bower counts
// as trump for both legality and ranking. When the fourth card closes the
// trick the owner of the highest card wins it for their team, and the round
// finishes immediately once a team has the winning trick count or every hand
// is exhausted. No mutation happens on any error path.
func (m *Match) Play(playerID uuid.UUID, cardName string) (*Event, error) {
	if m.SelectorID != playerID {
		return nil, ErrNotYourTurn
	}
	if m.Trick.Selection {
		return nil, ErrTrumpNotSelected
	}
	card := m.findHandCard(playerID, cardName)
	if card == nil {
		return nil, ErrCardNotFound
	}

	var opener *models.Card
	if m.Trick.OpenerID != uuid.Nil {
		opener = m.card(m.Trick.OpenerID)
		lead := m.effectiveSuit(opener)
		if m.effectiveSuit(card) != lead && m.canFollowSuit(playerID, lead) {
			return nil, ErrMustFollowSuit
		}
	}

	card.Played = true
	next := m.nextAfter(playerID)

	if opener == nil {
		// First card of the trick leads and is provisionally highest.
		m.Trick.OpenerID = card.ID
		m.Trick.HighestID = card.ID
		m.SelectorID = next
		return &Event{Type: EventCardPlayed, CardName: card.Name(), NextPlayerID: next}, nil
	}

	highest := m.card(m.Trick.HighestID)
	if m.beats(card, highest, opener) {
		m.Trick.HighestID = card.ID
		highest = card
	}

	if next != opener.PlayerID {
		m.SelectorID = next
		return &Event{Type: EventCardPlayed, CardName: card.Name(), NextPlayerID: next}, nil
	}

	// The play has come back around to the leader: the trick is complete.
	winTeam := m.teamOf(highest.PlayerID)
	winTeam.TricksWon++

	if winTeam.TricksWon >= m.Rules.WinningTrickCount || m.handsExhausted() {
		return m.finishRound(card.Name())
	}

	// Open a fresh trick with the winner leading.
	m.Trick.OpenerID = uuid.Nil
	m.Trick.HighestID = uuid.Nil
	m.Trick.Count = 0
	m.SelectorID = highest.PlayerID
	return &Event{
		Type:           EventTrickWon,
		CardName:       card.Name(),
		TeamID:         winTeam.ID,
		TeamDiscordIDs: m.teamDiscordIDs(winTeam.ID),
		NextPlayerID:   highest.PlayerID,
	}, nil
}

// handsExhausted reports whether no seated player holds an unplayed card.
func (m *Match) handsExhausted() bool {
	for _, p := range m.Players {
		for _, c := range m.Cards {
			if c.PlayerID == p.ID && !c.Played {
				return false
			}
		}
	}
	return true
}

// finishRound awards the round to the team with the most tricks, rotates the
// deal by one seat, and re-deals into a fresh selection phase. The award,
// reset, rotation, and re-deal happen in one transition so callers never
// observe a half-finished round.
func (m *Match) finishRound(playedName string) (*Event, error) {
	winTeam := m.Teams[0]
	if m.Teams[1].TricksWon > winTeam.TricksWon {
		winTeam = m.Teams[1]
	}

	pts := m.RoundValue
	if pts == 0 {
		pts = m.Rules.Points.Single
	}
	if winTeam.TricksWon >= HandSize {
		if winTeam.GoingAlone != uuid.Nil {
			pts = m.Rules.Points.LoneMarch
		} else {
			pts = m.Rules.Points.March
		}
	}
	winTeam.Points += pts

	ev := &Event{
		Type:           EventRoundWon,
		CardName:       playedName,
		TeamID:         winTeam.ID,
		TeamDiscordIDs: m.teamDiscordIDs(winTeam.ID),
		Points:         winTeam.Points,
	}

	for _, t := range m.Teams {
		t.TricksWon = 0
		t.GoingAlone = uuid.Nil
	}
	m.Trump = ""
	m.DeclarerID = uuid.Nil
	m.RoundValue = 0

	m.DealerID = m.NextDealerID
	m.NextDealerID = m.nextAfter(m.DealerID)
	m.SelectorID = m.NextDealerID

	m.deal()

	ev.DealerID = m.DealerID
	ev.NextPlayerID = m.SelectorID
	ev.TrumpCandidate = m.card(m.Trick.OpenerID).Name()
	return ev, nil
}
