// internal/euchre/game.go
package euchre

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/engfrosh/euchre/internal/models"
	"github.com/google/uuid"
)

// Match holds the entire state of one Euchre game: four players in seating
// order, two teams, the live cards of the current deal, and the single
// active trick. All state transitions are synchronous and perform no I/O;
// the surrounding dispatcher is responsible for loading the aggregate,
// serializing calls per match, and persisting the result.
type Match struct {
	ID uuid.UUID

	Rules Rules

	// Players is the fixed clockwise seating order established at setup:
	// dealer, next dealer, dealer's partner, next dealer's partner. The
	// order never changes for the lifetime of the match.
	Players []*models.Player
	Teams   [2]*models.Team

	// Cards holds every live card of the current deal: the four hands, the
	// turned-up trump candidate, and the extra card. Replaced wholesale on
	// each re-deal.
	Cards []*models.Card
	Trick *models.Trick

	DealerID     uuid.UUID
	NextDealerID uuid.UUID
	// SelectorID is the player whose action is currently expected, for both
	// the trump decision and card play.
	SelectorID  uuid.UUID
	ExtraCardID uuid.UUID

	// Trump is empty until a round's trump is chosen. DeclarerID is the team
	// that called it.
	Trump      models.Suit
	DeclarerID uuid.UUID

	// RoundValue is the base value of the current round, set when trump is
	// selected and upgraded to a march value at round end if earned.
	RoundValue int

	rng *rand.Rand
}

// NewMatch creates a match from four distinct players, randomly partitions
// them into two teams, and deals the first hand. The first player assigned
// to team one is the dealer; the first remaining player becomes the next
// dealer and acts first in trump selection. The rand source drives both the
// partition and the deal so a seeded source makes setup deterministic.
func NewMatch(players []*models.Player, rules Rules, rng *rand.Rand) (*Match, error) {
	if len(players) != 4 {
		return nil, ErrWrongPlayerCount
	}
	seen := map[uuid.UUID]bool{}
	for _, p := range players {
		if seen[p.ID] {
			return nil, ErrDuplicatePlayers
		}
		seen[p.ID] = true
	}

	m := &Match{
		ID:    uuid.New(),
		Rules: rules,
		rng:   rng,
	}
	m.Teams[0] = &models.Team{ID: uuid.New(), MatchID: m.ID}
	m.Teams[1] = &models.Team{ID: uuid.New(), MatchID: m.ID}

	// Random 2/2 partition: draw seats for team one without replacement,
	// the remaining two players keep their input order on team two.
	for _, p := range players {
		p.TeamID = uuid.Nil
	}
	var teamOne []*models.Player
	for len(teamOne) < 2 {
		p := players[rng.Intn(len(players))]
		if p.TeamID == uuid.Nil {
			p.TeamID = m.Teams[0].ID
			teamOne = append(teamOne, p)
		}
	}
	var teamTwo []*models.Player
	for _, p := range players {
		if p.TeamID == uuid.Nil {
			p.TeamID = m.Teams[1].ID
			teamTwo = append(teamTwo, p)
		}
	}

	m.DealerID = teamOne[0].ID
	m.NextDealerID = teamTwo[0].ID
	m.SelectorID = m.NextDealerID

	// Seating alternates teams so partners sit across from each other.
	m.Players = []*models.Player{teamOne[0], teamTwo[0], teamOne[1], teamTwo[1]}
	for i, p := range m.Players {
		p.Seat = i
	}

	m.Trick = &models.Trick{ID: uuid.New()}
	m.deal()
	return m, nil
}

// SetRand attaches a rand source to a match loaded from storage. Must be
// called before any transition that re-deals.
func (m *Match) SetRand(rng *rand.Rand) {
	m.rng = rng
}

// card returns the live card with the given ID, or nil.
func (m *Match) card(id uuid.UUID) *models.Card {
	for _, c := range m.Cards {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// player returns the seated player with the given ID, or nil.
func (m *Match) player(id uuid.UUID) *models.Player {
	for _, p := range m.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// team returns the team with the given ID, or nil.
func (m *Match) team(id uuid.UUID) *models.Team {
	for _, t := range m.Teams {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// teamOf returns the team the given player belongs to.
func (m *Match) teamOf(playerID uuid.UUID) *models.Team {
	p := m.player(playerID)
	if p == nil {
		return nil
	}
	return m.team(p.TeamID)
}

// nextAfter rotates clockwise through the fixed seating order.
func (m *Match) nextAfter(playerID uuid.UUID) uuid.UUID {
	for i, p := range m.Players {
		if p.ID == playerID {
			return m.Players[(i+1)%len(m.Players)].ID
		}
	}
	return uuid.Nil
}

// teamDiscordIDs lists the chat identities of a team's members in seat order.
func (m *Match) teamDiscordIDs(teamID uuid.UUID) []string {
	var out []string
	for _, p := range m.Players {
		if p.TeamID == teamID {
			out = append(out, p.DiscordID)
		}
	}
	return out
}

// Hand returns the player's unplayed cards sorted by suit then rank.
func (m *Match) Hand(playerID uuid.UUID) []*models.Card {
	var hand []*models.Card
	for _, c := range m.Cards {
		if c.PlayerID == playerID && !c.Played {
			hand = append(hand, c)
		}
	}
	sort.Slice(hand, func(i, j int) bool {
		if hand[i].Suit != hand[j].Suit {
			return hand[i].Suit < hand[j].Suit
		}
		return hand[i].Rank < hand[j].Rank
	})
	return hand
}

// findHandCard resolves a card by display name within the player's unplayed
// hand, matching case-insensitively.
func (m *Match) findHandCard(playerID uuid.UUID, name string) *models.Card {
	for _, c := range m.Cards {
		if c.PlayerID == playerID && !c.Played && strings.EqualFold(c.Name(), name) {
			return c
		}
	}
	return nil
}

// UpCard returns the turned-up trump candidate while selection is open, or
// nil once trump has been decided.
func (m *Match) UpCard() *models.Card {
	if !m.Trick.Selection || m.Trick.OpenerID == uuid.Nil {
		return nil
	}
	return m.card(m.Trick.OpenerID)
}

// TeamStatus is a read-only snapshot of one team's standing.
type TeamStatus struct {
	TeamID     uuid.UUID `json:"team_id"`
	DiscordIDs []string  `json:"discord_ids"`
	TricksWon  int       `json:"tricks_won"`
	Points     int       `json:"points"`
}

// Status reports both teams' members, tricks won this round, and cumulative
// points. It never mutates the match.
func (m *Match) Status() []TeamStatus {
	out := make([]TeamStatus, 0, 2)
	for _, t := range m.Teams {
		out = append(out, TeamStatus{
			TeamID:     t.ID,
			DiscordIDs: m.teamDiscordIDs(t.ID),
			TricksWon:  t.TricksWon,
			Points:     t.Points,
		})
	}
	return out
}
