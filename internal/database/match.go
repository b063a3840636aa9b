// internal/database/match.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/engfrosh/euchre/internal/euchre"
	"github.com/engfrosh/euchre/internal/models"
)

// The match aggregate spans five tables: matches, match_teams, match_players,
// match_cards, and match_tricks. Loads and saves always move the whole
// aggregate in a single transaction; there is no partial or lazy access.

// CreateMatch inserts a freshly set-up match and all of its children.
func CreateMatch(ctx context.Context, m *euchre.Match) error {
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
		INSERT INTO matches (id, trump, dealer_id, next_dealer_id, selector_id,
		                     declarer_id, extra_card_id, round_value,
		                     exchange_on_accept, winning_trick_count,
		                     points_single, points_march, points_lone_march)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
		if _, err := tx.Exec(ctx, q,
			m.ID, string(m.Trump), m.DealerID, m.NextDealerID, m.SelectorID,
			m.DeclarerID, m.ExtraCardID, m.RoundValue,
			m.Rules.ExchangeOnAccept, m.Rules.WinningTrickCount,
			m.Rules.Points.Single, m.Rules.Points.March, m.Rules.Points.LoneMarch,
		); err != nil {
			return err
		}

		for i, t := range m.Teams {
			q := `INSERT INTO match_teams (id, match_id, idx, tricks_won, points, going_alone)
			      VALUES ($1,$2,$3,$4,$5,$6)`
			if _, err := tx.Exec(ctx, q, t.ID, m.ID, i, t.TricksWon, t.Points, t.GoingAlone); err != nil {
				return err
			}
		}

		for _, p := range m.Players {
			q := `INSERT INTO match_players (id, match_id, discord_id, team_id, seat)
			      VALUES ($1,$2,$3,$4,$5)`
			if _, err := tx.Exec(ctx, q, p.ID, m.ID, p.DiscordID, p.TeamID, p.Seat); err != nil {
				return err
			}
		}

		if err := insertCards(ctx, tx, m); err != nil {
			return err
		}

		q = `INSERT INTO match_tricks (id, match_id, opener_id, highest_id, selection, count)
		     VALUES ($1,$2,$3,$4,$5,$6)`
		_, err := tx.Exec(ctx, q,
			m.Trick.ID, m.ID, m.Trick.OpenerID, m.Trick.HighestID, m.Trick.Selection, m.Trick.Count)
		return err
	})
	if err != nil {
		return fmt.Errorf("create match %v: %w", m.ID, err)
	}
	return nil
}

// LoadMatch reads the whole aggregate in one transaction: the match row, both
// teams in creation order, the four players in seat order, the trick, and
// every live card.
func LoadMatch(ctx context.Context, id uuid.UUID) (*euchre.Match, error) {
	var m *euchre.Match
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{AccessMode: pgx.ReadOnly}, func(tx pgx.Tx) error {
		m = &euchre.Match{}
		var trump string
		q := `
		SELECT id, trump, dealer_id, next_dealer_id, selector_id, declarer_id,
		       extra_card_id, round_value, exchange_on_accept,
		       winning_trick_count, points_single, points_march, points_lone_march
		FROM matches WHERE id=$1`
		if err := tx.QueryRow(ctx, q, id).Scan(
			&m.ID, &trump, &m.DealerID, &m.NextDealerID, &m.SelectorID,
			&m.DeclarerID, &m.ExtraCardID, &m.RoundValue,
			&m.Rules.ExchangeOnAccept, &m.Rules.WinningTrickCount,
			&m.Rules.Points.Single, &m.Rules.Points.March, &m.Rules.Points.LoneMarch,
		); err != nil {
			return err
		}
		m.Trump = models.Suit(trump)

		rows, err := tx.Query(ctx,
			`SELECT id, tricks_won, points, going_alone FROM match_teams WHERE match_id=$1 ORDER BY idx`, id)
		if err != nil {
			return err
		}
		i := 0
		for rows.Next() {
			t := &models.Team{MatchID: id}
			if err := rows.Scan(&t.ID, &t.TricksWon, &t.Points, &t.GoingAlone); err != nil {
				rows.Close()
				return err
			}
			if i > 1 {
				rows.Close()
				return fmt.Errorf("match %v has more than two teams", id)
			}
			m.Teams[i] = t
			i++
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		rows, err = tx.Query(ctx,
			`SELECT id, discord_id, team_id, seat FROM match_players WHERE match_id=$1 ORDER BY seat`, id)
		if err != nil {
			return err
		}
		for rows.Next() {
			p := &models.Player{}
			if err := rows.Scan(&p.ID, &p.DiscordID, &p.TeamID, &p.Seat); err != nil {
				rows.Close()
				return err
			}
			m.Players = append(m.Players, p)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		rows, err = tx.Query(ctx,
			`SELECT id, suit, rank, player_id, played FROM match_cards WHERE match_id=$1`, id)
		if err != nil {
			return err
		}
		for rows.Next() {
			c := &models.Card{}
			var suit string
			if err := rows.Scan(&c.ID, &suit, &c.Rank, &c.PlayerID, &c.Played); err != nil {
				rows.Close()
				return err
			}
			c.Suit = models.Suit(suit)
			m.Cards = append(m.Cards, c)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		m.Trick = &models.Trick{}
		return tx.QueryRow(ctx,
			`SELECT id, opener_id, highest_id, selection, count FROM match_tricks WHERE match_id=$1`, id).
			Scan(&m.Trick.ID, &m.Trick.OpenerID, &m.Trick.HighestID, &m.Trick.Selection, &m.Trick.Count)
	})
	if err != nil {
		return nil, fmt.Errorf("load match %v: %w", id, err)
	}
	return m, nil
}

// SaveMatch rewrites the aggregate in one transaction so every transition,
// including a round finish with its re-deal, lands atomically. Cards are
// replaced wholesale because a re-deal produces an entirely new set.
func SaveMatch(ctx context.Context, m *euchre.Match) error {
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
		UPDATE matches
		SET trump=$1, dealer_id=$2, next_dealer_id=$3, selector_id=$4,
		    declarer_id=$5, extra_card_id=$6, round_value=$7
		WHERE id=$8`
		if _, err := tx.Exec(ctx, q,
			string(m.Trump), m.DealerID, m.NextDealerID, m.SelectorID,
			m.DeclarerID, m.ExtraCardID, m.RoundValue, m.ID,
		); err != nil {
			return err
		}

		for _, t := range m.Teams {
			q := `UPDATE match_teams SET tricks_won=$1, points=$2, going_alone=$3 WHERE id=$4`
			if _, err := tx.Exec(ctx, q, t.TricksWon, t.Points, t.GoingAlone, t.ID); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM match_cards WHERE match_id=$1`, m.ID); err != nil {
			return err
		}
		if err := insertCards(ctx, tx, m); err != nil {
			return err
		}

		q = `UPDATE match_tricks SET opener_id=$1, highest_id=$2, selection=$3, count=$4 WHERE id=$5`
		_, err := tx.Exec(ctx, q,
			m.Trick.OpenerID, m.Trick.HighestID, m.Trick.Selection, m.Trick.Count, m.Trick.ID)
		return err
	})
	if err != nil {
		return fmt.Errorf("save match %v: %w", m.ID, err)
	}
	return nil
}

func insertCards(ctx context.Context, tx pgx.Tx, m *euchre.Match) error {
	q := `INSERT INTO match_cards (id, match_id, suit, rank, player_id, played)
	      VALUES ($1,$2,$3,$4,$5,$6)`
	for _, c := range m.Cards {
		if _, err := tx.Exec(ctx, q, c.ID, m.ID, string(c.Suit), c.Rank, c.PlayerID, c.Played); err != nil {
			return err
		}
	}
	return nil
}

// DeleteMatch removes the aggregate. Child rows cascade from the match row.
func DeleteMatch(ctx context.Context, id uuid.UUID) error {
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM matches WHERE id=$1`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete match %v: %w", id, err)
	}
	return nil
}

// FindMatchByPlayer returns the most recent match the Discord user is seated
// in, or pgx.ErrNoRows.
func FindMatchByPlayer(ctx context.Context, discordID string) (uuid.UUID, error) {
	var id uuid.UUID
	q := `
	SELECT mp.match_id
	FROM match_players mp
	JOIN matches m ON m.id = mp.match_id
	WHERE mp.discord_id = $1
	ORDER BY m.created_at DESC
	LIMIT 1`
	if err := DB.QueryRow(ctx, q, discordID).Scan(&id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// MaxActionIndex returns the highest archived action index for a match, zero
// when none have been archived yet.
func MaxActionIndex(ctx context.Context, matchID uuid.UUID) (int, error) {
	var idx int
	err := DB.QueryRow(ctx,
		`SELECT COALESCE(MAX(action_index), 0) FROM match_actions WHERE match_id=$1`, matchID).Scan(&idx)
	if err != nil {
		return 0, fmt.Errorf("max action index for match %v: %w", matchID, err)
	}
	return idx, nil
}

// RecordMatchResult upserts both teams' final standings when a match ends,
// keeping a row per team even after the live aggregate is deleted.
func RecordMatchResult(ctx context.Context, m *euchre.Match) error {
	winner := m.Teams[0]
	if m.Teams[1].Points > winner.Points {
		winner = m.Teams[1]
	}
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, t := range m.Teams {
			var members []string
			for _, p := range m.Players {
				if p.TeamID == t.ID {
					members = append(members, p.DiscordID)
				}
			}
			q := `
			INSERT INTO match_results (match_id, team_id, members, points, did_win)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (match_id, team_id)
			DO UPDATE SET points=$4, did_win=$5`
			if _, err := tx.Exec(ctx, q, m.ID, t.ID, members, t.Points, t.ID == winner.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record match result %v: %w", m.ID, err)
	}
	return nil
}
