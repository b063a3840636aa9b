// internal/euchre/rules.go
package euchre

// PointTable maps round outcomes to points awarded to the winning team.
type PointTable struct {
	// Single is the value of an ordinary round win.
	Single int `json:"single"`
	// March is awarded when the winning team takes every trick of the round.
	March int `json:"march"`
	// LoneMarch is awarded for a march won while going alone.
	LoneMarch int `json:"lone_march"`
}

// Rules captures the table-variant knobs of a match. Everything here has a
// default matching the house game; callers only override what they need.
type Rules struct {
	// ExchangeOnAccept controls the up-card exchange: when true, accepting
	// the turned-up card puts it into the acceptor's hand and discards the
	// hand card named in the accept command. When false the up-card is set
	// aside and no hand card is required.
	ExchangeOnAccept bool `json:"exchange_on_accept"`

	// WinningTrickCount is the number of tricks that ends the round
	// immediately in a team's favor.
	WinningTrickCount int `json:"winning_trick_count"`

	Points PointTable `json:"points"`
}

// DefaultRules returns the standard house configuration: up-card exchange on
// accept, rounds won at three tricks, 1/2/2 scoring.
func DefaultRules() Rules {
	return Rules{
		ExchangeOnAccept:  true,
		WinningTrickCount: 3,
		Points: PointTable{
			Single:    1,
			March:     2,
			LoneMarch: 2,
		},
	}
}
