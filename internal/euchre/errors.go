// internal/euchre/errors.go
package euchre

// Kind classifies a rule error so the command layer can decide how to phrase
// the reply. Every kind is recoverable: a failed transition mutates nothing
// and the caller is simply re-prompted.
type Kind int

const (
	// KindValidation covers bad or missing input (unknown card name,
	// duplicate players at start).
	KindValidation Kind = iota
	// KindTurnOrder covers actions taken by a player other than the current
	// selector.
	KindTurnOrder
	// KindRuleViolation covers legal-but-wrong-phase actions (playing before
	// trump is chosen, not following suit).
	KindRuleViolation
)

// Error is a recoverable rule error raised by a state transition.
type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Kind reports the error's classification.
func (e *Error) Kind() Kind { return e.kind }

var (
	ErrNotYourTurn      = &Error{KindTurnOrder, "it is not your turn"}
	ErrCardNotFound     = &Error{KindValidation, "unable to find that card"}
	ErrCardRequired     = &Error{KindValidation, "you must select a card"}
	ErrMustFollowSuit   = &Error{KindRuleViolation, "you must follow suit"}
	ErrTrumpNotSelected = &Error{KindRuleViolation, "trump has not been chosen"}
	ErrSelectionOver    = &Error{KindRuleViolation, "trump has already been selected"}
	ErrDuplicatePlayers = &Error{KindValidation, "all players must be unique"}
	ErrWrongPlayerCount = &Error{KindValidation, "a euchre match needs exactly four players"}
)
