package risk

import "fmt"

// MoveKind is the tag of the Move variant.
type MoveKind string

const (
	MoveDeploy  MoveKind = "deploy"
	MoveAttack  MoveKind = "attack"
	MoveFortify MoveKind = "fortify"
	MoveSkip    MoveKind = "skip"
)

// Move is a proposed action by a player. Fields are used by kind:
//
//   - deploy: To, Troops
//   - attack: From, To; Troops optionally requests how many armies occupy
//     the territory on conquest (0 means all but one)
//   - fortify: From, To, Troops
//   - skip: no fields
type Move struct {
	Kind   MoveKind `json:"kind"`
	Player string   `json:"player"`
	From   string   `json:"from,omitempty"`
	To     string   `json:"to,omitempty"`
	Troops int      `json:"troops,omitempty"`
}

// Deploy places troops on an owned territory.
func Deploy(player, territory string, troops int) Move {
	return Move{Kind: MoveDeploy, Player: player, To: territory, Troops: troops}
}

// Attack resolves one combat round from one territory against an adjacent
// enemy territory.
func Attack(player, from, to string) Move {
	return Move{Kind: MoveAttack, Player: player, From: from, To: to}
}

// Fortify moves troops between two connected owned territories.
func Fortify(player, from, to string, troops int) Move {
	return Move{Kind: MoveFortify, Player: player, From: from, To: to, Troops: troops}
}

// Skip ends the current phase without acting.
func Skip(player string) Move {
	return Move{Kind: MoveSkip, Player: player}
}

// Describe returns a short human-readable rendering of the move.
func (m Move) Describe() string {
	switch m.Kind {
	case MoveDeploy:
		return fmt.Sprintf("%s deploy %d to %s", m.Player, m.Troops, m.To)
	case MoveAttack:
		return fmt.Sprintf("%s attack %s -> %s", m.Player, m.From, m.To)
	case MoveFortify:
		return fmt.Sprintf("%s fortify %d from %s to %s", m.Player, m.Troops, m.From, m.To)
	case MoveSkip:
		return m.Player + " skip"
	default:
		return string(m.Kind)
	}
}
