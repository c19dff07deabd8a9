package risk

import "fmt"

// Stable validation reasons surfaced to players. Kept as constants so the
// API contract does not drift.
const (
	ReasonGameFinished     = "game is finished"
	ReasonGameNotStarted   = "game has not started"
	ReasonNotYourTurn      = "not your turn"
	ReasonWrongPhase       = "move not allowed in this phase"
	ReasonUnknownTerritory = "territory does not exist"
	ReasonNotOwned         = "territory is not owned by you"
	ReasonOwnTerritory     = "cannot attack your own territory"
	ReasonNotAdjacent      = "territories are not adjacent"
	ReasonNotConnected     = "territories are not connected through your territories"
	ReasonTooFewTroops     = "not enough troops"
	ReasonMustLeaveOne     = "at least one army must remain behind"
	ReasonNeedTwoToAttack  = "attacking requires at least 2 armies"
	ReasonUnknownMove      = "unknown move kind"
)

// Validate checks whether a move is legal against the given state. It never
// mutates state and is idempotent, so the UI can call it speculatively
// before submission. Returns nil if legal, or a *ValidationError.
func Validate(gs *GameState, mv Move, b *Board) error {
	if gs.Status == StatusFinished {
		return &ValidationError{mv, ReasonGameFinished}
	}
	if gs.Status == StatusWaiting {
		return &ValidationError{mv, ReasonGameNotStarted}
	}
	current := gs.CurrentPlayer()
	if current == nil || current.ID != mv.Player {
		return &ValidationError{mv, ReasonNotYourTurn}
	}

	switch mv.Kind {
	case MoveDeploy:
		return validateDeploy(gs, mv, current)
	case MoveAttack:
		return validateAttack(gs, mv, b)
	case MoveFortify:
		return validateFortify(gs, mv, b)
	case MoveSkip:
		if gs.Status == StatusSetup {
			return &ValidationError{mv, ReasonWrongPhase}
		}
		return nil
	default:
		return &ValidationError{mv, ReasonUnknownMove}
	}
}

func validateDeploy(gs *GameState, mv Move, current *Player) error {
	if gs.Status == StatusPlaying && gs.Phase != PhaseReinforcement {
		return &ValidationError{mv, ReasonWrongPhase}
	}
	t, ok := gs.Territories[mv.To]
	if !ok {
		return &ValidationError{mv, ReasonUnknownTerritory}
	}
	if t.Owner != mv.Player {
		return &ValidationError{mv, ReasonNotOwned}
	}
	if mv.Troops < 1 {
		return &ValidationError{mv, ReasonTooFewTroops}
	}
	if mv.Troops > current.ArmiesToPlace {
		return &ValidationError{mv, fmt.Sprintf("only %d armies available to place", current.ArmiesToPlace)}
	}
	return nil
}

func validateAttack(gs *GameState, mv Move, b *Board) error {
	if gs.Status != StatusPlaying || gs.Phase != PhaseAttack {
		return &ValidationError{mv, ReasonWrongPhase}
	}
	from, ok := gs.Territories[mv.From]
	if !ok {
		return &ValidationError{mv, ReasonUnknownTerritory}
	}
	to, ok := gs.Territories[mv.To]
	if !ok {
		return &ValidationError{mv, ReasonUnknownTerritory}
	}
	if from.Owner != mv.Player {
		return &ValidationError{mv, ReasonNotOwned}
	}
	if to.Owner == mv.Player {
		return &ValidationError{mv, ReasonOwnTerritory}
	}
	if from.Armies < 2 {
		return &ValidationError{mv, ReasonNeedTwoToAttack}
	}
	if !b.Adjacent(mv.From, mv.To) {
		return &ValidationError{mv, ReasonNotAdjacent}
	}
	return nil
}

func validateFortify(gs *GameState, mv Move, b *Board) error {
	if gs.Status != StatusPlaying || gs.Phase != PhaseFortify {
		return &ValidationError{mv, ReasonWrongPhase}
	}
	from, ok := gs.Territories[mv.From]
	if !ok {
		return &ValidationError{mv, ReasonUnknownTerritory}
	}
	to, ok := gs.Territories[mv.To]
	if !ok {
		return &ValidationError{mv, ReasonUnknownTerritory}
	}
	if from.Owner != mv.Player || to.Owner != mv.Player {
		return &ValidationError{mv, ReasonNotOwned}
	}
	if mv.Troops < 1 {
		return &ValidationError{mv, ReasonTooFewTroops}
	}
	if from.Armies <= mv.Troops {
		return &ValidationError{mv, ReasonMustLeaveOne}
	}
	if !Connected(gs, b, mv.Player, mv.From, mv.To) {
		return &ValidationError{mv, ReasonNotConnected}
	}
	return nil
}

// Connected reports whether from and to are linked by a path of territories
// all owned by the given player. Breadth-first search over the
// ownership-filtered subgraph; a territory is trivially connected to itself.
func Connected(gs *GameState, b *Board, playerID, from, to string) bool {
	if from == to {
		return true
	}
	visited := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range b.Neighbors(cur) {
			if visited[n] || gs.Territories[n].Owner != playerID {
				continue
			}
			if n == to {
				return true
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return false
}
