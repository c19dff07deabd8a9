package risk

// Apply produces the next game state from a validated move. The input state
// is never mutated; a deep clone is made before any change, so callers keep
// a consistent snapshot even if they retain the old pointer.
//
// Callers must run Validate first. Apply re-checks defensively and returns
// an *InvariantError for a move validation would have rejected, leaving the
// state untouched, rather than silently corrupting it.
//
// For attack moves the returned *BattleOutcome carries the dice and losses
// of the single resolved round; it is nil for all other move kinds.
func Apply(gs *GameState, mv Move, b *Board, roller Roller, mods []Modifier) (*GameState, *BattleOutcome, error) {
	if err := Validate(gs, mv, b); err != nil {
		return nil, nil, &InvariantError{Move: mv, Cause: err}
	}

	next := gs.Clone()
	var outcome *BattleOutcome

	switch mv.Kind {
	case MoveDeploy:
		applyDeploy(next, mv, b)
	case MoveAttack:
		outcome = applyAttack(next, mv, roller, mods)
	case MoveFortify:
		from := next.Territories[mv.From]
		to := next.Territories[mv.To]
		from.Armies -= mv.Troops
		to.Armies += mv.Troops
		next.Territories[mv.From] = from
		next.Territories[mv.To] = to
		endTurn(next, b)
	case MoveSkip:
		switch next.Phase {
		case PhaseReinforcement:
			// Unplaced armies are forfeited; the next reinforcement is
			// recomputed from scratch.
			next.CurrentPlayer().ArmiesToPlace = 0
			next.Phase = PhaseAttack
		case PhaseAttack:
			next.Phase = PhaseFortify
		case PhaseFortify:
			endTurn(next, b)
		}
	}

	return next, outcome, nil
}

func applyDeploy(next *GameState, mv Move, b *Board) {
	t := next.Territories[mv.To]
	t.Armies += mv.Troops
	next.Territories[mv.To] = t
	next.CurrentPlayer().ArmiesToPlace -= mv.Troops

	if next.Status == StatusSetup {
		if next.SetupComplete() {
			beginPlay(next, b)
			return
		}
		// Initial placement rotates between players still holding armies.
		n := len(next.Players)
		for i := 1; i <= n; i++ {
			idx := (next.Current + i) % n
			if next.Players[idx].ArmiesToPlace > 0 {
				next.Current = idx
				break
			}
		}
		return
	}

	if next.CurrentPlayer().ArmiesToPlace == 0 {
		next.Phase = PhaseAttack
	}
}

func applyAttack(next *GameState, mv Move, roller Roller, mods []Modifier) *BattleOutcome {
	from := next.Territories[mv.From]
	to := next.Territories[mv.To]
	defenderID := to.Owner

	outcome := ResolveRound(from.Armies, to.Armies, roller, mods)
	from.Armies -= outcome.AttackerLosses
	to.Armies -= outcome.DefenderLosses

	if outcome.Conquered {
		// Occupy with the requested force, clamped to [1, remaining-1] so
		// the source territory is never abandoned.
		occupy := mv.Troops
		if occupy < 1 || occupy > from.Armies-1 {
			occupy = from.Armies - 1
		}
		to.Owner = mv.Player
		to.Armies = occupy
		from.Armies -= occupy
	}
	next.Territories[mv.From] = from
	next.Territories[mv.To] = to

	if outcome.Conquered {
		if p := next.PlayerByID(defenderID); p != nil && next.OwnedCount(defenderID) == 0 {
			p.Eliminated = true
			p.ArmiesToPlace = 0
		}
		if next.OwnedCount(mv.Player) == TerritoryCount {
			next.Status = StatusFinished
			next.Winner = mv.Player
		}
	}
	return &outcome
}

// beginPlay transitions a game out of setup once every initial army is
// placed: play starts with the first player in turn order.
func beginPlay(next *GameState, b *Board) {
	next.Status = StatusPlaying
	next.Phase = PhaseReinforcement
	next.Turn = 1
	next.Current = 0
	next.Players[0].ArmiesToPlace = next.Reinforcements(b, next.Players[0].ID)
}

// endTurn advances to the next non-eliminated player, wrapping around and
// bumping the turn counter on wrap, and grants them their reinforcements.
func endTurn(next *GameState, b *Board) {
	next.Phase = PhaseReinforcement
	n := len(next.Players)
	prev := next.Current
	for i := 1; i <= n; i++ {
		idx := (prev + i) % n
		if !next.Players[idx].Eliminated {
			next.Current = idx
			break
		}
	}
	if next.Current <= prev {
		next.Turn++
	}
	p := next.CurrentPlayer()
	p.ArmiesToPlace = next.Reinforcements(b, p.ID)
}
