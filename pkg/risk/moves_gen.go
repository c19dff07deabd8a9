package risk

// LegalMoves returns every move the current player could legally make, with
// troop amounts sampled at one / half / all rather than enumerated
// exhaustively. Bot strategies pick from this list; every returned move
// passes Validate.
func LegalMoves(gs *GameState, b *Board) []Move {
	if gs.Status == StatusFinished || gs.Status == StatusWaiting {
		return nil
	}
	player := gs.CurrentPlayer()
	if player == nil {
		return nil
	}

	if gs.Status == StatusSetup {
		var moves []Move
		if player.ArmiesToPlace > 0 {
			for id, t := range gs.Territories {
				if t.Owner == player.ID {
					moves = append(moves, Deploy(player.ID, id, 1))
				}
			}
		}
		return moves
	}

	switch gs.Phase {
	case PhaseReinforcement:
		return reinforcementMoves(gs, b, player)
	case PhaseAttack:
		return attackMoves(gs, b, player)
	case PhaseFortify:
		return fortifyMoves(gs, b, player)
	}
	return nil
}

// reinforcementMoves proposes deploys onto enemy-adjacent territories,
// where armies actually matter, plus a skip.
func reinforcementMoves(gs *GameState, b *Board, player *Player) []Move {
	moves := []Move{Skip(player.ID)}
	remaining := player.ArmiesToPlace
	if remaining == 0 {
		return moves
	}
	for id, t := range gs.Territories {
		if t.Owner != player.ID || !enemyAdjacent(gs, b, player.ID, id) {
			continue
		}
		for _, troops := range troopSamples(remaining) {
			moves = append(moves, Deploy(player.ID, id, troops))
		}
	}
	return moves
}

func attackMoves(gs *GameState, b *Board, player *Player) []Move {
	moves := []Move{Skip(player.ID)}
	for id, t := range gs.Territories {
		if t.Owner != player.ID || t.Armies < 2 {
			continue
		}
		for _, n := range b.Neighbors(id) {
			if gs.Territories[n].Owner != player.ID {
				moves = append(moves, Attack(player.ID, id, n))
			}
		}
	}
	return moves
}

func fortifyMoves(gs *GameState, b *Board, player *Player) []Move {
	moves := []Move{Skip(player.ID)}
	for from, ft := range gs.Territories {
		if ft.Owner != player.ID || ft.Armies < 2 {
			continue
		}
		for to, tt := range gs.Territories {
			if to == from || tt.Owner != player.ID {
				continue
			}
			if !Connected(gs, b, player.ID, from, to) {
				continue
			}
			for _, troops := range troopSamples(ft.Armies - 1) {
				moves = append(moves, Fortify(player.ID, from, to, troops))
			}
		}
	}
	return moves
}

func enemyAdjacent(gs *GameState, b *Board, playerID, id string) bool {
	for _, n := range b.Neighbors(id) {
		if gs.Territories[n].Owner != playerID {
			return true
		}
	}
	return false
}

// troopSamples returns distinct candidate amounts (one, half, all) within max.
func troopSamples(max int) []int {
	if max < 1 {
		return nil
	}
	amounts := []int{1}
	if half := max / 2; half > 1 {
		amounts = append(amounts, half)
	}
	if max > 1 && max != max/2 {
		amounts = append(amounts, max)
	}
	return amounts
}
