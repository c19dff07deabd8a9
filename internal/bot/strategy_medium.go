package bot

import (
	"math/rand"
	"sort"

	"github.com/jmhart/world-conquest/pkg/risk"
)

// GreedyStrategy plays a one-ply heuristic: reinforce the most threatened
// border, attack only with a clear numeric edge, and fortify armies from
// interior territories toward the front.
type GreedyStrategy struct{}

func (GreedyStrategy) Name() string { return "greedy" }

func (s GreedyStrategy) ChooseMove(gs *risk.GameState, b *risk.Board, playerID string, rng *rand.Rand) risk.Move {
	switch {
	case gs.Status == risk.StatusSetup || gs.Phase == risk.PhaseReinforcement:
		return s.chooseDeploy(gs, b, playerID)
	case gs.Phase == risk.PhaseAttack:
		return s.chooseAttack(gs, b, playerID)
	default:
		return s.chooseFortify(gs, b, playerID)
	}
}

// chooseDeploy places armies on the owned border territory facing the
// largest enemy force. During setup one army goes down at a time; during
// reinforcement the whole pool lands in one move.
func (s GreedyStrategy) chooseDeploy(gs *risk.GameState, b *risk.Board, playerID string) risk.Move {
	best := ""
	bestThreat := -1
	for _, terrID := range sortedOwned(gs, playerID) {
		threat := enemyPressure(gs, b, playerID, terrID)
		if threat > bestThreat {
			best = terrID
			bestThreat = threat
		}
	}
	amount := 1
	if gs.Status == risk.StatusPlaying {
		if p := gs.PlayerByID(playerID); p != nil {
			amount = p.ArmiesToPlace
		}
	}
	return risk.Deploy(playerID, best, amount)
}

// chooseAttack picks the attack with the biggest army surplus, requiring at
// least two more armies than the defender. Anything thinner, skip.
func (s GreedyStrategy) chooseAttack(gs *risk.GameState, b *risk.Board, playerID string) risk.Move {
	bestFrom, bestTo := "", ""
	bestEdge := 1 // require surplus >= 2
	for _, fromID := range sortedOwned(gs, playerID) {
		from := gs.Territories[fromID]
		if from.Armies < 2 {
			continue
		}
		for _, toID := range b.Neighbors(fromID) {
			to := gs.Territories[toID]
			if to.Owner == playerID {
				continue
			}
			edge := from.Armies - to.Armies
			if edge > bestEdge {
				bestFrom, bestTo = fromID, toID
				bestEdge = edge
			}
		}
	}
	if bestFrom == "" {
		return risk.Skip(playerID)
	}
	return risk.Attack(playerID, bestFrom, bestTo)
}

// chooseFortify moves spare armies from the calmest territory to the most
// threatened connected one.
func (s GreedyStrategy) chooseFortify(gs *risk.GameState, b *risk.Board, playerID string) risk.Move {
	owned := sortedOwned(gs, playerID)

	source := ""
	spare := 0
	for _, terrID := range owned {
		ts := gs.Territories[terrID]
		if enemyPressure(gs, b, playerID, terrID) == 0 && ts.Armies-1 > spare {
			source = terrID
			spare = ts.Armies - 1
		}
	}
	if source == "" {
		return risk.Skip(playerID)
	}

	dest := ""
	worstThreat := 0
	for _, terrID := range owned {
		if terrID == source || !risk.Connected(gs, b, playerID, source, terrID) {
			continue
		}
		if threat := enemyPressure(gs, b, playerID, terrID); threat > worstThreat {
			dest = terrID
			worstThreat = threat
		}
	}
	if dest == "" {
		return risk.Skip(playerID)
	}
	return risk.Fortify(playerID, source, dest, spare)
}

// enemyPressure sums enemy armies on territories adjacent to terrID.
func enemyPressure(gs *risk.GameState, b *risk.Board, playerID, terrID string) int {
	total := 0
	for _, n := range b.Neighbors(terrID) {
		if ts, ok := gs.Territories[n]; ok && ts.Owner != playerID {
			total += ts.Armies
		}
	}
	return total
}

// sortedOwned returns the player's territories in a stable order so the
// strategy is deterministic for a given position.
func sortedOwned(gs *risk.GameState, playerID string) []string {
	var owned []string
	for terrID, ts := range gs.Territories {
		if ts.Owner == playerID {
			owned = append(owned, terrID)
		}
	}
	sort.Strings(owned)
	return owned
}
