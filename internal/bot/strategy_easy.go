package bot

import (
	"math/rand"

	"github.com/jmhart/world-conquest/pkg/risk"
)

// RandomStrategy plays a uniformly random legal move. During the attack
// phase it keeps the skip option in the pool, so its turns always end.
type RandomStrategy struct{}

func (RandomStrategy) Name() string { return "random" }

func (RandomStrategy) ChooseMove(gs *risk.GameState, b *risk.Board, playerID string, rng *rand.Rand) risk.Move {
	moves := risk.LegalMoves(gs, b)
	if len(moves) == 0 {
		return risk.Skip(playerID)
	}
	return moves[rng.Intn(len(moves))]
}
