package bot

import (
	"math/rand"

	"github.com/jmhart/world-conquest/pkg/risk"
)

// Strategy picks one move for a bot player from the current position.
type Strategy interface {
	Name() string
	ChooseMove(gs *risk.GameState, b *risk.Board, playerID string, rng *rand.Rand) risk.Move
}

// StrategyForDifficulty returns the appropriate strategy for a bot difficulty level.
func StrategyForDifficulty(difficulty string) Strategy {
	switch difficulty {
	case "medium":
		return &GreedyStrategy{}
	default:
		return &RandomStrategy{}
	}
}
