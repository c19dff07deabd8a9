package risk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptedRoller returns pre-arranged rolls in order. Rolls must be given
// sorted descending, as a real roller would return them.
type scriptedRoller struct {
	rolls [][]int
}

func (r *scriptedRoller) Roll(count int) []int {
	roll := r.rolls[0]
	r.rolls = r.rolls[1:]
	return roll
}

func TestResolveRoundTieFavorsDefender(t *testing.T) {
	roller := &scriptedRoller{rolls: [][]int{{4}, {4}}}
	out := ResolveRound(2, 1, roller, nil)

	require.Equal(t, 1, out.AttackerLosses)
	require.Equal(t, 0, out.DefenderLosses)
	require.False(t, out.Conquered)
}

func TestResolveRoundAttackerWins(t *testing.T) {
	roller := &scriptedRoller{rolls: [][]int{{6}, {3}}}
	out := ResolveRound(2, 2, roller, nil)

	require.Equal(t, 0, out.AttackerLosses)
	require.Equal(t, 1, out.DefenderLosses)
	require.False(t, out.Conquered, "defender still has an army")
}

func TestResolveRoundTwoDiceComparison(t *testing.T) {
	roller := &scriptedRoller{rolls: [][]int{{5, 3}, {4, 2}}}
	out := ResolveRound(3, 2, roller, nil)

	require.Equal(t, []int{5, 3}, out.AttackerDice)
	require.Equal(t, []int{4, 2}, out.DefenderDice)
	require.Equal(t, 0, out.AttackerLosses)
	require.Equal(t, 2, out.DefenderLosses)
	require.True(t, out.Conquered, "defender lost both armies")
}

func TestResolveRoundSplitLosses(t *testing.T) {
	roller := &scriptedRoller{rolls: [][]int{{6, 2}, {5, 5}}}
	out := ResolveRound(4, 3, roller, nil)

	require.Equal(t, 1, out.AttackerLosses)
	require.Equal(t, 1, out.DefenderLosses)
	require.False(t, out.Conquered)
}

func TestResolveRoundDiceCounts(t *testing.T) {
	tests := []struct {
		name      string
		attacking int
		defending int
		attDice   int
		defDice   int
	}{
		{"max dice both sides", 10, 10, 3, 2},
		{"attacker capped by armies", 3, 5, 2, 2},
		{"attacker single die", 2, 5, 1, 2},
		{"defender single die", 5, 1, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roller := NewSeededRoller(1)
			out := ResolveRound(tt.attacking, tt.defending, roller, nil)
			require.Len(t, out.AttackerDice, tt.attDice)
			require.Len(t, out.DefenderDice, tt.defDice)
		})
	}
}

func TestResolveRoundNoAttackerDice(t *testing.T) {
	// Validation rejects attacks from a single army; the resolver has to
	// stay safe under misuse anyway.
	out := ResolveRound(1, 3, CryptoRoller{}, nil)

	require.Empty(t, out.AttackerDice)
	require.Empty(t, out.DefenderDice)
	require.Zero(t, out.AttackerLosses)
	require.Zero(t, out.DefenderLosses)
	require.False(t, out.Conquered)
	require.Equal(t, 1, out.Rounds)
}

func TestResolveRoundModifierStages(t *testing.T) {
	t.Run("pre-roll adjusts army counts", func(t *testing.T) {
		weakened := Modifier{
			Name:  "siege",
			Stage: PreRoll,
			Apply: func(ctx *BattleContext) { ctx.DefendingArmies = 1 },
		}
		roller := &scriptedRoller{rolls: [][]int{{6, 5, 2}, {3}}}
		out := ResolveRound(5, 2, roller, []Modifier{weakened})

		require.Len(t, out.DefenderDice, 1, "pre-roll modifier should reduce defender dice")
		require.True(t, out.Conquered, "modified defender count decides conquest")
	})

	t.Run("post-roll adjusts dice, post-loss adjusts losses, priority orders application", func(t *testing.T) {
		var order []string
		mods := []Modifier{
			{
				Name: "second", Stage: PostLoss, Priority: 2,
				Apply: func(ctx *BattleContext) { order = append(order, "second") },
			},
			{
				Name: "first", Stage: PostLoss, Priority: 1,
				Apply: func(ctx *BattleContext) {
					order = append(order, "first")
					ctx.AttackerLosses = 0
				},
			},
			{
				Name: "loaded dice", Stage: PostRoll,
				Apply: func(ctx *BattleContext) { ctx.AttackerDice[0] = 1 },
			},
		}
		roller := &scriptedRoller{rolls: [][]int{{6}, {4}}}
		out := ResolveRound(2, 2, roller, mods)

		// Loaded dice turned the 6 into a 1, so the attacker should lose,
		// but the post-loss modifier waived the loss.
		require.Equal(t, 0, out.AttackerLosses)
		require.Equal(t, 0, out.DefenderLosses)
		require.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("inapplicable modifier is skipped", func(t *testing.T) {
		mod := Modifier{
			Name:    "fortress",
			Stage:   PreRoll,
			Applies: func(ctx *BattleContext) bool { return false },
			Apply:   func(ctx *BattleContext) { ctx.DefendingArmies += 10 },
		}
		roller := &scriptedRoller{rolls: [][]int{{6}, {2}}}
		out := ResolveRound(2, 1, roller, []Modifier{mod})
		require.True(t, out.Conquered)
	})
}

func TestResolveRoundLossesClamped(t *testing.T) {
	runaway := Modifier{
		Name:  "plague",
		Stage: PostLoss,
		Apply: func(ctx *BattleContext) {
			ctx.AttackerLosses = 100
			ctx.DefenderLosses = 100
		},
	}
	roller := &scriptedRoller{rolls: [][]int{{3}, {5}}}
	out := ResolveRound(3, 2, roller, []Modifier{runaway})

	require.Equal(t, 2, out.AttackerLosses, "attacker loses at most armies-1")
	require.Equal(t, 2, out.DefenderLosses, "defender loses at most its armies")
	require.True(t, out.Conquered)
}
