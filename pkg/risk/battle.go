package risk

import "sort"

// BattleOutcome is the result of a single round of combat.
type BattleOutcome struct {
	AttackerDice   []int `json:"attacker_dice"`
	DefenderDice   []int `json:"defender_dice"`
	AttackerLosses int   `json:"attacker_losses"`
	DefenderLosses int   `json:"defender_losses"`
	Conquered      bool  `json:"conquered"`
	Rounds         int   `json:"rounds"`
}

// ModifierStage is the point in round resolution where a modifier runs.
type ModifierStage int

const (
	// PreRoll modifiers adjust the participating army counts before dice
	// counts are derived (fortifications, terrain).
	PreRoll ModifierStage = iota
	// PostRoll modifiers adjust rolled dice values before comparison.
	PostRoll
	// PostLoss modifiers adjust computed losses before they are applied.
	PostLoss
)

// BattleContext carries one round of combat through the modifier chain.
// Fields are populated progressively: army counts before the roll, dice
// after the roll, losses after comparison.
type BattleContext struct {
	AttackingArmies int
	DefendingArmies int
	AttackerDice    []int
	DefenderDice    []int
	AttackerLosses  int
	DefenderLosses  int
}

// Modifier is a pluggable rule adjustment applied during round resolution.
// The base ruleset runs with no modifiers; terrain, fortification, and card
// effects hook in here. Modifiers with lower Priority run first within
// their stage.
type Modifier struct {
	Name     string
	Stage    ModifierStage
	Priority int
	Applies  func(*BattleContext) bool
	Apply    func(*BattleContext)
}

// ResolveRound resolves exactly one round of combat between attacking and
// defending armies per standard Risk rules:
//
//   - attacker rolls min(3, attackingArmies-1) dice, defender min(2,
//     defendingArmies), both sorted descending
//   - dice are compared pairwise from highest; the defender wins ties
//   - the territory is conquered when the defender has no armies left
//
// If the attacker cannot roll (attackingArmies < 2), the round is a no-op
// with zero dice and zero losses. Validation rejects such attacks before
// they reach the resolver; this path is a safety net only.
//
// Repeated rounds until one side is exhausted are driven by the caller,
// not the resolver.
func ResolveRound(attackingArmies, defendingArmies int, roller Roller, mods []Modifier) BattleOutcome {
	ctx := &BattleContext{
		AttackingArmies: attackingArmies,
		DefendingArmies: defendingArmies,
	}
	runStage(ctx, mods, PreRoll)

	attackerDice := ctx.AttackingArmies - 1
	if attackerDice > 3 {
		attackerDice = 3
	}
	defenderDice := ctx.DefendingArmies
	if defenderDice > 2 {
		defenderDice = 2
	}
	if attackerDice < 1 || defenderDice < 1 {
		return BattleOutcome{Rounds: 1}
	}

	ctx.AttackerDice = roller.Roll(attackerDice)
	ctx.DefenderDice = roller.Roll(defenderDice)
	runStage(ctx, mods, PostRoll)

	pairs := len(ctx.AttackerDice)
	if len(ctx.DefenderDice) < pairs {
		pairs = len(ctx.DefenderDice)
	}
	for i := 0; i < pairs; i++ {
		if ctx.AttackerDice[i] > ctx.DefenderDice[i] {
			ctx.DefenderLosses++
		} else {
			// Ties favor the defender.
			ctx.AttackerLosses++
		}
	}
	runStage(ctx, mods, PostLoss)

	// Losses never exceed the armies present, whatever the modifiers did.
	if ctx.DefenderLosses > ctx.DefendingArmies {
		ctx.DefenderLosses = ctx.DefendingArmies
	}
	if ctx.AttackerLosses > ctx.AttackingArmies-1 {
		ctx.AttackerLosses = ctx.AttackingArmies - 1
	}
	if ctx.AttackerLosses < 0 {
		ctx.AttackerLosses = 0
	}
	if ctx.DefenderLosses < 0 {
		ctx.DefenderLosses = 0
	}

	return BattleOutcome{
		AttackerDice:   ctx.AttackerDice,
		DefenderDice:   ctx.DefenderDice,
		AttackerLosses: ctx.AttackerLosses,
		DefenderLosses: ctx.DefenderLosses,
		Conquered:      ctx.DefendingArmies-ctx.DefenderLosses == 0,
		Rounds:         1,
	}
}

func runStage(ctx *BattleContext, mods []Modifier, stage ModifierStage) {
	var active []Modifier
	for _, m := range mods {
		if m.Stage != stage {
			continue
		}
		if m.Applies != nil && !m.Applies(ctx) {
			continue
		}
		active = append(active, m)
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Priority < active[j].Priority })
	for _, m := range active {
		m.Apply(ctx)
	}
}
