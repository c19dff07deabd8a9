package risk

import (
	"fmt"
	mathrand "math/rand"
)

// MinPlayers and MaxPlayers bound the number of players in a game.
const (
	MinPlayers = 2
	MaxPlayers = 6
)

// initialArmies is the classic allotment per player count. Each territory
// dealt during setup consumes one army from the allotment.
var initialArmies = map[int]int{
	2: 40,
	3: 35,
	4: 30,
	5: 25,
	6: 20,
}

// NewGame creates a setup-status game: territories are dealt round-robin in
// a shuffled order with one army each, and every player holds the remainder
// of their initial allotment for placement. The rng drives only the deal;
// pass a seeded source for reproducible games.
func NewGame(b *Board, playerIDs []string, rng *mathrand.Rand) (*GameState, error) {
	n := len(playerIDs)
	if n < MinPlayers || n > MaxPlayers {
		return nil, fmt.Errorf("risk: need %d-%d players, got %d", MinPlayers, MaxPlayers, n)
	}

	gs := &GameState{
		Status:      StatusSetup,
		Phase:       PhaseReinforcement,
		Turn:        0,
		Current:     0,
		Players:     make([]Player, n),
		Territories: make(map[string]TerritoryState, TerritoryCount),
	}
	for i, id := range playerIDs {
		gs.Players[i] = Player{
			ID:            id,
			Color:         Palette[i],
			Order:         i,
			ArmiesToPlace: initialArmies[n],
		}
	}

	deal := make([]string, 0, TerritoryCount)
	for i := 0; i < TerritoryCount; i++ {
		deal = append(deal, b.TerritoryID(i))
	}
	rng.Shuffle(len(deal), func(i, j int) { deal[i], deal[j] = deal[j], deal[i] })

	for i, id := range deal {
		p := &gs.Players[i%n]
		gs.Territories[id] = TerritoryState{Owner: p.ID, Armies: 1}
		p.ArmiesToPlace--
	}
	return gs, nil
}
