package risk

// twoPlayerState builds a playing-status state on the standard board where
// p2 owns the listed territories with 2 armies each and p1 owns everything
// else with 3 armies each. p1 is the current player.
func twoPlayerState(phase GamePhase, p2Owned ...string) *GameState {
	b := StandardBoard()
	gs := &GameState{
		Status:  StatusPlaying,
		Phase:   phase,
		Turn:    1,
		Current: 0,
		Players: []Player{
			{ID: "p1", Color: "red", Order: 0},
			{ID: "p2", Color: "blue", Order: 1},
		},
		Territories: make(map[string]TerritoryState, TerritoryCount),
	}
	enemy := make(map[string]bool, len(p2Owned))
	for _, id := range p2Owned {
		enemy[id] = true
	}
	for i := 0; i < TerritoryCount; i++ {
		id := b.TerritoryID(i)
		if enemy[id] {
			gs.Territories[id] = TerritoryState{Owner: "p2", Armies: 2}
		} else {
			gs.Territories[id] = TerritoryState{Owner: "p1", Armies: 3}
		}
	}
	return gs
}

func setTerritory(gs *GameState, id, owner string, armies int) {
	gs.Territories[id] = TerritoryState{Owner: owner, Armies: armies}
}
