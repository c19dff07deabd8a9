package risk

// GameStatus represents the overall game status.
type GameStatus string

const (
	StatusWaiting  GameStatus = "waiting"
	StatusSetup    GameStatus = "setup"
	StatusPlaying  GameStatus = "playing"
	StatusFinished GameStatus = "finished"
)

// GamePhase represents the phase within a player's turn.
type GamePhase string

const (
	PhaseReinforcement GamePhase = "reinforcement"
	PhaseAttack        GamePhase = "attack"
	PhaseFortify       GamePhase = "fortify"
)

// Color is a player display color, unique within a game.
type Color string

// Palette is the fixed set of player colors, assigned in join order.
var Palette = []Color{"red", "blue", "green", "yellow", "purple", "orange"}

// Player is a participant in a game.
type Player struct {
	ID            string `json:"id"`
	Color         Color  `json:"color"`
	Order         int    `json:"order"`
	ArmiesToPlace int    `json:"armies_to_place"`
	Eliminated    bool   `json:"eliminated"`
}

// TerritoryState is the dynamic part of a territory: who owns it and with
// how many armies. Owner is empty while unclaimed.
type TerritoryState struct {
	Owner  string `json:"owner,omitempty"`
	Armies int    `json:"armies"`
}

// GameState is a complete snapshot of a game. State is treated as immutable
// per move: Apply clones before mutating, so a snapshot handed to a caller
// never changes underneath it.
type GameState struct {
	Status      GameStatus                `json:"status"`
	Phase       GamePhase                 `json:"phase"`
	Turn        int                       `json:"turn"`
	Current     int                       `json:"current"`
	Winner      string                    `json:"winner,omitempty"`
	Players     []Player                  `json:"players"`
	Territories map[string]TerritoryState `json:"territories"`
}

// CurrentPlayer returns the player whose turn it is, or nil before setup.
func (gs *GameState) CurrentPlayer() *Player {
	if gs.Current < 0 || gs.Current >= len(gs.Players) {
		return nil
	}
	return &gs.Players[gs.Current]
}

// PlayerByID returns the player with the given ID, or nil.
func (gs *GameState) PlayerByID(id string) *Player {
	for i := range gs.Players {
		if gs.Players[i].ID == id {
			return &gs.Players[i]
		}
	}
	return nil
}

// OwnedCount returns how many territories the player owns.
func (gs *GameState) OwnedCount(playerID string) int {
	count := 0
	for _, t := range gs.Territories {
		if t.Owner == playerID {
			count++
		}
	}
	return count
}

// ArmyCount returns the total armies the player has on the board.
func (gs *GameState) ArmyCount(playerID string) int {
	total := 0
	for _, t := range gs.Territories {
		if t.Owner == playerID {
			total += t.Armies
		}
	}
	return total
}

// OwnsContinent returns true if the player owns every member of the continent.
func (gs *GameState) OwnsContinent(c *Continent, playerID string) bool {
	for _, m := range c.Members {
		if gs.Territories[m].Owner != playerID {
			return false
		}
	}
	return true
}

// Reinforcements returns the armies awarded to the player at the start of
// their turn: floor(owned territories / 3) with a minimum of 3, plus the
// bonus of every continent they fully own.
func (gs *GameState) Reinforcements(b *Board, playerID string) int {
	armies := gs.OwnedCount(playerID) / 3
	if armies < 3 {
		armies = 3
	}
	for _, c := range b.Continents {
		if gs.OwnsContinent(c, playerID) {
			armies += c.Bonus
		}
	}
	return armies
}

// SetupComplete returns true once every player's initial allotment is placed.
func (gs *GameState) SetupComplete() bool {
	for i := range gs.Players {
		if gs.Players[i].ArmiesToPlace > 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the GameState. Mutations to the clone do not
// affect the original; Apply relies on this to keep snapshots immutable.
func (gs *GameState) Clone() *GameState {
	c := &GameState{
		Status:  gs.Status,
		Phase:   gs.Phase,
		Turn:    gs.Turn,
		Current: gs.Current,
		Winner:  gs.Winner,
	}
	if gs.Players != nil {
		c.Players = make([]Player, len(gs.Players))
		copy(c.Players, gs.Players)
	}
	if gs.Territories != nil {
		c.Territories = make(map[string]TerritoryState, len(gs.Territories))
		for k, v := range gs.Territories {
			c.Territories[k] = v
		}
	}
	return c
}
