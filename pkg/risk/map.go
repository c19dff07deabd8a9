package risk

// TerritoryCount is the number of territories on the standard Risk board.
const TerritoryCount = 42

// ContinentCount is the number of continents on the standard Risk board.
const ContinentCount = 6

// ContinentID identifies a continent.
type ContinentID string

const (
	NorthAmerica ContinentID = "north-america"
	SouthAmerica ContinentID = "south-america"
	Europe       ContinentID = "europe"
	Africa       ContinentID = "africa"
	Asia         ContinentID = "asia"
	Australia    ContinentID = "australia"
)

// TerritoryInfo is the static definition of a territory: its continent
// membership and neighbors. Ownership and army counts live in GameState.
type TerritoryInfo struct {
	ID        string
	Name      string
	Continent ContinentID
	Neighbors []string
}

// Continent groups territories and carries the bonus awarded to a player
// owning every member.
type Continent struct {
	ID      ContinentID
	Name    string
	Bonus   int
	Members []string
}

// Board holds the full territory and continent graph. It is immutable after
// construction; callers must not mutate the returned structures.
type Board struct {
	Territories map[string]*TerritoryInfo
	Continents  map[ContinentID]*Continent
	terrIndex   map[string]int
	terrIDs     [TerritoryCount]string
}

// TerritoryIndex returns the dense index (0..TerritoryCount-1) for a
// territory ID, or -1 if the territory is not found.
func (b *Board) TerritoryIndex(id string) int {
	idx, ok := b.terrIndex[id]
	if !ok {
		return -1
	}
	return idx
}

// TerritoryID returns the territory ID for a given dense index.
func (b *Board) TerritoryID(idx int) string {
	return b.terrIDs[idx]
}

// Adjacent returns true if src and dst share a border.
func (b *Board) Adjacent(src, dst string) bool {
	t, ok := b.Territories[src]
	if !ok {
		return false
	}
	for _, n := range t.Neighbors {
		if n == dst {
			return true
		}
	}
	return false
}

// Neighbors returns the neighbor IDs of a territory, or nil if unknown.
func (b *Board) Neighbors(id string) []string {
	t, ok := b.Territories[id]
	if !ok {
		return nil
	}
	return t.Neighbors
}

// ContinentOf returns the continent a territory belongs to, or nil if unknown.
func (b *Board) ContinentOf(id string) *Continent {
	t, ok := b.Territories[id]
	if !ok {
		return nil
	}
	return b.Continents[t.Continent]
}

// validate enforces the structural invariants of the board: exactly
// TerritoryCount territories, symmetric adjacency with no isolated node,
// and an exact continent partition. Invalid data is a fatal configuration
// error; the board must never be used after a validation failure.
func (b *Board) validate() error {
	if len(b.Territories) != TerritoryCount {
		return &ConfigurationError{Message: "board must have exactly 42 territories"}
	}
	if len(b.Continents) != ContinentCount {
		return &ConfigurationError{Message: "board must have exactly 6 continents"}
	}

	for id, t := range b.Territories {
		if len(t.Neighbors) == 0 {
			return &ConfigurationError{Message: "territory " + id + " has no neighbors"}
		}
		seen := make(map[string]bool, len(t.Neighbors))
		for _, n := range t.Neighbors {
			if n == id {
				return &ConfigurationError{Message: "territory " + id + " lists itself as neighbor"}
			}
			if seen[n] {
				return &ConfigurationError{Message: "territory " + id + " lists neighbor " + n + " twice"}
			}
			seen[n] = true
			if _, ok := b.Territories[n]; !ok {
				return &ConfigurationError{Message: "territory " + id + " references unknown neighbor " + n}
			}
			if !b.Adjacent(n, id) {
				return &ConfigurationError{Message: "adjacency " + id + " -> " + n + " is not symmetric"}
			}
		}
	}

	// Continent membership must partition the territory set exactly.
	assigned := make(map[string]ContinentID, TerritoryCount)
	for cid, c := range b.Continents {
		if c.Bonus <= 0 {
			return &ConfigurationError{Message: "continent " + string(cid) + " has no bonus"}
		}
		for _, m := range c.Members {
			t, ok := b.Territories[m]
			if !ok {
				return &ConfigurationError{Message: "continent " + string(cid) + " references unknown territory " + m}
			}
			if t.Continent != cid {
				return &ConfigurationError{Message: "territory " + m + " disagrees with continent " + string(cid) + " about membership"}
			}
			if prev, dup := assigned[m]; dup {
				return &ConfigurationError{Message: "territory " + m + " belongs to both " + string(prev) + " and " + string(cid)}
			}
			assigned[m] = cid
		}
	}
	if len(assigned) != TerritoryCount {
		return &ConfigurationError{Message: "continent members do not cover all territories"}
	}
	return nil
}
