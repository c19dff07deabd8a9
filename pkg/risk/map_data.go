package risk

import "sync"

var (
	stdBoardOnce sync.Once
	stdBoardInst *Board
)

// StandardBoard returns the standard 42-territory Risk board with all
// continents and adjacencies. The board is built and validated once and
// cached; subsequent calls return the same pointer. Callers must not mutate
// the returned board. Panics if the embedded data fails structural
// validation, since the process cannot run with a malformed board.
func StandardBoard() *Board {
	stdBoardOnce.Do(func() {
		b, err := buildStandardBoard()
		if err != nil {
			panic(err)
		}
		stdBoardInst = b
	})
	return stdBoardInst
}

// NewBoard builds a board from territory and continent definitions and runs
// the structural validation. Used for custom maps; StandardBoard covers the
// classic game.
func NewBoard(territories []*TerritoryInfo, continents []*Continent) (*Board, error) {
	b := &Board{
		Territories: make(map[string]*TerritoryInfo, len(territories)),
		Continents:  make(map[ContinentID]*Continent, len(continents)),
		terrIndex:   make(map[string]int, len(territories)),
	}
	for i, t := range territories {
		b.Territories[t.ID] = t
		if i < TerritoryCount {
			b.terrIndex[t.ID] = i
			b.terrIDs[i] = t.ID
		}
	}
	for _, c := range continents {
		b.Continents[c.ID] = c
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func buildStandardBoard() (*Board, error) {
	var territories []*TerritoryInfo
	var continents []*Continent

	terr := func(id, name string, continent ContinentID, neighbors ...string) {
		territories = append(territories, &TerritoryInfo{
			ID:        id,
			Name:      name,
			Continent: continent,
			Neighbors: neighbors,
		})
	}

	cont := func(id ContinentID, name string, bonus int, members ...string) {
		continents = append(continents, &Continent{
			ID:      id,
			Name:    name,
			Bonus:   bonus,
			Members: members,
		})
	}

	// =========================================================================
	// North America (9 territories, bonus 5)
	// =========================================================================
	terr("ala", "Alaska", NorthAmerica, "nwt", "alb", "kam")
	terr("nwt", "Northwest Territory", NorthAmerica, "ala", "alb", "ont", "grl")
	terr("grl", "Greenland", NorthAmerica, "nwt", "ont", "que", "ice")
	terr("alb", "Alberta", NorthAmerica, "ala", "nwt", "ont", "wus")
	terr("ont", "Ontario", NorthAmerica, "nwt", "alb", "grl", "que", "wus", "eus")
	terr("que", "Quebec", NorthAmerica, "grl", "ont", "eus")
	terr("wus", "Western United States", NorthAmerica, "alb", "ont", "eus", "cam")
	terr("eus", "Eastern United States", NorthAmerica, "ont", "que", "wus", "cam")
	terr("cam", "Central America", NorthAmerica, "wus", "eus", "ven")

	// =========================================================================
	// South America (4 territories, bonus 2)
	// =========================================================================
	terr("ven", "Venezuela", SouthAmerica, "cam", "bra", "per")
	terr("bra", "Brazil", SouthAmerica, "ven", "per", "arg", "naf")
	terr("per", "Peru", SouthAmerica, "ven", "bra", "arg")
	terr("arg", "Argentina", SouthAmerica, "bra", "per")

	// =========================================================================
	// Europe (7 territories, bonus 5)
	// =========================================================================
	terr("ice", "Iceland", Europe, "grl", "gbr", "sca")
	terr("gbr", "Great Britain", Europe, "ice", "sca", "neu", "weu")
	terr("sca", "Scandinavia", Europe, "ice", "gbr", "neu", "ukr")
	terr("ukr", "Ukraine", Europe, "sca", "neu", "seu", "ura", "afg", "mde")
	terr("neu", "Northern Europe", Europe, "gbr", "sca", "ukr", "seu", "weu")
	terr("seu", "Southern Europe", Europe, "neu", "ukr", "weu", "mde", "egy", "naf")
	terr("weu", "Western Europe", Europe, "gbr", "neu", "seu", "naf")

	// =========================================================================
	// Africa (6 territories, bonus 3)
	// =========================================================================
	terr("naf", "North Africa", Africa, "bra", "weu", "seu", "egy", "eaf", "cgo")
	terr("egy", "Egypt", Africa, "seu", "mde", "naf", "eaf")
	terr("eaf", "East Africa", Africa, "egy", "mde", "naf", "cgo", "saf", "mad")
	terr("cgo", "Congo", Africa, "naf", "eaf", "saf")
	terr("saf", "South Africa", Africa, "cgo", "eaf", "mad")
	terr("mad", "Madagascar", Africa, "eaf", "saf")

	// =========================================================================
	// Asia (12 territories, bonus 7)
	// =========================================================================
	terr("ura", "Ural", Asia, "ukr", "sib", "chi", "afg")
	terr("sib", "Siberia", Asia, "ura", "yak", "irk", "mon", "chi")
	terr("yak", "Yakutsk", Asia, "sib", "kam", "irk")
	terr("kam", "Kamchatka", Asia, "yak", "irk", "mon", "jap", "ala")
	terr("irk", "Irkutsk", Asia, "sib", "yak", "kam", "mon")
	terr("mon", "Mongolia", Asia, "sib", "irk", "kam", "jap", "chi")
	terr("jap", "Japan", Asia, "kam", "mon")
	terr("afg", "Afghanistan", Asia, "ukr", "ura", "chi", "ind", "mde")
	terr("chi", "China", Asia, "ura", "sib", "mon", "afg", "ind", "sia")
	terr("mde", "Middle East", Asia, "ukr", "seu", "egy", "eaf", "afg", "ind")
	terr("ind", "India", Asia, "afg", "chi", "mde", "sia")
	terr("sia", "Siam", Asia, "chi", "ind", "idn")

	// =========================================================================
	// Australia (4 territories, bonus 2)
	// =========================================================================
	terr("idn", "Indonesia", Australia, "sia", "npg", "wau")
	terr("npg", "New Guinea", Australia, "idn", "wau", "eau")
	terr("wau", "Western Australia", Australia, "idn", "npg", "eau")
	terr("eau", "Eastern Australia", Australia, "npg", "wau")

	cont(NorthAmerica, "North America", 5,
		"ala", "nwt", "grl", "alb", "ont", "que", "wus", "eus", "cam")
	cont(SouthAmerica, "South America", 2,
		"ven", "bra", "per", "arg")
	cont(Europe, "Europe", 5,
		"ice", "gbr", "sca", "ukr", "neu", "seu", "weu")
	cont(Africa, "Africa", 3,
		"naf", "egy", "eaf", "cgo", "saf", "mad")
	cont(Asia, "Asia", 7,
		"ura", "sib", "yak", "kam", "irk", "mon", "jap", "afg", "chi", "mde", "ind", "sia")
	cont(Australia, "Australia", 2,
		"idn", "npg", "wau", "eau")

	return NewBoard(territories, continents)
}
