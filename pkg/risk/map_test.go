package risk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStandardBoard(t *testing.T) {
	b := StandardBoard()

	require.Len(t, b.Territories, TerritoryCount)
	require.Len(t, b.Continents, ContinentCount)

	t.Run("adjacency is symmetric", func(t *testing.T) {
		for id, terr := range b.Territories {
			for _, n := range terr.Neighbors {
				require.True(t, b.Adjacent(n, id), "%s -> %s must be bidirectional", id, n)
			}
		}
	})

	t.Run("continents partition the territory set", func(t *testing.T) {
		seen := make(map[string]bool)
		total := 0
		for _, c := range b.Continents {
			total += len(c.Members)
			for _, m := range c.Members {
				require.False(t, seen[m], "territory %s in two continents", m)
				seen[m] = true
				require.Equal(t, c.ID, b.Territories[m].Continent)
			}
		}
		require.Equal(t, TerritoryCount, total)
	})

	t.Run("known borders", func(t *testing.T) {
		require.True(t, b.Adjacent("ala", "kam"), "Alaska borders Kamchatka")
		require.True(t, b.Adjacent("bra", "naf"), "Brazil borders North Africa")
		require.True(t, b.Adjacent("grl", "ice"), "Greenland borders Iceland")
		require.False(t, b.Adjacent("jap", "chi"), "Japan does not border China")
		require.False(t, b.Adjacent("mad", "arg"))
	})

	t.Run("dense index round-trips", func(t *testing.T) {
		for i := 0; i < TerritoryCount; i++ {
			id := b.TerritoryID(i)
			require.Equal(t, i, b.TerritoryIndex(id))
		}
		require.Equal(t, -1, b.TerritoryIndex("atlantis"))
	})

	t.Run("continent lookup", func(t *testing.T) {
		c := b.ContinentOf("jap")
		require.NotNil(t, c)
		require.Equal(t, Asia, c.ID)
		require.Equal(t, 7, c.Bonus)
		require.Nil(t, b.ContinentOf("atlantis"))
	})

	t.Run("same pointer on repeat calls", func(t *testing.T) {
		require.Same(t, b, StandardBoard())
	})
}

func TestNewBoardRejectsMalformedData(t *testing.T) {
	base := func() ([]*TerritoryInfo, []*Continent) {
		b := StandardBoard()
		terrs := make([]*TerritoryInfo, 0, TerritoryCount)
		for i := 0; i < TerritoryCount; i++ {
			src := b.Territories[b.TerritoryID(i)]
			cp := *src
			cp.Neighbors = append([]string(nil), src.Neighbors...)
			terrs = append(terrs, &cp)
		}
		conts := make([]*Continent, 0, ContinentCount)
		for _, c := range b.Continents {
			cp := *c
			cp.Members = append([]string(nil), c.Members...)
			conts = append(conts, &cp)
		}
		return terrs, conts
	}

	t.Run("asymmetric adjacency", func(t *testing.T) {
		terrs, conts := base()
		terrs[0].Neighbors = append(terrs[0].Neighbors, "jap")

		_, err := NewBoard(terrs, conts)
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("missing territory", func(t *testing.T) {
		terrs, conts := base()
		_, err := NewBoard(terrs[:TerritoryCount-1], conts)
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("continent membership overlap", func(t *testing.T) {
		terrs, conts := base()
		for _, c := range conts {
			if c.ID == Australia {
				c.Members = append(c.Members, "jap")
			}
		}
		_, err := NewBoard(terrs, conts)
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})
}
