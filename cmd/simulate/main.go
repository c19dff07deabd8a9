package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jmhart/world-conquest/internal/bot"
	"github.com/jmhart/world-conquest/pkg/risk"
)

// simulate runs headless bot-vs-bot games against the rules engine. It is a
// soak and balance tool: no database, no server, just many full games.
func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var (
		matchup  string
		players  int
		numGames int
		workers  int
		maxTurns int
		seed     int64
	)

	flag.StringVar(&matchup, "matchup", "easy-vs-easy", "Strategy matchup (e.g. greedy-vs-easy; first seat gets the left strategy)")
	flag.IntVar(&players, "players", 2, "Players per game (2-6)")
	flag.IntVar(&numGames, "n", 1, "Number of games to run")
	flag.IntVar(&workers, "workers", 1, "Concurrency (parallel games)")
	flag.IntVar(&maxTurns, "max-turns", 2000, "Max applied moves before a game is abandoned")
	flag.Int64Var(&seed, "seed", 0, "Base seed (0 = random)")
	flag.Parse()

	if players < risk.MinPlayers || players > risk.MaxPlayers {
		log.Fatal().Int("players", players).Msg("Player count out of range")
	}
	first, rest := parseMatchup(matchup)
	if seed == 0 {
		seed = rand.Int63()
	}

	log.Info().Str("matchup", matchup).Int("players", players).Int("games", numGames).
		Int64("seed", seed).Msg("Starting simulation")

	type result struct {
		winner    string
		turns     int
		abandoned bool
	}
	results := make([]result, numGames)

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i := 0; i < numGames; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			winner, turns, abandoned := runGame(players, maxTurns, first, rest, seed+int64(i))
			results[i] = result{winner, turns, abandoned}
		}(i)
	}
	wg.Wait()

	wins := make(map[string]int)
	abandoned := 0
	totalTurns := 0
	for _, r := range results {
		totalTurns += r.turns
		if r.abandoned {
			abandoned++
			continue
		}
		wins[r.winner]++
	}

	var seats []string
	for seat := range wins {
		seats = append(seats, seat)
	}
	sort.Strings(seats)
	for _, seat := range seats {
		fmt.Printf("%-12s %d/%d\n", seat, wins[seat], numGames)
	}
	if abandoned > 0 {
		fmt.Printf("%-12s %d/%d\n", "abandoned", abandoned, numGames)
	}
	if numGames > 0 {
		fmt.Printf("avg moves per game: %d\n", totalTurns/numGames)
	}
}

// runGame plays one full game and reports the winning seat label.
func runGame(players, maxTurns int, first, rest bot.Strategy, seed int64) (winner string, moves int, abandoned bool) {
	rng := rand.New(rand.NewSource(seed))
	roller := risk.NewSeededRoller(seed)
	board := risk.StandardBoard()

	ids := make([]string, players)
	for i := range ids {
		ids[i] = fmt.Sprintf("seat-%d", i+1)
	}
	gs, err := risk.NewGame(board, ids, rng)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to deal game")
	}

	for moves = 0; moves < maxTurns; moves++ {
		if gs.Status == risk.StatusFinished {
			if gs.Winner == ids[0] {
				return "first:" + first.Name(), moves, false
			}
			return "rest:" + rest.Name(), moves, false
		}
		cur := gs.CurrentPlayer()
		if cur == nil {
			break
		}
		strat := rest
		if cur.ID == ids[0] {
			strat = first
		}
		mv := strat.ChooseMove(gs, board, cur.ID, rng)
		next, _, err := risk.Apply(gs, mv, board, roller, nil)
		if err != nil {
			log.Error().Err(err).Str("move", mv.Describe()).Msg("Bot produced an illegal move")
			return "", moves, true
		}
		gs = next
	}
	return "", moves, true
}

// parseMatchup splits "greedy-vs-easy" into the first seat's strategy and
// everyone else's.
func parseMatchup(s string) (bot.Strategy, bot.Strategy) {
	parts := strings.SplitN(s, "-vs-", 2)
	if len(parts) != 2 {
		return bot.StrategyForDifficulty(s), bot.StrategyForDifficulty(s)
	}
	return strategyByName(parts[0]), strategyByName(parts[1])
}

func strategyByName(name string) bot.Strategy {
	switch name {
	case "greedy", "medium":
		return &bot.GreedyStrategy{}
	default:
		return &bot.RandomStrategy{}
	}
}
