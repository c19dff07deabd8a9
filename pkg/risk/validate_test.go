package risk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateDeploy(t *testing.T) {
	b := StandardBoard()

	t.Run("legal deploy", func(t *testing.T) {
		gs := twoPlayerState(PhaseReinforcement, "jap")
		gs.Players[0].ArmiesToPlace = 5
		require.NoError(t, Validate(gs, Deploy("p1", "ala", 5), b))
	})

	t.Run("rejects enemy territory", func(t *testing.T) {
		gs := twoPlayerState(PhaseReinforcement, "jap")
		gs.Players[0].ArmiesToPlace = 5
		err := Validate(gs, Deploy("p1", "jap", 1), b)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Equal(t, ReasonNotOwned, vErr.Message)
	})

	t.Run("rejects more troops than available", func(t *testing.T) {
		gs := twoPlayerState(PhaseReinforcement, "jap")
		gs.Players[0].ArmiesToPlace = 3
		require.Error(t, Validate(gs, Deploy("p1", "ala", 4), b))
	})

	t.Run("rejects zero troops", func(t *testing.T) {
		gs := twoPlayerState(PhaseReinforcement, "jap")
		gs.Players[0].ArmiesToPlace = 3
		require.Error(t, Validate(gs, Deploy("p1", "ala", 0), b))
	})

	t.Run("rejects deploy outside reinforcement phase", func(t *testing.T) {
		gs := twoPlayerState(PhaseAttack, "jap")
		gs.Players[0].ArmiesToPlace = 3
		err := Validate(gs, Deploy("p1", "ala", 1), b)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Equal(t, ReasonWrongPhase, vErr.Message)
	})

	t.Run("rejects unknown territory", func(t *testing.T) {
		gs := twoPlayerState(PhaseReinforcement)
		gs.Players[0].ArmiesToPlace = 3
		require.Error(t, Validate(gs, Deploy("p1", "atlantis", 1), b))
	})
}

func TestValidateAttack(t *testing.T) {
	b := StandardBoard()

	t.Run("legal attack", func(t *testing.T) {
		gs := twoPlayerState(PhaseAttack, "kam")
		require.NoError(t, Validate(gs, Attack("p1", "ala", "kam"), b))
	})

	t.Run("rejects attacking own territory", func(t *testing.T) {
		gs := twoPlayerState(PhaseAttack, "kam")
		err := Validate(gs, Attack("p1", "alb", "ala"), b)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Equal(t, ReasonOwnTerritory, vErr.Message)
	})

	t.Run("rejects non-adjacent target", func(t *testing.T) {
		gs := twoPlayerState(PhaseAttack, "jap")
		err := Validate(gs, Attack("p1", "ala", "jap"), b)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Equal(t, ReasonNotAdjacent, vErr.Message)
	})

	t.Run("rejects attack from single army", func(t *testing.T) {
		gs := twoPlayerState(PhaseAttack, "kam")
		setTerritory(gs, "ala", "p1", 1)
		err := Validate(gs, Attack("p1", "ala", "kam"), b)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Equal(t, ReasonNeedTwoToAttack, vErr.Message)
	})

	t.Run("rejects attack outside attack phase", func(t *testing.T) {
		gs := twoPlayerState(PhaseFortify, "kam")
		require.Error(t, Validate(gs, Attack("p1", "ala", "kam"), b))
	})
}

func TestValidateFortify(t *testing.T) {
	b := StandardBoard()

	t.Run("connected through owned chain", func(t *testing.T) {
		// Indonesia - New Guinea - Eastern Australia are pairwise chained;
		// idn and eau are not directly adjacent.
		gs := twoPlayerState(PhaseFortify)
		require.False(t, b.Adjacent("idn", "eau"))
		require.NoError(t, Validate(gs, Fortify("p1", "idn", "eau", 2), b))
	})

	t.Run("blocked by enemy territory on the only path", func(t *testing.T) {
		// p2 holds everything around Japan's region except kam; a fortify
		// jap -> mon must fail because jap's only links go through enemies.
		gs := twoPlayerState(PhaseFortify, "kam", "mon")
		err := Validate(gs, Fortify("p1", "jap", "ala", 2), b)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Equal(t, ReasonNotConnected, vErr.Message)
	})

	t.Run("same territory trivially connected", func(t *testing.T) {
		gs := twoPlayerState(PhaseFortify)
		require.NoError(t, Validate(gs, Fortify("p1", "ala", "ala", 1), b))
	})

	t.Run("must leave one army behind", func(t *testing.T) {
		gs := twoPlayerState(PhaseFortify)
		err := Validate(gs, Fortify("p1", "ala", "alb", 3), b)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Equal(t, ReasonMustLeaveOne, vErr.Message)
	})

	t.Run("rejects enemy destination", func(t *testing.T) {
		gs := twoPlayerState(PhaseFortify, "kam")
		require.Error(t, Validate(gs, Fortify("p1", "ala", "kam", 1), b))
	})
}

func TestValidateTurnAndStatus(t *testing.T) {
	b := StandardBoard()

	t.Run("rejects move out of turn", func(t *testing.T) {
		gs := twoPlayerState(PhaseAttack, "kam")
		err := Validate(gs, Attack("p2", "kam", "ala"), b)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Equal(t, ReasonNotYourTurn, vErr.Message)
	})

	t.Run("rejects any move when finished", func(t *testing.T) {
		gs := twoPlayerState(PhaseAttack, "kam")
		gs.Status = StatusFinished
		gs.Winner = "p1"
		require.Error(t, Validate(gs, Skip("p1"), b))
	})

	t.Run("rejects moves before start", func(t *testing.T) {
		gs := twoPlayerState(PhaseAttack)
		gs.Status = StatusWaiting
		require.Error(t, Validate(gs, Skip("p1"), b))
	})

	t.Run("skip is otherwise always legal", func(t *testing.T) {
		for _, phase := range []GamePhase{PhaseReinforcement, PhaseAttack, PhaseFortify} {
			gs := twoPlayerState(phase, "kam")
			require.NoError(t, Validate(gs, Skip("p1"), b))
		}
	})
}

func TestValidateIsIdempotent(t *testing.T) {
	b := StandardBoard()
	gs := twoPlayerState(PhaseAttack, "kam")

	before, err := json.Marshal(gs)
	require.NoError(t, err)

	mv := Attack("p1", "ala", "kam")
	first := Validate(gs, mv, b)
	second := Validate(gs, mv, b)
	require.Equal(t, first, second)

	after, err := json.Marshal(gs)
	require.NoError(t, err)
	require.JSONEq(t, string(before), string(after), "validation must not mutate state")
}
