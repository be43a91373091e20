package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// 2x2 field with a single mine in the bottom right corner.
func cornerMineGame() GameState {
	return GameState{
		GameParams: GameParams{Width: 2, Height: 2, MineCount: 1},
		Grid: Grid{
			{{AdjacentMines: 1}, {AdjacentMines: 1}},
			{{AdjacentMines: 1}, {Mined: true}},
		},
	}
}

func TestNewGameRejectsBadParams(t *testing.T) {
	tests := []struct {
		name   string
		params GameParams
	}{
		{"zero width", GameParams{Width: 0, Height: 5, MineCount: 1}},
		{"zero height", GameParams{Width: 5, Height: 0, MineCount: 1}},
		{"negative mines", GameParams{Width: 5, Height: 5, MineCount: -1}},
		{"too many mines", GameParams{Width: 5, Height: 5, MineCount: 26}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewGame(test.params, testRand())
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestNewGameStartsInProgress(t *testing.T) {
	state, err := NewGame(GameParams{Width: 9, Height: 9, MineCount: 10}, testRand())
	require.NoError(t, err)
	assert.Equal(t, InProgress, state.Status)
	for _, row := range state.Grid {
		for _, c := range row {
			assert.False(t, c.Opened)
			assert.Equal(t, FlagNone, c.Flag)
		}
	}
}

func TestOpenMineLoses(t *testing.T) {
	state := GameState{
		GameParams: GameParams{Width: 1, Height: 1, MineCount: 1},
		Grid:       Grid{{{Mined: true}}},
	}
	next := state.OpenCell(0, 0)
	assert.Equal(t, Lost, next.Status)
	assert.True(t, next.Grid[0][0].Opened)
}

func TestOpenLastSafeCellWins(t *testing.T) {
	state, err := NewGame(GameParams{Width: 2, Height: 1, MineCount: 0}, testRand())
	require.NoError(t, err)
	for _, row := range state.Grid {
		for _, c := range row {
			require.False(t, c.Mined)
			require.Equal(t, uint8(0), c.AdjacentMines)
		}
	}

	state = state.OpenCell(0, 0)
	assert.Equal(t, InProgress, state.Status)
	assert.True(t, state.Grid[0][0].Opened)

	state = state.OpenCell(1, 0)
	assert.Equal(t, Won, state.Status)
}

func TestOpenIsIdempotent(t *testing.T) {
	state := cornerMineGame()
	once := state.OpenCell(0, 0)
	twice := once.OpenCell(0, 0)
	assert.Equal(t, once, twice)
}

func TestOpenDoesNotMutateReceiver(t *testing.T) {
	state := cornerMineGame()
	snapshot := state.Grid.clone()
	_ = state.OpenCell(0, 0)
	_ = state.SetFlag(1, 1, FlagSure)
	assert.Equal(t, snapshot, state.Grid)
	assert.Equal(t, InProgress, state.Status)
}

func TestTerminalStatesAbsorb(t *testing.T) {
	lost := cornerMineGame().OpenCell(1, 1)
	require.Equal(t, Lost, lost.Status)

	won := GameState{
		GameParams: GameParams{Width: 1, Height: 2, MineCount: 1},
		Grid:       Grid{{{Mined: true}}, {{AdjacentMines: 1}}},
	}.OpenCell(0, 1)
	require.Equal(t, Won, won.Status)

	for _, state := range []GameState{lost, won} {
		assert.Equal(t, state, state.OpenCell(0, 0))
		assert.Equal(t, state, state.SetFlag(0, 0, FlagSure))
	}
}

func TestFlagKeepsGameInProgress(t *testing.T) {
	state := cornerMineGame()
	next := state.SetFlag(1, 1, FlagSure)
	assert.Equal(t, InProgress, next.Status)
	assert.Equal(t, FlagSure, next.Grid[1][1].Flag)
	assert.True(t, next.Grid[1][1].Mined, "flagging must preserve content")

	next = next.SetFlag(1, 1, FlagNone)
	assert.Equal(t, FlagNone, next.Grid[1][1].Flag)
}

func TestFlagOnOpenedCellIsNoop(t *testing.T) {
	state := cornerMineGame().OpenCell(0, 0)
	assert.Equal(t, state, state.SetFlag(0, 0, FlagSure))
}

func TestOpenClearsFlag(t *testing.T) {
	state := cornerMineGame().SetFlag(0, 0, FlagUnsure)
	next := state.OpenCell(0, 0)
	assert.True(t, next.Grid[0][0].Opened)
	assert.Equal(t, FlagNone, next.Grid[0][0].Flag)
}

func TestFlagSurvivesOtherMoves(t *testing.T) {
	state := cornerMineGame().SetFlag(1, 0, FlagSure)
	next := state.OpenCell(0, 0)
	assert.Equal(t, InProgress, next.Status)
	assert.Equal(t, FlagSure, next.Grid[0][1].Flag)
}

func TestWonRequiresEverySafeCellOpened(t *testing.T) {
	state := cornerMineGame()
	state = state.OpenCell(0, 0)
	state = state.OpenCell(1, 0)
	// one safe cell left, the mine untouched
	assert.Equal(t, InProgress, state.Status)
	assert.False(t, state.Grid.won())

	state = state.OpenCell(0, 1)
	assert.Equal(t, Won, state.Status)
}

func TestStateSurvivesEncoding(t *testing.T) {
	state, err := NewGame(GameParams{Width: 4, Height: 4, MineCount: 3}, testRand())
	require.NoError(t, err)
	state = state.SetFlag(0, 0, FlagUnsure)

	buf, err := state.Bytes()
	require.NoError(t, err)
	decoded, err := DecodeGameState(buf)
	require.NoError(t, err)
	assert.Equal(t, state, *decoded)
}
