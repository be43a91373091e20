package mines

import (
	"bytes"
	"encoding/gob"
	"math/rand/v2"
)

// GameState is a complete game: the fixed parameters plus the current grid
// and status. Transitions never mutate a state in place; OpenCell and
// SetFlag return a fresh value built from the previous one, so a caller
// may keep any number of historic states around and sessions never need
// locking.
type GameState struct {
	GameParams
	Status GameStatus
	Grid   Grid
}

func DecodeGameState(buf []byte) (*GameState, error) {
	var game GameState
	if err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s GameState) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewGame generates a fresh field. Mine coordinates are drawn uniformly
// without replacement from the injected random source; adjacency counts
// are derived once here and never change afterwards. Rejection sampling is
// fine for usual mine densities and still terminates at full density,
// though it degrades as MineCount approaches Width*Height.
func NewGame(params GameParams, r *rand.Rand) (GameState, error) {
	if err := params.Validate(); err != nil {
		return GameState{}, err
	}
	grid := make(Grid, params.Height)
	for y := range grid {
		grid[y] = make([]Cell, params.Width)
	}
	for planted := 0; planted < params.MineCount; {
		x, y := r.IntN(params.Width), r.IntN(params.Height)
		if grid[y][x].Mined {
			continue
		}
		// A freshly mined cell drops whatever count it accumulated while
		// it was still empty.
		grid[y][x].Mined = true
		grid[y][x].AdjacentMines = 0
		planted++
		for _, p := range neighbors(x, y, params.Width, params.Height) {
			if !grid[p.Y][p.X].Mined {
				grid[p.Y][p.X].AdjacentMines++
			}
		}
	}
	return GameState{GameParams: params, Grid: grid}, nil
}

// OpenCell reveals the cell at x:y. Opening an already opened cell is a
// no-op, opening a mine loses the game, opening the last safe cell wins
// it. There is no auto-open cascade for zero-count cells: one action opens
// one cell. x:y must be in bounds; gate untrusted input with
// [GameParams.ValidatePoint] first.
func (s GameState) OpenCell(x, y int) GameState {
	if s.Status.Over() {
		return s
	}
	cell := s.Grid[y][x]
	if cell.Opened {
		return s
	}
	next := s
	next.Grid = s.Grid.clone()
	next.Grid[y][x].Opened = true
	next.Grid[y][x].Flag = FlagNone
	switch {
	case cell.Mined:
		next.Status = Lost
	case next.Grid.won():
		next.Status = Won
	}
	return next
}

// SetFlag puts marker f on the unopened cell at x:y. Flagging an opened
// cell is a no-op and flagging can never lose the game; the win check
// still runs so every transition derives its status the same way.
func (s GameState) SetFlag(x, y int, f Flag) GameState {
	if s.Status.Over() {
		return s
	}
	if s.Grid[y][x].Opened {
		return s
	}
	next := s
	next.Grid = s.Grid.clone()
	next.Grid[y][x].Flag = f
	if next.Grid.won() {
		next.Status = Won
	}
	return next
}
