package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// CellView is what a player may legally see of a single cell.
type CellView int8

/*
 * Each item in a view is one of the following values:
 *
 * 	- 0 to 8 mean the cell is open and has a surrounding mine
 * 	  count.
 *
 * 	- -1 means the cell is flagged as a mine.
 *
 * 	- -2 means the cell is unopened and unmarked.
 *
 * 	- -3 means the cell is marked with a question mark.
 *
 * 	- 64 means the cell was correctly flagged, shown when the game
 * 	  is over.
 *
 * 	- 65 means the cell held the mine the player hit.
 *
 * 	- 66 means the cell was incorrectly flagged, shown when the
 * 	  game is over.
 *
 * 	- 67 means the cell held a mine nobody flagged, shown when the
 * 	  game is over.
 */
const (
	Question CellView = -3
	Unknown  CellView = -2
	Flagged  CellView = -1

	CorrectlyFlagged CellView = 64
	ExplodedMine     CellView = 65
	FalselyFlagged   CellView = 66
	UnflaggedMine    CellView = 67
)

func (v CellView) String() string {
	switch {
	case v == Question:
		return "?"
	case v == Unknown:
		return " "
	case v == Flagged || v == CorrectlyFlagged:
		return "*"
	case 0 <= v && v <= 8:
		return strconv.Itoa(int(v))
	default:
		return "!"
	}
}

// GridView is a player-facing projection of a grid, row by row.
type GridView []CellView

func (g GridView) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			i := y*width + x
			if i >= len(g) {
				break
			}
			fmt.Fprint(&b, g[i].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

// PlayerView projects the grid onto what the player may see. While the
// game is in progress an unopened cell exposes only its flag marker, never
// whether it holds a mine. Once the game is over mine placement is
// revealed: the exploded mine, unflagged mines, false flags and the
// adjacency counts of cells that were never opened.
func (s GameState) PlayerView() GridView {
	view := make(GridView, 0, s.Width*s.Height)
	for _, row := range s.Grid {
		for _, c := range row {
			view = append(view, s.cellView(c))
		}
	}
	return view
}

func (s GameState) cellView(c Cell) CellView {
	if c.Opened {
		if c.Mined {
			return ExplodedMine
		}
		return CellView(c.AdjacentMines)
	}
	if !s.Status.Over() {
		switch c.Flag {
		case FlagSure:
			return Flagged
		case FlagUnsure:
			return Question
		default:
			return Unknown
		}
	}
	switch {
	case c.Mined && c.Flag == FlagSure:
		return CorrectlyFlagged
	case c.Mined:
		return UnflaggedMine
	case c.Flag == FlagSure:
		return FalselyFlagged
	default:
		return CellView(c.AdjacentMines)
	}
}
