package mines

// Grid is the full field, indexed [row][column]. It holds complete
// knowledge of the game, mines included; player-facing code must project
// it through [GameState.PlayerView] instead of reading it directly.
type Grid [][]Cell

func (g Grid) clone() Grid {
	next := make(Grid, len(g))
	for y, row := range g {
		next[y] = make([]Cell, len(row))
		copy(next[y], row)
	}
	return next
}

// won reports whether every safe cell has been opened. Mines may remain
// unopened and unflagged.
func (g Grid) won() bool {
	for _, row := range g {
		for _, c := range row {
			if !c.Mined && !c.Opened {
				return false
			}
		}
	}
	return true
}

// neighbors returns the coordinates adjacent to x:y clipped at the field
// borders: 3 for a corner, 5 for an edge cell, 8 for an interior one.
// x:y itself is never included.
func neighbors(x, y, width, height int) []Point {
	points := make([]Point, 0, 8)
	for ny := max(0, y-1); ny <= min(height-1, y+1); ny++ {
		for nx := max(0, x-1); nx <= min(width-1, x+1); nx++ {
			if nx == x && ny == y {
				continue
			}
			points = append(points, Point{nx, ny})
		}
	}
	return points
}
