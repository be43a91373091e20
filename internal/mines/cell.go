package mines

import "fmt"

// Flag is a player-set marker on an unopened cell. It is purely
// informational and never decides a win or a loss.
type Flag uint8

const (
	FlagNone Flag = iota
	FlagUnsure
	FlagSure
)

func (f Flag) String() string {
	switch f {
	case FlagUnsure:
		return "unsure"
	case FlagSure:
		return "sure"
	default:
		return "none"
	}
}

// ParseFlag accepts both the long names used in query strings and the
// one-letter forms used by the wire command language.
func ParseFlag(s string) (Flag, error) {
	switch s {
	case "n", "none":
		return FlagNone, nil
	case "u", "unsure":
		return FlagUnsure, nil
	case "s", "sure":
		return FlagSure, nil
	}
	return FlagNone, fmt.Errorf("invalid flag %q", s)
}

type GameStatus uint8

const (
	InProgress GameStatus = iota
	Lost
	Won
)

// Over reports whether the game has reached a terminal status. Terminal
// states absorb every further action.
func (s GameStatus) Over() bool {
	return s != InProgress
}

func (s GameStatus) String() string {
	switch s {
	case Lost:
		return "lost"
	case Won:
		return "won"
	default:
		return "in_progress"
	}
}

// Cell is a single square of the field. Mined and AdjacentMines are fixed
// at generation time and never change afterwards; AdjacentMines is
// meaningful only when Mined is false, Flag only while Opened is false.
type Cell struct {
	Mined         bool
	AdjacentMines uint8
	Opened        bool
	Flag          Flag
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}
