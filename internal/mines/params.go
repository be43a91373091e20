package mines

import (
	"errors"
	"fmt"
)

var ErrInvalidParams = errors.New("invalid game parameters")

type GameParams struct {
	Width     int `json:"width" schema:"width,required"`
	Height    int `json:"height" schema:"height,required"`
	MineCount int `json:"mine_count" schema:"mine_count,required"`
}

// Validate rejects configurations the generator cannot honor. A mine count
// above Width*Height would make the rejection sampler spin forever, so it
// is refused here instead of being capped.
func (p GameParams) Validate() error {
	if p.Width < 1 || p.Height < 1 {
		return fmt.Errorf("%w: %dx%d field", ErrInvalidParams, p.Width, p.Height)
	}
	if p.MineCount < 0 || p.MineCount > p.Width*p.Height {
		return fmt.Errorf(
			"%w: %d mines do not fit a %dx%d field",
			ErrInvalidParams, p.MineCount, p.Width, p.Height,
		)
	}
	return nil
}

// ValidatePoint is the gate trust boundaries must pass untrusted
// coordinates through before calling any transition.
func (p GameParams) ValidatePoint(x, y int) bool {
	return 0 <= x && x < p.Width && 0 <= y && y < p.Height
}
