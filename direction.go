package main

import "fmt"

// Direction is one of the eight compass directions a word can run in.
// Up decreases the row index, Right increases the column index.
type Direction int

const (
	Right Direction = iota
	Left
	Up
	Down
	UpRight
	UpLeft
	DownRight
	DownLeft
)

var directionSteps = [...]struct {
	dx, dy int
	name   string
}{
	Right:     {1, 0, "right"},
	Left:      {-1, 0, "left"},
	Up:        {0, -1, "up"},
	Down:      {0, 1, "down"},
	UpRight:   {1, -1, "up-right"},
	UpLeft:    {-1, -1, "up-left"},
	DownRight: {1, 1, "down-right"},
	DownLeft:  {-1, 1, "down-left"},
}

// Directions lists every direction a word search reads in.
var Directions = []Direction{Right, Left, Up, Down, UpRight, UpLeft, DownRight, DownLeft}

// Diagonals pairs the two reading directions of each diagonal of an X.
var Diagonals = [2][2]Direction{
	{DownRight, UpLeft},
	{DownLeft, UpRight},
}

// Delta returns the column and row offset of a single step.
func (d Direction) Delta() (dx, dy int) {
	if !d.valid() {
		return 0, 0
	}
	s := directionSteps[d]
	return s.dx, s.dy
}

func (d Direction) String() string {
	if !d.valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionSteps[d].name
}

// MarshalText encodes the direction by name so matches read well as JSON.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.valid() {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(directionSteps[d].name), nil
}

// UnmarshalText is the inverse of MarshalText.
func (d *Direction) UnmarshalText(text []byte) error {
	for i, s := range directionSteps {
		if s.name == string(text) {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("unknown direction %q", text)
}

func (d Direction) valid() bool {
	return d >= 0 && int(d) < len(directionSteps)
}
