package main

import "strings"

// Grid is a letter matrix read from puzzle text, indexed as [row][col].
// Rows are not required to have the same length.
type Grid [][]rune

// Point is a cell coordinate: X is the column, Y the row.
// Either may be negative while probing; such points are never inside a grid.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the point n steps away from p along d.
func (p Point) Step(d Direction, n int) Point {
	dx, dy := d.Delta()
	return Point{X: p.X + n*dx, Y: p.Y + n*dy}
}

// ParseGrid splits text on line breaks and turns every character of a line
// into one cell. Nothing is trimmed, so a trailing newline yields an empty
// last row.
func ParseGrid(text string) Grid {
	lines := strings.Split(text, "\n")
	g := make(Grid, len(lines))
	for i, line := range lines {
		g[i] = []rune(line)
	}
	return g
}

// At returns the character at p, or false if p lies outside the grid.
func (g Grid) At(p Point) (rune, bool) {
	if p.X < 0 || p.Y < 0 || p.Y >= len(g) || p.X >= len(g[p.Y]) {
		return 0, false
	}
	return g[p.Y][p.X], true
}

// Rows returns the grid as one string per row.
func (g Grid) Rows() []string {
	rows := make([]string, len(g))
	for i, row := range g {
		rows[i] = string(row)
	}
	return rows
}
