package main

import "unicode/utf8"

const (
	// XmasWord is the word counted by the plain word search.
	XmasWord = "XMAS"
	// CrossWord is the word that must appear on both diagonals of an X.
	CrossWord = "MAS"
)

// Match is one occurrence of a word: where it starts and which way it runs.
type Match struct {
	Start     Point     `json:"start"`
	Direction Direction `json:"direction"`
}

// MatchesFrom reports whether word is spelled in g starting at start and
// advancing one cell per character along d. Any character that falls
// outside the grid or differs from the word fails the whole match.
func (g Grid) MatchesFrom(start Point, d Direction, word string) bool {
	i := 0
	for _, want := range word {
		got, ok := g.At(start.Step(d, i))
		if !ok || got != want {
			return false
		}
		i++
	}
	return true
}

// FindWord returns every (start, direction) pair where word matches.
// Matches sharing a start cell are reported once per direction. Words that
// are empty or not valid UTF-8 never match.
func (g Grid) FindWord(word string) []Match {
	if !utf8.ValidString(word) {
		return nil
	}
	first, size := utf8.DecodeRuneInString(word)
	if size == 0 {
		return nil
	}

	var matches []Match
	for y, row := range g {
		for x, r := range row {
			if r != first {
				continue
			}
			start := Point{X: x, Y: y}
			for _, d := range Directions {
				if g.MatchesFrom(start, d, word) {
					matches = append(matches, Match{Start: start, Direction: d})
				}
			}
		}
	}
	return matches
}

// FindCross returns the center of every X formed by word, which must be
// valid UTF-8 with an odd length of at least three. For each cell holding the
// word's middle character, both diagonals through it are read from each end;
// the cell is a center when each diagonal spells the word in at least one
// reading direction.
func (g Grid) FindCross(word string) []Point {
	if !utf8.ValidString(word) {
		return nil
	}
	runes := []rune(word)
	if len(runes) < 3 || len(runes)%2 == 0 {
		return nil
	}
	half := len(runes) / 2
	center := runes[half]

	var centers []Point
	for y, row := range g {
		for x, r := range row {
			if r != center {
				continue
			}
			p := Point{X: x, Y: y}
			if g.crossesAt(p, half, word) {
				centers = append(centers, p)
			}
		}
	}
	return centers
}

// crossesAt reports whether word runs through p along both diagonals.
func (g Grid) crossesAt(p Point, half int, word string) bool {
	for _, diagonal := range Diagonals {
		matched := false
		for _, d := range diagonal {
			if g.MatchesFrom(p.Step(d, -half), d, word) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// CountWord parses text and counts the occurrences of word in all eight
// directions.
func CountWord(text, word string) int {
	return len(ParseGrid(text).FindWord(word))
}

// CountCross parses text and counts the X-shaped pairs of "MAS".
func CountCross(text string) int {
	return len(ParseGrid(text).FindCross(CrossWord))
}
