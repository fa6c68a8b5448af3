package main

import (
	"fmt"
	"slices"
)

// Solver computes the answer of one puzzle part from its raw input.
type Solver func(text string) (int, error)

// solvers holds the two parts of each supported day.
var solvers = map[int][2]Solver{
	3: {
		func(text string) (int, error) { return SumInstructions(ParseInstructions(text, false)) },
		func(text string) (int, error) { return SumInstructions(ParseInstructions(text, true)) },
	},
	4: {
		func(text string) (int, error) { return CountWord(text, XmasWord), nil },
		func(text string) (int, error) { return CountCross(text), nil },
	},
}

// Solve runs part 1 or 2 of the given day on text.
func Solve(day, part int, text string) (int, error) {
	parts, ok := solvers[day]
	if !ok {
		return 0, fmt.Errorf("no solver for day %d (available: %v)", day, Days())
	}
	if part < 1 || part > len(parts) {
		return 0, fmt.Errorf("part must be 1 or 2, got %d", part)
	}
	return parts[part-1](text)
}

// Days returns the supported days in ascending order.
func Days() []int {
	days := make([]int, 0, len(solvers))
	for d := range solvers {
		days = append(days, d)
	}
	slices.Sort(days)
	return days
}
