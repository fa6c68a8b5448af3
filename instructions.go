package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// enabledSpans matches the text before the first don't() and every
	// do() ... don't() stretch after it. A span with no closing don't()
	// runs to the end of the text.
	enabledSpans = regexp.MustCompile(`^[\s\S]*?(?:don't\(\)|$)|do\(\)[\s\S]*?(?:don't\(\)|$)`)

	mulInstruction = regexp.MustCompile(`mul\(([0-9]{1,3}),([0-9]{1,3})\)`)
)

// ParseInstructions extracts the well-formed mul(a,b) instructions from
// corrupted program text, in order. With conditionals set, instructions
// disabled by a preceding don't() are skipped until the next do().
func ParseInstructions(text string, conditionals bool) []string {
	if conditionals {
		text = strings.Join(enabledSpans.FindAllString(text, -1), "")
	}
	found := mulInstruction.FindAllString(text, -1)
	if found == nil {
		return []string{}
	}
	return found
}

// SumInstructions multiplies the operands of each instruction and returns
// the sum of the products.
func SumInstructions(instructions []string) (int, error) {
	sum := 0
	for _, in := range instructions {
		m := mulInstruction.FindStringSubmatch(in)
		if m == nil || m[0] != in {
			return 0, fmt.Errorf("malformed instruction %q", in)
		}
		a, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("parse %q: %w", in, err)
		}
		b, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, fmt.Errorf("parse %q: %w", in, err)
		}
		sum += a * b
	}
	return sum, nil
}
