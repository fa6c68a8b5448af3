package main

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Puzzle is a solved word-search grid.
type Puzzle struct {
	ID         string    `json:"id"`
	Rows       []string  `json:"rows"`
	Word       string    `json:"word"`
	WordCount  int       `json:"word_count"`
	Matches    []Match   `json:"matches"`
	CrossWord  string    `json:"cross_word"`
	CrossCount int       `json:"cross_count"`
	Crosses    []Point   `json:"crosses"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewPuzzle parses text and runs both searches on it.
func NewPuzzle(text, word, crossWord string) *Puzzle {
	g := ParseGrid(text)
	matches := g.FindWord(word)
	crosses := g.FindCross(crossWord)
	return &Puzzle{
		Rows:       g.Rows(),
		Word:       word,
		WordCount:  len(matches),
		Matches:    matches,
		CrossWord:  crossWord,
		CrossCount: len(crosses),
		Crosses:    crosses,
	}
}

// Store holds solved puzzles in memory.
type Store struct {
	mu      sync.RWMutex
	puzzles map[string]*Puzzle
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		puzzles: make(map[string]*Puzzle),
	}
}

// SavePuzzle records a puzzle and returns it with a generated ID.
func (s *Store) SavePuzzle(p *Puzzle) *Puzzle {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()

	s.mu.Lock()
	s.puzzles[p.ID] = p
	s.mu.Unlock()

	return p
}

// GetPuzzle returns a puzzle by ID, or nil if not found.
func (s *Store) GetPuzzle(id string) *Puzzle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puzzles[id]
}

// ListPuzzles returns all puzzles, most recent first.
func (s *Store) ListPuzzles() []*Puzzle {
	s.mu.RLock()
	list := make([]*Puzzle, 0, len(s.puzzles))
	for _, p := range s.puzzles {
		list = append(list, p)
	}
	s.mu.RUnlock()

	slices.SortFunc(list, func(a, b *Puzzle) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return list
}

// Len returns the number of stored puzzles.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.puzzles)
}
