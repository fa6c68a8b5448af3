package main

import (
	"sync"
	"testing"
	"time"
)

func TestNewPuzzle(t *testing.T) {
	p := NewPuzzle(sampleWordSearch, XmasWord, CrossWord)

	if p.WordCount != 18 || len(p.Matches) != 18 {
		t.Fatalf("expected 18 matches, got %d (%d listed)", p.WordCount, len(p.Matches))
	}
	if p.CrossCount != 9 || len(p.Crosses) != 9 {
		t.Fatalf("expected 9 crosses, got %d (%d listed)", p.CrossCount, len(p.Crosses))
	}
	if len(p.Rows) != 10 || p.Rows[0] != "MMMSXXMASM" {
		t.Fatalf("unexpected rows: %v", p.Rows)
	}
}

func TestSaveAndGetPuzzle(t *testing.T) {
	s := NewStore()
	p := s.SavePuzzle(NewPuzzle("XMAS", XmasWord, CrossWord))

	if p.ID == "" {
		t.Fatal("expected puzzle to have an ID")
	}
	if p.CreatedAt.IsZero() {
		t.Fatal("expected creation time to be set")
	}
	if got := s.GetPuzzle(p.ID); got != p {
		t.Fatal("expected to find saved puzzle")
	}
	if got := s.GetPuzzle("nonexistent"); got != nil {
		t.Fatal("expected nil for unknown ID")
	}
}

func TestListPuzzles(t *testing.T) {
	s := NewStore()
	first := s.SavePuzzle(NewPuzzle("XMAS", XmasWord, CrossWord))
	time.Sleep(time.Millisecond)
	second := s.SavePuzzle(NewPuzzle("SAMX", XmasWord, CrossWord))

	list := s.ListPuzzles()
	if len(list) != 2 {
		t.Fatalf("expected 2 puzzles, got %d", len(list))
	}
	if list[0] != second || list[1] != first {
		t.Fatal("expected puzzles sorted by descending creation time")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup

	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := s.SavePuzzle(NewPuzzle(sampleCross, XmasWord, CrossWord))
			s.GetPuzzle(p.ID)
			s.ListPuzzles()
		}()
	}
	wg.Wait()

	if s.Len() != 20 {
		t.Fatalf("expected 20 puzzles, got %d", s.Len())
	}
}
