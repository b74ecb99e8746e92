// Package solver implements the three-tier deductive solver used both to
// certify a generated board is guess-free and, optionally, to analyse a
// live position. The solver reads a Board only through its restricted
// board.View: it never consults the hidden mine array directly.
package solver

import (
	"math/bits"

	"github.com/herbhall/topomines/internal/board"
)

// bitset is a fixed-size set of cell indices backed by a uint64 word
// array, for O(1) membership and cheap cloning on Tier-3 snapshots.
type bitset struct {
	words []uint64
	n     int
}

func newBitset(n int) *bitset {
	return &bitset{words: make([]uint64, (n+63)/64), n: n}
}

func (s *bitset) Has(i int) bool { return s.words[i/64]&(1<<uint(i%64)) != 0 }
func (s *bitset) Set(i int)      { s.words[i/64] |= 1 << uint(i%64) }

func (s *bitset) Count() int {
	c := 0
	for _, w := range s.words {
		c += bits.OnesCount64(w)
	}
	return c
}

func (s *bitset) Clone() *bitset {
	return &bitset{words: append([]uint64(nil), s.words...), n: s.n}
}

// Solver accumulates knownMines/knownSafe deductions against one Board
// view and a fixed total mine count.
type Solver struct {
	view       board.View
	totalMines int
	knownMines *bitset
	knownSafe  *bitset
	isValid    bool
}

// New binds a solver to view (never the full Board, so mines stay
// hidden from solver logic) and the board's total mine count.
func New(view board.View, totalMines int) *Solver {
	return &Solver{
		view:       view,
		totalMines: totalMines,
		knownMines: newBitset(view.Size()),
		knownSafe:  newBitset(view.Size()),
		isValid:    true,
	}
}

// IsValid reports whether the solver has hit a contradiction.
func (s *Solver) IsValid() bool { return s.isValid }

// IsKnownMine reports whether idx has been deduced to be a mine.
func (s *Solver) IsKnownMine(idx int) bool { return s.knownMines.Has(idx) }

// IsKnownSafe reports whether idx has been deduced to be mine-free.
func (s *Solver) IsKnownSafe(idx int) bool { return s.knownSafe.Has(idx) }

// neighbourStats computes, for opened cell i, the number of neighbours
// already known to be mines (m), the number of neighbours still
// genuinely unknown (h), and that unknown set.
func (s *Solver) neighbourStats(i int) (m, h int, unknown []int) {
	for _, n := range s.view.Neighbours(i) {
		if s.knownMines.Has(n) {
			m++
			continue
		}
		if s.view.Status(n) == board.Hidden && !s.knownSafe.Has(n) {
			h++
			unknown = append(unknown, n)
		}
	}
	return
}

// tier1 runs the local-constraint rule to fixpoint: for each opened,
// numbered cell, either all remaining unknown neighbours are mines, all
// are safe, or no new information is available. Returns whether any
// cell moved from unknown to known across the whole fixpoint.
func (s *Solver) tier1() bool {
	progressed := false
	for {
		changed := false
		for i := 0; i < s.view.Size(); i++ {
			if s.view.Status(i) != board.Opened {
				continue
			}
			c := s.view.Count(i)
			if c <= 0 {
				continue
			}
			m, h, unknown := s.neighbourStats(i)
			r := c - m
			if r < 0 || r > h {
				s.isValid = false
				return progressed
			}
			switch {
			case r == h && h > 0:
				for _, n := range unknown {
					if !s.knownMines.Has(n) {
						s.knownMines.Set(n)
						changed = true
					}
				}
			case r == 0 && h > 0:
				for _, n := range unknown {
					if !s.knownSafe.Has(n) {
						s.knownSafe.Set(n)
						changed = true
					}
				}
			}
		}
		if !changed {
			return progressed
		}
		progressed = true
	}
}

// tier2 applies the global mine-count rule once: if the remaining mine
// budget equals (or exhausts) the pool of still-unknown hidden cells,
// every one of them is resolved in a single step.
func (s *Solver) tier2() bool {
	var unknown []int
	for i := 0; i < s.view.Size(); i++ {
		if s.view.Status(i) == board.Hidden && !s.knownMines.Has(i) && !s.knownSafe.Has(i) {
			unknown = append(unknown, i)
		}
	}
	if len(unknown) == 0 {
		return false
	}
	r := s.totalMines - s.knownMines.Count()
	if r < 0 || r > len(unknown) {
		s.isValid = false
		return false
	}

	progressed := false
	switch r {
	case len(unknown):
		for _, i := range unknown {
			s.knownMines.Set(i)
			progressed = true
		}
	case 0:
		for _, i := range unknown {
			s.knownSafe.Set(i)
			progressed = true
		}
	}
	return progressed
}

// frontier returns unknown cells adjacent to at least one opened,
// numbered cell, in the order first discovered.
func (s *Solver) frontier() []int {
	seen := newBitset(s.view.Size())
	var out []int
	for i := 0; i < s.view.Size(); i++ {
		if s.view.Status(i) != board.Opened || s.view.Count(i) <= 0 {
			continue
		}
		for _, n := range s.view.Neighbours(i) {
			if s.view.Status(n) == board.Hidden && !seen.Has(n) {
				seen.Set(n)
				out = append(out, n)
			}
		}
	}
	return out
}

// snapshot deep-copies the solver's bookkeeping plus an independent
// board view, for a disposable Tier-3 hypothesis.
func (s *Solver) snapshot() *Solver {
	return &Solver{
		view:       s.view.Snapshot(),
		totalMines: s.totalMines,
		knownMines: s.knownMines.Clone(),
		knownSafe:  s.knownSafe.Clone(),
		isValid:    s.isValid,
	}
}

// localFixpoint alternates Tier 1 and Tier 2 until neither advances or a
// contradiction appears; used inside Tier-3 hypothesis exploration.
func (s *Solver) localFixpoint() {
	for s.isValid {
		c1 := s.tier1()
		if !s.isValid {
			return
		}
		c2 := s.tier2()
		if !s.isValid || (!c1 && !c2) {
			return
		}
	}
}

// hypothesis snapshots the solver, assumes t is a mine (asMine) or safe
// (!asMine), drives the snapshot to fixpoint, and reports whether the
// assumption contradicts the constraints.
func (s *Solver) hypothesis(t int, asMine bool) bool {
	snap := s.snapshot()
	if asMine {
		snap.knownMines.Set(t)
	} else {
		snap.knownSafe.Set(t)
	}
	snap.localFixpoint()
	return !snap.isValid
}

// tier3 performs single-cell lookahead over the frontier: a cell whose
// "is a mine" hypothesis contradicts is provably safe, and vice versa.
func (s *Solver) tier3() bool {
	progressed := false
	for _, t := range s.frontier() {
		if s.knownMines.Has(t) || s.knownSafe.Has(t) {
			continue
		}
		if s.hypothesis(t, true) {
			s.knownSafe.Set(t)
			progressed = true
			continue
		}
		if s.hypothesis(t, false) {
			s.knownMines.Set(t)
			progressed = true
		}
	}
	return progressed
}

// openKnownSafe opens every cell the solver has proven safe but has not
// yet opened, feeding fresh numbered cells back into Tier 1. Returns
// whether anything was opened.
func (s *Solver) openKnownSafe() bool {
	opened := false
	for i := 0; i < s.view.Size(); i++ {
		if s.knownSafe.Has(i) && s.view.Status(i) == board.Hidden {
			s.view.Open(i)
			opened = true
		}
	}
	return opened
}

// Done reports whether every cell is either opened or proven to be a
// mine — the solver's own, ground-truth-free notion of "fully solved".
func (s *Solver) Done() bool {
	for i := 0; i < s.view.Size(); i++ {
		if s.view.Status(i) == board.Hidden && !s.knownMines.Has(i) {
			return false
		}
	}
	return true
}

// CheckSolvability opens startIdx, then alternates Tier 1 to fixpoint,
// Tier 2 once, and Tier 3 once, opening newly proven-safe cells after
// every pass, until a full pass makes no progress. It returns true iff
// the board ends up fully solved by this process alone, with no guess.
func (s *Solver) CheckSolvability(startIdx int) bool {
	s.view.Open(startIdx)
	if !s.isValid {
		return false
	}
	for {
		progressed := s.tier1()
		if !s.isValid {
			return false
		}
		if s.tier2() {
			progressed = true
		}
		if !s.isValid {
			return false
		}
		if s.tier3() {
			progressed = true
		}
		if !s.isValid {
			return false
		}
		if s.openKnownSafe() {
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return s.Done()
}
