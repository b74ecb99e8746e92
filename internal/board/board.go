// Package board owns mine placement, derived neighbour counts, and the
// per-cell visibility state for a single game. A Board is bound to one
// Topology for its whole lifetime and shares it across clones.
package board

import (
	"errors"
	"math/rand/v2"

	"github.com/herbhall/topomines/internal/topology"
)

// Status is the player-visible state of a cell.
type Status int

const (
	Hidden Status = iota
	Opened
	Flagged
)

func (s Status) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Opened:
		return "opened"
	case Flagged:
		return "flagged"
	default:
		return "unknown"
	}
}

var (
	// ErrAlreadyPlaced is returned when PlaceMines is called a second
	// time on the same Board.
	ErrAlreadyPlaced = errors.New("board: mines already placed")
	// ErrPlacementInfeasible is returned when the requested mine count
	// cannot fit outside the safe zone, or the bounded random sampler
	// exhausted its attempt budget.
	ErrPlacementInfeasible = errors.New("board: mine count infeasible for the safe zone")
)

// maxAttemptsPerCell bounds PlaceMines' rejection sampler: 20*W*H draws
// before giving up, per the spec's guard against pathological configs.
const maxAttemptsPerCell = 20

// View is the read-only projection of a Board exposed to a solver. It
// deliberately omits the hidden mine array: solver logic must reach its
// conclusions from status and neighbour counts alone.
type View interface {
	Size() int
	Status(idx int) Status
	Count(idx int) int
	Neighbours(idx int) []int
	Open(idx int) bool
	// Snapshot returns an independent, mutable copy for a hypothetical
	// exploration that must not disturb the caller's state.
	Snapshot() View
}

// Board holds one game's mutable state: mine placement (ground truth),
// per-cell status, and cached neighbour mine counts.
type Board struct {
	topo   *topology.Topology
	mines  []bool
	status []Status
	counts []int // -1 for mine cells
	total  int
	placed bool
}

// New creates an empty Board over topo: every cell Hidden, no mines
// placed yet.
func New(topo *topology.Topology) *Board {
	n := topo.Size()
	return &Board{
		topo:   topo,
		mines:  make([]bool, n),
		status: make([]Status, n),
		counts: make([]int, n),
	}
}

// NewWithMines builds a Board with mines at exact coordinates, bypassing
// PlaceMines. Intended for tests that need a reproducible layout rather
// than a random one.
func NewWithMines(topo *topology.Topology, mineCoords [][2]int) *Board {
	b := New(topo)
	for _, xy := range mineCoords {
		b.mines[topo.ToIndex(xy[0], xy[1])] = true
	}
	b.total = len(mineCoords)
	b.placed = true
	b.computeCounts()
	return b
}

// Topology returns the Topology this Board was built over.
func (b *Board) Topology() *topology.Topology { return b.topo }

// Size returns the total cell count.
func (b *Board) Size() int { return len(b.status) }

// Status returns the visible state of idx.
func (b *Board) Status(idx int) Status { return b.status[idx] }

// Count returns the cached neighbour mine count of idx, or -1 if idx is
// a mine.
func (b *Board) Count(idx int) int { return b.counts[idx] }

// Neighbours delegates to the underlying Topology.
func (b *Board) Neighbours(idx int) []int { return b.topo.Neighbours(idx) }

// IsMine exposes the hidden ground truth. Reserved for the generator's
// final acceptance check and for review/lost-state rendering; solver
// logic must never call this.
func (b *Board) IsMine(idx int) bool { return b.mines[idx] }

// TotalMines returns the mine count fixed by PlaceMines.
func (b *Board) TotalMines() int { return b.total }

func safeZone(topo *topology.Topology, start int) map[int]bool {
	zone := make(map[int]bool, len(topo.Neighbours(start))+1)
	zone[start] = true
	for _, n := range topo.Neighbours(start) {
		zone[n] = true
	}
	return zone
}

// PlaceMines samples mineCount distinct indices uniformly at random from
// outside the safe zone around startIdx (startIdx and its neighbours),
// then fills the cached neighbour counts. It may be called exactly once
// per Board.
func (b *Board) PlaceMines(rng *rand.Rand, mineCount, startIdx int) error {
	if b.placed {
		return ErrAlreadyPlaced
	}
	n := b.Size()
	zone := safeZone(b.topo, startIdx)
	if mineCount < 0 || mineCount > n-len(zone) {
		return ErrPlacementInfeasible
	}

	placed := 0
	attempts := 0
	maxAttempts := maxAttemptsPerCell * n
	for placed < mineCount {
		if attempts >= maxAttempts {
			return ErrPlacementInfeasible
		}
		attempts++
		idx := rng.IntN(n)
		if zone[idx] || b.mines[idx] {
			continue
		}
		b.mines[idx] = true
		placed++
	}

	b.total = mineCount
	b.placed = true
	b.computeCounts()
	return nil
}

func (b *Board) computeCounts() {
	for idx := range b.counts {
		if b.mines[idx] {
			b.counts[idx] = -1
			continue
		}
		count := 0
		for _, n := range b.topo.Neighbours(idx) {
			if b.mines[n] {
				count++
			}
		}
		b.counts[idx] = count
	}
}

// Open uncovers idx. It is a no-op (returns false) if idx is not
// Hidden. Opening a mine returns true ("exploded"). Opening a cell with
// zero neighbouring mines floods outward through an explicit work-list,
// so stack depth never scales with board size.
func (b *Board) Open(idx int) bool {
	if b.status[idx] != Hidden {
		return false
	}
	if b.mines[idx] {
		b.status[idx] = Opened
		return true
	}

	work := []int{idx}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		if b.status[cur] != Hidden {
			continue
		}
		b.status[cur] = Opened
		if b.counts[cur] == 0 {
			work = append(work, b.topo.Neighbours(cur)...)
		}
	}
	return false
}

// ToggleFlag flips idx between Hidden and Flagged; it is a no-op on an
// Opened cell.
func (b *Board) ToggleFlag(idx int) {
	switch b.status[idx] {
	case Hidden:
		b.status[idx] = Flagged
	case Flagged:
		b.status[idx] = Hidden
	}
}

// CountFlags tallies Flagged cells.
func (b *Board) CountFlags() int {
	n := 0
	for _, s := range b.status {
		if s == Flagged {
			n++
		}
	}
	return n
}

// CheckWin reports whether every non-mine cell is Opened. Mine cells
// may be left Hidden or Flagged; their state does not affect victory.
func (b *Board) CheckWin() bool {
	for idx, s := range b.status {
		if !b.mines[idx] && s != Opened {
			return false
		}
	}
	return true
}

// ResetStatus returns every cell to Hidden without touching mine
// placement or cached counts. Used by the generator to discard the
// opened cells it exposed while proving solvability, before seeding the
// real game with a single opening move.
func (b *Board) ResetStatus() {
	for i := range b.status {
		b.status[i] = Hidden
	}
}

// Clone deep-copies all mutable arrays; the immutable Topology is
// shared, not copied.
func (b *Board) Clone() *Board {
	return &Board{
		topo:   b.topo,
		mines:  append([]bool(nil), b.mines...),
		status: append([]Status(nil), b.status...),
		counts: append([]int(nil), b.counts...),
		total:  b.total,
		placed: b.placed,
	}
}

// Snapshot implements View: it returns a Clone boxed as the restricted
// interface, for a solver's Tier-3 hypothesis exploration.
func (b *Board) Snapshot() View { return b.Clone() }
