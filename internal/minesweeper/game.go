// Package minesweeper hosts the generator/board/solver core behind a
// small state machine and a terminal UI, the way the original game shell
// wrapped each of its puzzles in a Game plus a Bubbletea Model.
package minesweeper

import (
	"context"
	"math/rand/v2"

	"github.com/herbhall/topomines/internal/board"
	"github.com/herbhall/topomines/internal/config"
	"github.com/herbhall/topomines/internal/generator"
	"github.com/herbhall/topomines/internal/topology"
)

// State is the host-level game-state machine: INIT -> GENERATING ->
// PLAYING -> {WON, LOST}.
type State int

const (
	Init State = iota
	Generating
	Playing
	Won
	Lost
)

// Game owns one generated Board plus the state machine layered on top of
// it. It never runs the generator itself; callers drive Generate, which
// is the one fallible, potentially slow operation.
type Game struct {
	Config   generator.Config
	Board    *board.Board
	State    State
	StartIdx int
	Attempts int
}

// New creates a Game configured for preset, not yet generating.
func New(preset config.Preset) *Game {
	return &Game{Config: config.ForPreset(preset), State: Init}
}

// NewWithConfig creates a Game for an arbitrary configuration, e.g. one
// loaded from a config.LoadOverride file.
func NewWithConfig(cfg generator.Config) *Game {
	return &Game{Config: cfg, State: Init}
}

// Generate runs the no-guess generator synchronously from startIdx.
// onProgress is forwarded to generator.Generate verbatim. On success the
// Game moves to Playing with startIdx already opened; on failure it
// returns to Init so the caller can retry with a new seed.
func (g *Game) Generate(ctx context.Context, startIdx int, rng *rand.Rand, onProgress func(int)) error {
	g.State = Generating
	g.StartIdx = startIdx
	b, err := generator.Generate(ctx, g.Config, startIdx, func(attempt int) {
		g.Attempts = attempt
		if onProgress != nil {
			onProgress(attempt)
		}
	}, &generator.Options{RNG: rng})
	if err != nil {
		g.State = Init
		return err
	}
	g.Board = b
	g.State = Playing
	return nil
}

// Topology returns the generated board's adjacency graph, or nil before
// generation completes.
func (g *Game) Topology() *topology.Topology {
	if g.Board == nil {
		return nil
	}
	return g.Board.Topology()
}

// Open plays an open move at idx, transitioning to Lost on a mine and
// Won once every non-mine cell is opened. It is a no-op outside Playing.
func (g *Game) Open(idx int) {
	if g.State != Playing {
		return
	}
	if g.Board.Open(idx) {
		g.State = Lost
		return
	}
	if g.Board.CheckWin() {
		g.State = Won
	}
}

// ToggleFlag plays a flag move at idx. It is a no-op outside Playing.
func (g *Game) ToggleFlag(idx int) {
	if g.State != Playing {
		return
	}
	g.Board.ToggleFlag(idx)
}

// MinesRemaining estimates mines left to flag: total minus flags placed.
// It can go negative if the player over-flags; callers may clamp for
// display.
func (g *Game) MinesRemaining() int {
	if g.Board == nil {
		return g.Config.Mines
	}
	return g.Config.Mines - g.Board.CountFlags()
}

// Reset returns the Game to Init with the same configuration, ready for
// a fresh Generate call.
func (g *Game) Reset() {
	*g = Game{Config: g.Config, State: Init}
}
