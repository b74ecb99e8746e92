// Package generator drives rejection-sampled, no-guess board generation:
// place mines, certify the placement with a solver, and retry on
// failure. It is the only component aware of both Board and Solver.
package generator

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/herbhall/topomines/internal/board"
	"github.com/herbhall/topomines/internal/solver"
	"github.com/herbhall/topomines/internal/topology"
)

// Config is the configuration object consumed by the core: board shape,
// mine density, and the surface the board is built over.
type Config struct {
	Width, Height int
	Mines         int
	Topology      topology.Kind
}

// ErrGenerationExhausted is returned when MaxRetries attempts all
// required a guess. A new random seed typically succeeds; the caller
// may also lower Mines.
var ErrGenerationExhausted = errors.New("generator: exhausted retries without a guess-free board")

// DefaultMaxRetries and DefaultYieldEvery mirror the reference
// generator's tuning: thousands of rejection-sampling attempts, yielding
// to the host every few milliseconds of wall time.
const (
	DefaultMaxRetries = 2000
	DefaultYieldEvery = 15 * time.Millisecond
)

// Options customises a Generate call. A zero-value Options is valid:
// defaults and a time-seeded RNG are used.
type Options struct {
	MaxRetries int
	YieldEvery time.Duration
	RNG        *rand.Rand
}

func (o *Options) maxRetries() int {
	if o == nil || o.MaxRetries <= 0 {
		return DefaultMaxRetries
	}
	return o.MaxRetries
}

func (o *Options) yieldEvery() time.Duration {
	if o == nil || o.YieldEvery <= 0 {
		return DefaultYieldEvery
	}
	return o.YieldEvery
}

func (o *Options) rng() *rand.Rand {
	if o == nil || o.RNG == nil {
		return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(time.Now().UnixNano())>>1))
	}
	return o.RNG
}

// Generate loops: place mines respecting the safe zone around startIdx,
// certify with a fresh Solver, accept on success. onProgress, when
// non-nil, is invoked at each yield tick with the attempt count so far;
// it is a pure notification and must not be used to mutate shared
// state. ctx lets the host cancel generation between attempts.
func Generate(ctx context.Context, cfg Config, startIdx int, onProgress func(attempt int), opts *Options) (*board.Board, error) {
	topo, err := topology.Build(cfg.Width, cfg.Height, cfg.Topology)
	if err != nil {
		return nil, err
	}

	rng := opts.rng()
	maxRetries := opts.maxRetries()
	yieldEvery := opts.yieldEvery()
	lastYield := time.Now()

	for attempt := 1; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if time.Since(lastYield) >= yieldEvery {
			if onProgress != nil {
				onProgress(attempt)
			}
			lastYield = time.Now()
		}

		b := board.New(topo)
		if err := b.PlaceMines(rng, cfg.Mines, startIdx); err != nil {
			continue // reject and retry: infeasible draw for this attempt
		}

		s := solver.New(b, cfg.Mines)
		if s.CheckSolvability(startIdx) && fullyOpened(b) {
			b.ResetStatus() // solver opened cells for proof; discard them
			b.Open(startIdx)
			if onProgress != nil {
				onProgress(attempt)
			}
			return b, nil
		}
	}

	if onProgress != nil {
		onProgress(maxRetries)
	}
	return nil, ErrGenerationExhausted
}

// fullyOpened is the generator's own acceptance check against ground
// truth: every non-mine cell must be Opened. It consults b.IsMine
// directly rather than trusting the solver's self-reported result, so
// a soundness bug in the solver's tiers cannot slip a guessy board
// past generation.
func fullyOpened(b *board.Board) bool {
	for idx := 0; idx < b.Size(); idx++ {
		if !b.IsMine(idx) && b.Status(idx) != board.Opened {
			return false
		}
	}
	return true
}
