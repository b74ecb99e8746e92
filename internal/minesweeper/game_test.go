package minesweeper

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/herbhall/topomines/internal/board"
	"github.com/herbhall/topomines/internal/config"
)

func TestGenerateTransitionsToPlaying(t *testing.T) {
	g := New(config.Beginner)
	if g.State != Init {
		t.Fatal("new game should start in Init")
	}

	rng := rand.New(rand.NewPCG(1, 1))
	if err := g.Generate(context.Background(), 40, rng, nil); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if g.State != Playing {
		t.Fatalf("state = %v, want Playing", g.State)
	}
	if g.Board == nil {
		t.Fatal("board should be populated after a successful generate")
	}
	if g.Topology() == nil {
		t.Error("Topology() should be available once generation succeeds")
	}
}

func TestOpenMineTransitionsToLost(t *testing.T) {
	g := New(config.Beginner)
	rng := rand.New(rand.NewPCG(2, 2))
	if err := g.Generate(context.Background(), 40, rng, nil); err != nil {
		t.Fatal(err)
	}

	mineIdx := -1
	for idx := 0; idx < g.Board.Size(); idx++ {
		if g.Board.IsMine(idx) {
			mineIdx = idx
			break
		}
	}
	if mineIdx == -1 {
		t.Fatal("generated board has no mines, test setup is wrong")
	}

	g.Open(mineIdx)
	if g.State != Lost {
		t.Fatalf("state = %v, want Lost after opening a mine", g.State)
	}
}

func TestOpenIsNoopBeforeGeneration(t *testing.T) {
	g := New(config.Beginner)
	g.Open(0)
	if g.State != Init {
		t.Errorf("state = %v, want Init (Open should no-op before generation)", g.State)
	}
}

func TestToggleFlagTracksMinesRemaining(t *testing.T) {
	g := New(config.Beginner)
	rng := rand.New(rand.NewPCG(3, 3))
	if err := g.Generate(context.Background(), 40, rng, nil); err != nil {
		t.Fatal(err)
	}

	before := g.MinesRemaining()
	var hiddenIdx int
	for idx := 0; idx < g.Board.Size(); idx++ {
		if g.Board.Status(idx) == board.Hidden {
			hiddenIdx = idx
			break
		}
	}
	g.ToggleFlag(hiddenIdx)
	if g.MinesRemaining() != before-1 {
		t.Errorf("MinesRemaining after flag = %d, want %d", g.MinesRemaining(), before-1)
	}
	g.ToggleFlag(hiddenIdx)
	if g.MinesRemaining() != before {
		t.Errorf("MinesRemaining after unflag = %d, want %d", g.MinesRemaining(), before)
	}
}

func TestResetReturnsToInit(t *testing.T) {
	g := New(config.Beginner)
	rng := rand.New(rand.NewPCG(4, 4))
	if err := g.Generate(context.Background(), 40, rng, nil); err != nil {
		t.Fatal(err)
	}
	g.Reset()
	if g.State != Init {
		t.Errorf("state = %v, want Init after Reset", g.State)
	}
	if g.Board != nil {
		t.Error("Reset should clear the board")
	}
}
