package topology

import "testing"

// assertSymmetric walks every adjacency entry and checks the inverse
// relation holds, per the adjacency-symmetry invariant.
func assertSymmetric(t *testing.T, topo *Topology) {
	t.Helper()
	for i := 0; i < topo.Size(); i++ {
		for _, j := range topo.Neighbours(i) {
			found := false
			for _, back := range topo.Neighbours(j) {
				if back == i {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("asymmetric adjacency: %d -> %d but not %d -> %d", i, j, j, i)
			}
		}
	}
}

func assertNoSelfLoopsOrDupes(t *testing.T, topo *Topology) {
	t.Helper()
	for i := 0; i < topo.Size(); i++ {
		seen := make(map[int]bool)
		for _, j := range topo.Neighbours(i) {
			if j == i {
				t.Errorf("cell %d lists itself as a neighbour", i)
			}
			if seen[j] {
				t.Errorf("cell %d lists neighbour %d twice", i, j)
			}
			seen[j] = true
		}
	}
}

func TestSquareCornerEdgeInterior(t *testing.T) {
	topo, err := Build(4, 4, Square)
	if err != nil {
		t.Fatal(err)
	}
	assertSymmetric(t, topo)
	assertNoSelfLoopsOrDupes(t, topo)

	if got := len(topo.Neighbours(topo.ToIndex(0, 0))); got != 3 {
		t.Errorf("corner neighbours = %d, want 3", got)
	}
	if got := len(topo.Neighbours(topo.ToIndex(1, 0))); got != 5 {
		t.Errorf("edge neighbours = %d, want 5", got)
	}
	if got := len(topo.Neighbours(topo.ToIndex(1, 1))); got != 8 {
		t.Errorf("interior neighbours = %d, want 8", got)
	}
}

func TestTorusEveryCellHasEight(t *testing.T) {
	topo, err := Build(4, 4, Torus)
	if err != nil {
		t.Fatal(err)
	}
	assertSymmetric(t, topo)
	assertNoSelfLoopsOrDupes(t, topo)

	for i := 0; i < topo.Size(); i++ {
		if got := len(topo.Neighbours(i)); got != 8 {
			t.Errorf("cell %d has %d neighbours, want 8", i, got)
		}
	}
}

func TestMobiusSymmetry(t *testing.T) {
	topo, err := Build(5, 4, Mobius)
	if err != nil {
		t.Fatal(err)
	}
	assertSymmetric(t, topo)
	assertNoSelfLoopsOrDupes(t, topo)
	for i := 0; i < topo.Size(); i++ {
		if n := len(topo.Neighbours(i)); n < 3 || n > 8 {
			t.Errorf("cell %d has %d neighbours, want 3..8", i, n)
		}
	}
}

func TestKleinSymmetry(t *testing.T) {
	topo, err := Build(5, 4, Klein)
	if err != nil {
		t.Fatal(err)
	}
	assertSymmetric(t, topo)
	assertNoSelfLoopsOrDupes(t, topo)
}

func TestProjectiveSymmetry(t *testing.T) {
	topo, err := Build(5, 5, Projective)
	if err != nil {
		t.Fatal(err)
	}
	assertSymmetric(t, topo)
	assertNoSelfLoopsOrDupes(t, topo)
}

func TestBuildRejectsInvalidDimensions(t *testing.T) {
	cases := []struct {
		name          string
		width, height int
		kind          Kind
	}{
		{"zero width", 0, 5, Square},
		{"negative height", 5, -1, Square},
		{"torus too small", 2, 2, Torus},
		{"mobius too narrow", 1, 4, Mobius},
		{"klein too small", 2, 5, Klein},
		{"projective too small", 3, 3, Projective},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Build(c.width, c.height, c.kind); err == nil {
				t.Errorf("Build(%d,%d,%s) succeeded, want InvalidDimensionsError", c.width, c.height, c.kind)
			}
		})
	}
}

func TestCoordRoundTrip(t *testing.T) {
	topo, err := Build(7, 5, Square)
	if err != nil {
		t.Fatal(err)
	}
	for idx := 0; idx < topo.Size(); idx++ {
		x, y := topo.ToCoord(idx)
		if got := topo.ToIndex(x, y); got != idx {
			t.Errorf("ToIndex(ToCoord(%d)) = %d, want %d", idx, got, idx)
		}
	}
}
