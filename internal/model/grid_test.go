package model

import (
	"reflect"
	"testing"
)

func testGrid() Grid {
	return Grid{
		{"bat", "ghost", "bat", "witch", "bat"},
		{"ghost", "bat", "ghost", "bat", "ghost"},
		{"pumpkin", "pumpkin", "witch", "pumpkin", "pumpkin"},
	}
}

func TestGridCountAndPositions(t *testing.T) {
	g := testGrid()
	if g.Cells() != 15 {
		t.Fatalf("cells=%d", g.Cells())
	}
	if n := g.Count("bat"); n != 5 {
		t.Fatalf("bat count=%d", n)
	}
	if n := g.Count("skull"); n != 0 {
		t.Fatalf("skull count=%d", n)
	}
	want := []Position{{Row: 0, Reel: 3}, {Row: 2, Reel: 2}}
	if got := g.Positions("witch"); !reflect.DeepEqual(got, want) {
		t.Fatalf("witch positions %v", got)
	}
	if got := g.Positions("skull"); got != nil {
		t.Fatalf("skull positions %v", got)
	}
}

func TestGridColumnAndLine(t *testing.T) {
	g := testGrid()
	if col := g.Column(1); col != [Rows]string{"ghost", "bat", "pumpkin"} {
		t.Fatalf("column %v", col)
	}
	zigzag := Payline{0, 1, 0, 1, 0}
	if line := g.Line(zigzag); line != [Reels]string{"bat", "bat", "bat", "bat", "bat"} {
		t.Fatalf("line %v", line)
	}
}

func TestParseTier(t *testing.T) {
	for _, tier := range TierPriority {
		got, err := ParseTier(string(tier))
		if err != nil || got != tier {
			t.Fatalf("%s: %v %v", tier, got, err)
		}
	}
	if _, err := ParseTier("mega"); err == nil {
		t.Fatal("unknown tier accepted")
	}
}
