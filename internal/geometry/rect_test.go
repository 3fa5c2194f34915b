package geometry

import "testing"

func TestInset(t *testing.T) {
	r := Rect{Left: 0, Top: 0, Right: 100, Bottom: 100}
	got := r.Inset(2)
	want := Rect{Left: 2, Top: 2, Right: 98, Bottom: 98}
	if got != want {
		t.Fatalf("Inset(2) = %v, want %v", got, want)
	}
}

func TestInsetClampsDegenerateRect(t *testing.T) {
	r := Rect{Left: 0, Top: 0, Right: 4, Bottom: 4}
	got := r.Inset(10)
	if got.Right < got.Left || got.Bottom < got.Top {
		t.Fatalf("Inset produced an inverted rect: %v", got)
	}
}

func TestExpand(t *testing.T) {
	r := Rect{Left: 10, Top: 10, Right: 20, Bottom: 20}
	got := r.Expand(Insets{Left: 1, Top: 2, Right: 3, Bottom: 4})
	want := Rect{Left: 9, Top: 8, Right: 23, Bottom: 24}
	if got != want {
		t.Fatalf("Expand = %v, want %v", got, want)
	}
}

func TestIntersects(t *testing.T) {
	a := Rect{Left: 0, Top: 0, Right: 10, Bottom: 10}
	b := Rect{Left: 5, Top: 5, Right: 15, Bottom: 15}
	c := Rect{Left: 10, Top: 0, Right: 20, Bottom: 10}

	if !a.Intersects(b) {
		t.Fatalf("expected a and b to intersect")
	}
	if a.Intersects(c) {
		t.Fatalf("expected a and c (touching edges only) to not intersect")
	}
}

func TestContains(t *testing.T) {
	r := Rect{Left: 0, Top: 0, Right: 10, Bottom: 10}
	if !r.Contains(5, 5) {
		t.Fatalf("expected (5,5) inside %v", r)
	}
	if r.Contains(10, 10) {
		t.Fatalf("right/bottom edges are exclusive")
	}
}
