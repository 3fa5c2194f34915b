// Package geometry provides the rectangle and inset arithmetic shared by the
// tiling layout and the reconciler. It has no platform dependencies.
package geometry

import "fmt"

// Rect is an axis-aligned rectangle in virtual-screen coordinates. The
// invariant Left <= Right && Top <= Bottom is maintained by every
// constructor and mutator in this package; callers that build a Rect by hand
// must preserve it themselves.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Insets describes a per-edge expansion, used for DWM-style frame
// compensation before a reposition command is issued.
type Insets struct {
	Left, Top, Right, Bottom int
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }
func (r Rect) Area() int   { return r.Width() * r.Height() }

func (r Rect) Valid() bool { return r.Left <= r.Right && r.Top <= r.Bottom }

func (r Rect) CenterX() int { return (r.Left + r.Right) / 2 }
func (r Rect) CenterY() int { return (r.Top + r.Bottom) / 2 }

// Inset shrinks r by px on every edge, clamping so the result never
// inverts (Right stays >= Left, Bottom stays >= Top).
func (r Rect) Inset(px int) Rect {
	out := Rect{
		Left:   r.Left + px,
		Top:    r.Top + px,
		Right:  r.Right - px,
		Bottom: r.Bottom - px,
	}
	if out.Right < out.Left {
		out.Right = out.Left
	}
	if out.Bottom < out.Top {
		out.Bottom = out.Top
	}
	return out
}

// Expand grows r by the given insets on each edge, the inverse of how a
// frame inset is measured: it enlarges the rect so the window's true visible
// extent, once the compositor adds its frame back, matches the target.
func (r Rect) Expand(in Insets) Rect {
	return Rect{
		Left:   r.Left - in.Left,
		Top:    r.Top - in.Top,
		Right:  r.Right + in.Right,
		Bottom: r.Bottom + in.Bottom,
	}
}

// Equal reports whether two rects describe the same region.
func (r Rect) Equal(o Rect) bool {
	return r == o
}

// Intersects reports whether r and o share any area.
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right && o.Left < r.Right && r.Top < o.Bottom && o.Top < r.Bottom
}

// Contains reports whether the point (x, y) falls within r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d]-[%d,%d]", r.Left, r.Top, r.Right, r.Bottom)
}
