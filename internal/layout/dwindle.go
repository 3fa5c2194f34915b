// Package layout implements the Dwindle binary-space-partitioning layout
// (C3): given an outer rect and an ordered list of windows, it produces a
// tree of tiles whose leaves are the final per-window rectangles.
//
// Grounded on the recursive split in the original implementation's
// tiling.rs (DwindleTiler.split_tile / split_rect), adapted to the
// "first window takes ratio r, the rest recurse into the remainder" rule
// described by the spec, and on the teacher's CalculatePositions family in
// internal/tiling/layout.go for the general shape of a pure geometry
// function taking a region and a gap.
package layout

import (
	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/platform"
)

// Direction is the axis a TileNode is split along.
type Direction int

const (
	Vertical   Direction = iota // splits into left/right children
	Horizontal                  // splits into top/bottom children
)

// MinRatio and MaxRatio bound a node's split ratio, per §4.2's Resize
// action constraint.
const (
	MinRatio        = 0.1
	MaxRatio        = 0.9
	DefaultRatio    = 0.5
	defaultResizeBy = 0.05
)

// TileNode is either a leaf holding one window, or an internal split node
// with two children. Rect is always the region this node currently
// occupies; it is recomputed by Compute on every call, while Split and
// Ratio persist across calls when the node is reused (ratio preservation,
// §4.2 / §9).
type TileNode struct {
	Rect geometry.Rect

	// Leaf fields.
	Leaf   bool
	Window platform.WindowHandle

	// Internal fields.
	Split Direction
	Ratio float64
	A, B  *TileNode
}

// Compute builds (or rebuilds) the tile tree for region, tiling the windows
// in order. When prior is non-nil and was built for the same window count,
// its per-node ratios and split directions are preserved, keyed by tree
// position, and only the rects are recomputed against the new region; when
// the window count differs, ratios reset to DefaultRatio.
func Compute(region geometry.Rect, gap int, order []platform.WindowHandle, prior *TileNode) *TileNode {
	if len(order) == 0 {
		return nil
	}
	priorCount := countWindows(prior)
	reuse := prior != nil && priorCount == len(order)
	return build(region, gap, order, prior, reuse)
}

func build(region geometry.Rect, gap int, windows []platform.WindowHandle, prior *TileNode, reuse bool) *TileNode {
	if len(windows) == 1 {
		return &TileNode{Rect: region, Leaf: true, Window: windows[0]}
	}

	split, ratio := axisFor(region), DefaultRatio
	if reuse && prior != nil && !prior.Leaf {
		split = prior.Split
		ratio = prior.Ratio
	}

	aRegion, bRegion := splitRect(region, split, ratio, gap)

	var priorA, priorB *TileNode
	if reuse && prior != nil && !prior.Leaf {
		priorA, priorB = prior.A, prior.B
	}

	node := &TileNode{Rect: region, Split: split, Ratio: ratio}
	node.A = build(aRegion, gap, windows[:1], priorA, reuse)
	node.B = build(bRegion, gap, windows[1:], priorB, reuse)
	return node
}

// axisFor picks the split direction per §4.2: the longer axis wins, ties
// favor Vertical.
func axisFor(r geometry.Rect) Direction {
	if r.Height() > r.Width() {
		return Horizontal
	}
	return Vertical
}

// splitRect divides region into the first window's share (ratio) and the
// remainder's share, separated by exactly gap pixels. Each half's gap is
// floor(gap/2) on the first child and the remainder on the second, so the
// total separation is always exactly gap, even for an odd gap value.
func splitRect(region geometry.Rect, dir Direction, ratio float64, gap int) (a, b geometry.Rect) {
	half := gap / 2
	rest := gap - half

	if dir == Vertical {
		width := region.Width()
		boundary := region.Left + int(float64(width)*ratio+0.5)
		a = region
		a.Right = boundary - half
		b = region
		b.Left = boundary + rest
		clampInverted(&a)
		clampInverted(&b)
		return a, b
	}

	height := region.Height()
	boundary := region.Top + int(float64(height)*ratio+0.5)
	a = region
	a.Bottom = boundary - half
	b = region
	b.Top = boundary + rest
	clampInverted(&a)
	clampInverted(&b)
	return a, b
}

func clampInverted(r *geometry.Rect) {
	if r.Right < r.Left {
		r.Right = r.Left
	}
	if r.Bottom < r.Top {
		r.Bottom = r.Top
	}
}

func countWindows(n *TileNode) int {
	if n == nil {
		return 0
	}
	if n.Leaf {
		return 1
	}
	return countWindows(n.A) + countWindows(n.B)
}

// Flip toggles the split direction of n. A no-op on a leaf or nil tree.
func (n *TileNode) Flip() {
	if n == nil || n.Leaf {
		return
	}
	if n.Split == Vertical {
		n.Split = Horizontal
	} else {
		n.Split = Vertical
	}
}

// Resize adjusts the root node's ratio by delta, clamped to
// [MinRatio, MaxRatio].
func (n *TileNode) Resize(delta float64) {
	if n == nil || n.Leaf {
		return
	}
	n.Ratio += delta
	if n.Ratio < MinRatio {
		n.Ratio = MinRatio
	}
	if n.Ratio > MaxRatio {
		n.Ratio = MaxRatio
	}
}

// Leaves returns every leaf's window handle and final rect, in tree order.
func Leaves(n *TileNode) []Placement {
	if n == nil {
		return nil
	}
	var out []Placement
	collectLeaves(n, &out)
	return out
}

// Placement pairs a window handle with its computed leaf rect.
type Placement struct {
	Window platform.WindowHandle
	Rect   geometry.Rect
}

func collectLeaves(n *TileNode, out *[]Placement) {
	if n == nil {
		return
	}
	if n.Leaf {
		*out = append(*out, Placement{Window: n.Window, Rect: n.Rect})
		return
	}
	collectLeaves(n.A, out)
	collectLeaves(n.B, out)
}

// FindNode returns the leaf node that holds handle, or nil if handle is
// not present.
func FindNode(n *TileNode, handle platform.WindowHandle) *TileNode {
	if n == nil {
		return nil
	}
	if n.Leaf {
		if n.Window == handle {
			return n
		}
		return nil
	}
	if found := FindNode(n.A, handle); found != nil {
		return found
	}
	return FindNode(n.B, handle)
}

// ParentOf returns the internal node whose direct child subtree contains
// handle, used so Flip operates on the split nearest the focused window
// rather than always the tree root. Resize still acts on the root.
func ParentOf(n *TileNode, handle platform.WindowHandle) *TileNode {
	if n == nil || n.Leaf {
		return nil
	}
	if containsWindow(n.A, handle) || containsWindow(n.B, handle) {
		if deeper := ParentOf(n.A, handle); deeper != nil {
			return deeper
		}
		if deeper := ParentOf(n.B, handle); deeper != nil {
			return deeper
		}
		return n
	}
	return nil
}

func containsWindow(n *TileNode, handle platform.WindowHandle) bool {
	if n == nil {
		return false
	}
	if n.Leaf {
		return n.Window == handle
	}
	return containsWindow(n.A, handle) || containsWindow(n.B, handle)
}
