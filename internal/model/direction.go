package model

import "github.com/tilewm/tilewm/internal/platform"

// FindNeighbor picks the closest candidate to focused in the given
// direction, per the filter/tie-break table in §4.4. When several
// candidates tie on the primary distance, a secondary tie-break favors the
// one most aligned with focused on the perpendicular axis — grounded on
// the original implementation's find_next_focus, which combines both
// distances into a single score (primary weighted far more heavily than
// secondary) rather than leaving ties to slice order.
func FindNeighbor(focused *Window, candidates []*Window, dir platform.Direction) *Window {
	var best *Window
	var bestPrimary, bestSecondary int

	for _, c := range candidates {
		if c.Handle == focused.Handle {
			continue
		}
		primary, ok := primaryDistance(focused, c, dir)
		if !ok {
			continue
		}
		secondary := secondaryDistance(focused, c, dir)

		if best == nil || primary < bestPrimary || (primary == bestPrimary && secondary < bestSecondary) {
			best, bestPrimary, bestSecondary = c, primary, secondary
		}
	}
	return best
}

// primaryDistance applies the per-direction filter predicate and distance
// key from §4.4's table. ok is false when c does not pass the filter.
func primaryDistance(f, c *Window, dir platform.Direction) (dist int, ok bool) {
	switch dir {
	case platform.Left:
		if c.Rect.Right < f.Rect.Left {
			return f.Rect.Left - c.Rect.Right, true
		}
	case platform.Right:
		if c.Rect.Left > f.Rect.Right {
			return c.Rect.Left - f.Rect.Right, true
		}
	case platform.Up:
		if c.Rect.Bottom < f.Rect.Top {
			return f.Rect.Top - c.Rect.Bottom, true
		}
	case platform.Down:
		if c.Rect.Top > f.Rect.Bottom {
			return c.Rect.Top - f.Rect.Bottom, true
		}
	}
	return 0, false
}

// secondaryDistance measures misalignment on the axis perpendicular to
// dir, used only to break exact primary-distance ties.
func secondaryDistance(f, c *Window, dir platform.Direction) int {
	switch dir {
	case platform.Left, platform.Right:
		return absInt(f.Rect.CenterY() - c.Rect.CenterY())
	default:
		return absInt(f.Rect.CenterX() - c.Rect.CenterX())
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
