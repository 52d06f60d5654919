// Package exclude implements the region exclusion state behind the
// G-code interpreter.
//
// It tracks the printer position through every inspected command and,
// while exclusion is active, swallows moves whose endpoints fall inside
// a configured region of the bed. When exclusion ends it emits the
// commands needed to bring the physical printer back in line with the
// tracked state.
package exclude

// Region is an area of the bed where printing is excluded.
type Region interface {
	// ContainsPoint reports whether the native coordinate lies inside the
	// region. Boundary points count as inside.
	ContainsPoint(x, y float64) bool
}

// RectRegion is an axis-aligned rectangular region. The corner pairs may
// be given in any order.
type RectRegion struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

// ContainsPoint reports whether (x, y) lies inside the rectangle.
func (r RectRegion) ContainsPoint(x, y float64) bool {
	minX, maxX := r.X1, r.X2
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := r.Y1, r.Y2
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return x >= minX && x <= maxX && y >= minY && y <= maxY
}

// CircleRegion is a circular region centered at (CX, CY).
type CircleRegion struct {
	CX float64
	CY float64
	R  float64
}

// ContainsPoint reports whether (x, y) lies inside the circle.
func (c CircleRegion) ContainsPoint(x, y float64) bool {
	dx := x - c.CX
	dy := y - c.CY
	return dx*dx+dy*dy <= c.R*c.R
}
