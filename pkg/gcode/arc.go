// Arc planning for G2/G3, ported from Marlin's plan_arc.
package gcode

import (
	"math"

	"excluderegion-go/pkg/errors"
)

const twoPi = 2 * math.Pi

// DefaultArcResolution is the native length of each interpolated arc
// segment.
const DefaultArcResolution = 1.0

// planArc interpolates an arc from the current native position to
// (endX, endY) around the center offset by (i, j), returning a flat list
// of x,y waypoint pairs. The final pair is always the exact commanded
// endpoint regardless of segment rounding.
func (h *Handlers) planArc(endX, endY, i, j float64, clockwise bool) []float64 {
	pos := h.state.Position()
	x := pos.X.Native()
	y := pos.Y.Native()

	radius := math.Hypot(i, j)
	centerX := x + i
	centerY := y + j
	rtX := endX - centerX
	rtY := endY - centerY

	// CCW angle of rotation between position and target from the circle
	// center, normalized to [0, 2pi).
	angularTravel := math.Atan2(-i*rtY+j*rtX, -i*rtX-j*rtY)
	if angularTravel < 0 {
		angularTravel += twoPi
	}
	if clockwise {
		angularTravel -= twoPi
	}

	// A zero rotation back to the start point is a full circle.
	if angularTravel == 0 && x == endX && y == endY {
		angularTravel = twoPi
	}

	arcLength := angularTravel * radius
	numSegments := int(math.Min(math.Ceil(arcLength/h.arcResolution), 2))

	angle := math.Atan2(-i, -j)
	angularIncrement := angularTravel / float64(numSegments-1)

	var rval []float64
	for s := 1; s < numSegments; s++ {
		angle += angularIncrement
		rval = append(rval, centerX+math.Cos(angle)*radius, centerY+math.Sin(angle)*radius)
	}
	rval = append(rval, endX, endY)

	h.logger.Debug(
		"planArc: endX=%v endY=%v i=%v j=%v clockwise=%v segments=%d",
		endX, endY, i, j, clockwise, len(rval)/2,
	)
	return rval
}

// computeCenterOffsets converts a radius-form arc (G2/G3 with R) ending
// at (x, y) into the equivalent I/J center offsets from the current
// native position. A zero radius or coincident start and end points
// yield (0, 0); a radius too short to span half the chord is an
// ErrArcDomain failure.
func (h *Handlers) computeCenterOffsets(x, y, radius float64, clockwise bool) (float64, float64, error) {
	pos := h.state.Position()
	p1 := pos.X.Native()
	q1 := pos.Y.Native()
	p2 := x
	q2 := y

	if radius == 0 || (p1 == p2 && q1 == q2) {
		return 0, 0, nil
	}

	// The XOR of the rotation sense and the radius sign selects which of
	// the two candidate circle centers to use.
	e := 0
	if clockwise {
		e = 1
	}
	sign := 1
	if radius < 0 {
		sign = -1
	}
	e ^= sign

	deltaX := p2 - p1
	deltaY := q2 - q1
	dist := math.Hypot(deltaX, deltaY)
	halfDist := dist / 2

	hSquared := radius*radius - halfDist*halfDist
	if hSquared < 0 {
		return 0, 0, errors.ArcDomainError(radius, dist)
	}
	halfHeight := math.Sqrt(hSquared)

	midX := (p1 + p2) / 2
	midY := (q1 + q2) / 2
	sx := -deltaY / dist
	sy := -deltaX / dist
	centerX := midX + float64(e)*halfHeight*sx
	centerY := midY + float64(e)*halfHeight*sy

	return centerX - p1, centerY - q1, nil
}
