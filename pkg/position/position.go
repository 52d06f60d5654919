package position

// Position aggregates the four axes tracked by the interpreter.
//
// It is owned by the command-processing state and mutated only through
// the per-axis operations; handlers never write axis fields directly.
type Position struct {
	X *Axis
	Y *Axis
	Z *Axis
	E *Axis
}

// New creates a position with all axes homed, in absolute millimeter mode.
func New() *Position {
	return &Position{
		X: NewAxis("X"),
		Y: NewAxis("Y"),
		Z: NewAxis("Z"),
		E: NewAxis("E"),
	}
}

// Axes returns the axes in X, Y, Z, E order.
func (p *Position) Axes() []*Axis {
	return []*Axis{p.X, p.Y, p.Z, p.E}
}

// SetUnitMultiplier applies the unit multiplier to every axis.
func (p *Position) SetUnitMultiplier(multiplier float64) {
	for _, a := range p.Axes() {
		a.SetUnitMultiplier(multiplier)
	}
}

// SetAbsoluteMode applies the positioning mode to every axis.
func (p *Position) SetAbsoluteMode(absolute bool) {
	for _, a := range p.Axes() {
		a.SetAbsoluteMode(absolute)
	}
}
