// Package position tracks the printer's coordinate state per axis.
//
// Each axis keeps its native machine position alongside the offsets
// needed to map logical G-code coordinates onto it: a home offset
// (M206), a coordinate offset (G92) and a unit multiplier (G20/G21).
package position

import "sync"

// Axis holds the coordinate state for a single printer axis.
//
// The native position is always defined and is the authoritative value;
// the logical position is derived from it through the stored offsets and
// the unit multiplier. Axis methods are individually synchronized so a
// status reader can observe an axis while the filter mutates it.
type Axis struct {
	mu             sync.Mutex
	name           string
	current        float64 // native position
	homeOffset     float64 // native units, set by M206
	offset         float64 // native units, set by G92
	absoluteMode   bool
	unitMultiplier float64
}

// NewAxis creates an axis in absolute millimeter mode at native zero.
func NewAxis(name string) *Axis {
	return &Axis{
		name:           name,
		absoluteMode:   true,
		unitMultiplier: 1,
	}
}

// Name returns the axis letter.
func (a *Axis) Name() string {
	return a.name
}

// Native returns the current native position.
func (a *Axis) Native() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Logical returns the current position in logical G-code coordinates.
func (a *Axis) Logical() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.nativeToLogical(a.current)
}

// LogicalToNative converts a logical coordinate to the native frame.
// In relative mode the value is an offset from the current position.
func (a *Axis) LogicalToNative(value float64) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.logicalToNative(value)
}

func (a *Axis) logicalToNative(value float64) float64 {
	value *= a.unitMultiplier
	if a.absoluteMode {
		return value + a.homeOffset + a.offset
	}
	return a.current + value
}

// NativeToLogical converts a native coordinate to the logical frame.
func (a *Axis) NativeToLogical(value float64) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.nativeToLogical(value)
}

func (a *Axis) nativeToLogical(value float64) float64 {
	if a.absoluteMode {
		return (value - a.homeOffset - a.offset) / a.unitMultiplier
	}
	return (value - a.current) / a.unitMultiplier
}

// SetHome resets the axis to its homed state: native zero with no
// coordinate offset. The home offset survives homing.
func (a *Axis) SetHome() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = 0
	a.offset = 0
}

// SetNativePosition moves the tracked native position directly.
func (a *Axis) SetNativePosition(value float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = value
}

// SetLogicalPosition moves the tracked native position so that the
// logical position equals the given value.
func (a *Axis) SetLogicalPosition(value float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = a.logicalToNative(value)
}

// SetLogicalOffsetPosition redefines the current logical position to the
// given value without changing the native position, by adjusting the
// coordinate offset. This models G92.
func (a *Axis) SetLogicalOffsetPosition(value float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.offset = a.current - a.homeOffset - value*a.unitMultiplier
}

// SetHomeOffset replaces the home offset, shifting the native position so
// the logical position is unaffected. The offset value is given in
// logical units.
func (a *Axis) SetHomeOffset(value float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	native := value * a.unitMultiplier
	a.current += native - a.homeOffset
	a.homeOffset = native
}

// SetUnitMultiplier sets the logical-to-native unit scale
// (1 for millimeters, 25.4 for inches).
func (a *Axis) SetUnitMultiplier(multiplier float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unitMultiplier = multiplier
}

// SetAbsoluteMode switches between absolute and relative interpretation
// of logical coordinates.
func (a *Axis) SetAbsoluteMode(absolute bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.absoluteMode = absolute
}
