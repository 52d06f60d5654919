// Package gcode interprets a stream of G-code commands for region
// exclusion filtering.
//
// Handlers parses each command, maintains the position model through the
// state collaborator and reduces arcs to linear moves, while the state
// decides whether commands pass through, are suppressed or are replaced.
package gcode

import (
	"excluderegion-go/pkg/log"
)

const inchesPerMM = 25.4

type handlerFunc func(cmd, code, subcode string) (Result, error)

// Handlers inspects G-code commands one at a time. Not safe for
// concurrent use; commands of one stream must be handled sequentially.
type Handlers struct {
	state  State
	logger *log.Logger

	dispatch      map[string]handlerFunc
	arcResolution float64

	discardedTokens uint64
}

// NewHandlers creates the interpreter around a state collaborator.
func NewHandlers(state State, logger *log.Logger) *Handlers {
	h := &Handlers{
		state:         state,
		logger:        logger,
		arcResolution: DefaultArcResolution,
	}
	h.dispatch = map[string]handlerFunc{
		"G0":   h.handleG0,
		"G1":   h.handleG1,
		"G2":   h.handleG2,
		"G3":   h.handleG3,
		"G10":  h.handleG10,
		"G11":  h.handleG11,
		"G20":  h.handleG20,
		"G21":  h.handleG21,
		"G28":  h.handleG28,
		"G90":  h.handleG90,
		"G91":  h.handleG91,
		"G92":  h.handleG92,
		"M206": h.handleM206,
	}
	return h
}

// SetArcResolution overrides the native length of interpolated arc
// segments. Non-positive values are ignored.
func (h *Handlers) SetArcResolution(length float64) {
	if length > 0 {
		h.arcResolution = length
	}
}

// DiscardedTokens reports how many malformed argument tokens have been
// dropped so far.
func (h *Handlers) DiscardedTokens() uint64 {
	return h.discardedTokens
}

// HandleGcode inspects one command and returns its fate. The command
// counter is advanced first, before any parsing, so it counts every
// inspected command including malformed ones.
func (h *Handlers) HandleGcode(cmd, code, subcode string) (Result, error) {
	h.state.IncCommandCount()
	if fn, ok := h.dispatch[code]; ok {
		return fn(cmd, code, subcode)
	}
	return h.state.ProcessExtendedGcode(cmd, code, subcode)
}

// discardToken drops a malformed argument token, keeping count.
func (h *Handlers) discardToken(code, token string) {
	h.discardedTokens++
	h.logger.Debug("discarding malformed argument: code=%s token=%q", code, token)
}

// handleG0 handles linear moves:
// G0 [E<pos>] [F<rate>] [X<pos>] [Y<pos>] [Z<pos>]
//
// Coordinates are converted to the native frame here, so the state sees
// the same frame from linear moves and from planned arc segments.
func (h *Handlers) handleG0(cmd, code, subcode string) (Result, error) {
	pos := h.state.Position()
	var extruder, feedRate, x, y, z *float64
	tokens := splitArgs(cmd)
	for _, token := range tokens[1:] {
		label, value, ok := parseFloatArg(token)
		if !ok {
			h.discardToken(code, token)
			continue
		}
		switch label {
		case 'E':
			v := pos.E.LogicalToNative(value)
			extruder = &v
		case 'F':
			v := value
			feedRate = &v
		case 'X':
			v := pos.X.LogicalToNative(value)
			x = &v
		case 'Y':
			v := pos.Y.LogicalToNative(value)
			y = &v
		case 'Z':
			v := pos.Z.LogicalToNative(value)
			z = &v
		}
	}
	return h.state.ProcessLinearMoves(cmd, extruder, feedRate, z, Point{X: x, Y: y}), nil
}

// handleG1 handles linear moves:
// G1 [E<pos>] [F<rate>] [X<pos>] [Y<pos>] [Z<pos>]
func (h *Handlers) handleG1(cmd, code, subcode string) (Result, error) {
	return h.handleG0(cmd, code, subcode)
}

// handleG2 handles clockwise arcs:
// G2 [E<pos>] [F<rate>] [X<pos>] [Y<pos>] [Z<pos>] (R<radius> | I<offset> J<offset>)
//
// The arc is reduced to a sequence of linear moves before being handed
// to the state, so exclusion decisions only ever see straight segments.
func (h *Handlers) handleG2(cmd, code, subcode string) (Result, error) {
	clockwise := code == "G2"
	pos := h.state.Position()

	var extruder, feedRate, radius *float64
	x := pos.X.Native()
	y := pos.Y.Native()
	z := pos.Z.Native()
	i := 0.0
	j := 0.0

	tokens := splitArgs(cmd)
	for _, token := range tokens[1:] {
		label, value, ok := parseFloatArg(token)
		if !ok {
			h.discardToken(code, token)
			continue
		}
		switch label {
		case 'X':
			x = pos.X.LogicalToNative(value)
		case 'Y':
			y = pos.Y.LogicalToNative(value)
		case 'Z':
			z = pos.Z.LogicalToNative(value)
		case 'E':
			v := pos.E.LogicalToNative(value)
			extruder = &v
		case 'F':
			v := value
			feedRate = &v
		case 'R':
			v := value
			radius = &v
		case 'I':
			i = pos.X.LogicalToNative(value)
		case 'J':
			j = pos.Y.LogicalToNative(value)
		}
	}

	if radius != nil {
		var err error
		i, j, err = h.computeCenterOffsets(x, y, *radius, clockwise)
		if err != nil {
			return Result{}, err
		}
	}

	if i == 0 && j == 0 {
		// No center offsets means no arc to plan. Leave the command to
		// the caller's default handling.
		return Pass(), nil
	}

	pairs := h.planArc(x, y, i, j, clockwise)
	points := make([]Point, 0, len(pairs)/2)
	for k := 0; k+1 < len(pairs); k += 2 {
		px := pairs[k]
		py := pairs[k+1]
		points = append(points, Point{X: &px, Y: &py})
	}

	zv := z
	return h.state.ProcessLinearMoves(cmd, extruder, feedRate, &zv, points...), nil
}

// handleG3 handles counter-clockwise arcs:
// G3 [E<pos>] [F<rate>] [X<pos>] [Y<pos>] [Z<pos>] (R<radius> | I<offset> J<offset>)
func (h *Handlers) handleG3(cmd, code, subcode string) (Result, error) {
	return h.handleG2(cmd, code, subcode)
}

// handleG10 handles firmware retraction:
// G10 [S<0 or 1>]
//
// A P or L argument means the RepRap tool offset / workspace coordinate
// form of G10 instead, which passes through untouched.
func (h *Handlers) handleG10(cmd, code, subcode string) (Result, error) {
	tokens := splitArgs(cmd)
	for _, token := range tokens[1:] {
		if token == "" {
			continue
		}
		switch token[0] {
		case 'P', 'p', 'L', 'l':
			return Pass(), nil
		}
	}

	h.logger.Debug("handleG10: firmware retraction: cmd=%s", cmd)
	commands := h.state.RecordRetraction(&RetractionRecord{
		FirmwareRetract: true,
		OriginalCommand: cmd,
	})
	if commands == nil {
		return Suppress(), nil
	}
	return Replace(commands...), nil
}

// handleG11 handles firmware retraction recovery: G11
func (h *Handlers) handleG11(cmd, code, subcode string) (Result, error) {
	commands := h.state.RecoverRetractionIfNeeded(cmd, true)
	if commands == nil {
		return Suppress(), nil
	}
	return Replace(commands...), nil
}

// handleG20 sets units to inches: G20
func (h *Handlers) handleG20(cmd, code, subcode string) (Result, error) {
	h.state.SetUnitMultiplier(inchesPerMM)
	return Pass(), nil
}

// handleG21 sets units to millimeters: G21
func (h *Handlers) handleG21(cmd, code, subcode string) (Result, error) {
	h.state.SetUnitMultiplier(1)
	return Pass(), nil
}

// handleG28 homes axes: G28 [X] [Y] [Z]
//
// With no axis letters, all three axes are homed. Argument values are
// irrelevant; only the presence of each letter matters.
func (h *Handlers) handleG28(cmd, code, subcode string) (Result, error) {
	pos := h.state.Position()
	homeX := false
	homeY := false
	homeZ := false
	tokens := splitArgs(cmd)
	for _, token := range tokens[1:] {
		if token == "" {
			continue
		}
		switch token[0] {
		case 'X', 'x':
			homeX = true
		case 'Y', 'y':
			homeY = true
		case 'Z', 'z':
			homeZ = true
		}
	}
	if !homeX && !homeY && !homeZ {
		homeX = true
		homeY = true
		homeZ = true
	}
	if homeX {
		pos.X.SetHome()
	}
	if homeY {
		pos.Y.SetHome()
	}
	if homeZ {
		pos.Z.SetHome()
	}
	return Pass(), nil
}

// handleG90 sets absolute positioning: G90
func (h *Handlers) handleG90(cmd, code, subcode string) (Result, error) {
	h.state.SetAbsoluteMode(true)
	return Pass(), nil
}

// handleG91 sets relative positioning: G91
func (h *Handlers) handleG91(cmd, code, subcode string) (Result, error) {
	h.state.SetAbsoluteMode(false)
	return Pass(), nil
}

// handleG92 sets the current position:
// G92 [E<pos>] [X<pos>] [Y<pos>] [Z<pos>]
//
// X, Y and Z adjust the coordinate offset without moving the tracked
// native position. E updates the tracked position directly, matching
// firmware behavior after Marlin 1.0.
func (h *Handlers) handleG92(cmd, code, subcode string) (Result, error) {
	pos := h.state.Position()
	tokens := splitArgs(cmd)
	for _, token := range tokens[1:] {
		label, value, ok := parseFloatArg(token)
		if !ok {
			h.discardToken(code, token)
			continue
		}
		switch label {
		case 'E':
			pos.E.SetLogicalPosition(value)
		case 'X':
			pos.X.SetLogicalOffsetPosition(value)
		case 'Y':
			pos.Y.SetLogicalOffsetPosition(value)
		case 'Z':
			pos.Z.SetLogicalOffsetPosition(value)
		}
	}
	return Pass(), nil
}

// handleM206 sets home offsets: M206 [X<offset>] [Y<offset>] [Z<offset>]
func (h *Handlers) handleM206(cmd, code, subcode string) (Result, error) {
	pos := h.state.Position()
	tokens := splitArgs(cmd)
	for _, token := range tokens[1:] {
		label, value, ok := parseFloatArg(token)
		if !ok {
			h.discardToken(code, token)
			continue
		}
		switch label {
		case 'X':
			pos.X.SetHomeOffset(value)
		case 'Y':
			pos.Y.SetHomeOffset(value)
		case 'Z':
			pos.Z.SetHomeOffset(value)
		}
	}
	return Pass(), nil
}
