package exclude

import (
	"fmt"
	"sync"

	"excluderegion-go/pkg/gcode"
	"excluderegion-go/pkg/log"
	"excluderegion-go/pkg/position"
)

// State implements gcode.State. It owns the position model, the region
// list, the exclusion flag and the retraction bookkeeping. Commands must
// be processed from one goroutine; Status may be called from others and
// the internal mutex keeps the snapshot safe against the filter loop.
type State struct {
	mu     sync.Mutex
	logger *log.Logger
	pos    *position.Position

	numCommands uint64

	regions   []Region
	excluding bool

	// lastRetraction holds a retraction swallowed while excluding, so it
	// can be replayed when exclusion ends.
	lastRetraction *gcode.RetractionRecord

	// suppressedMove is set when the tracked position has advanced past
	// moves the printer never received.
	suppressedMove bool

	lastFeedRate *float64

	atActions map[string][]gcode.AtCommandEntry
}

// New creates an empty exclusion state with a freshly homed position.
func New(logger *log.Logger) *State {
	return &State{
		logger:    logger,
		pos:       position.New(),
		atActions: make(map[string][]gcode.AtCommandEntry),
	}
}

// AddRegion appends a region to the exclusion set.
func (s *State) AddRegion(r Region) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regions = append(s.regions, r)
}

// RegisterAtCommand registers an entry for an at-command name. Entries
// for the same name run in registration order.
func (s *State) RegisterAtCommand(name string, entry gcode.AtCommandEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.atActions[name] = append(s.atActions[name], entry)
}

// CommandCount returns the number of commands inspected so far.
func (s *State) CommandCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.numCommands
}

// Excluding reports whether exclusion is currently active.
func (s *State) Excluding() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.excluding
}

// IncCommandCount implements gcode.State.
func (s *State) IncCommandCount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.numCommands++
}

// Position implements gcode.State.
func (s *State) Position() *position.Position {
	return s.pos
}

// ProcessLinearMoves advances the tracked position through each target
// point and suppresses the command when exclusion is active and any
// endpoint lands inside an excluded region. Coordinates arrive in the
// native frame.
func (s *State) ProcessLinearMoves(cmd string, extruder, feedRate, z *float64, points ...gcode.Point) gcode.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if feedRate != nil {
		v := *feedRate
		s.lastFeedRate = &v
	}

	excluded := false
	for _, pt := range points {
		if pt.X != nil {
			s.pos.X.SetNativePosition(*pt.X)
		}
		if pt.Y != nil {
			s.pos.Y.SetNativePosition(*pt.Y)
		}
		if s.excluding && s.inExcludedRegion(s.pos.X.Native(), s.pos.Y.Native()) {
			excluded = true
		}
	}
	if z != nil {
		s.pos.Z.SetNativePosition(*z)
	}
	if extruder != nil {
		s.pos.E.SetNativePosition(*extruder)
	}

	if excluded {
		s.suppressedMove = true
		s.logger.Debug("suppressing move in excluded region: cmd=%s", cmd)
		return gcode.Suppress()
	}
	return gcode.Pass()
}

// ProcessExtendedGcode passes every operation the interpreter does not
// special-case through unchanged. Exclusion only affects motion.
func (s *State) ProcessExtendedGcode(cmd, code, subcode string) (gcode.Result, error) {
	return gcode.Pass(), nil
}

// RecordRetraction passes a retraction straight through when exclusion
// is off. While excluding, the retraction is remembered for replay and
// the command is swallowed.
func (s *State) RecordRetraction(record *gcode.RetractionRecord) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.excluding {
		return []string{record.OriginalCommand}
	}
	s.lastRetraction = record
	s.logger.Debug("retraction recorded during exclusion: cmd=%s", record.OriginalCommand)
	return nil
}

// RecoverRetractionIfNeeded handles a recovery command. Without a
// preceding swallowed retraction the recovery passes through; a
// retract/recover pair entirely inside an excluded region cancels out
// and both commands are dropped.
func (s *State) RecoverRetractionIfNeeded(cmd string, firmwareRecovery bool) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastRetraction == nil {
		if s.excluding {
			s.logger.Debug("suppressing recovery in excluded region: cmd=%s", cmd)
			return nil
		}
		return []string{cmd}
	}

	s.lastRetraction = nil
	if s.excluding {
		s.logger.Debug("retraction and recovery cancel inside excluded region")
		return nil
	}
	return []string{cmd}
}

// SetUnitMultiplier implements gcode.State.
func (s *State) SetUnitMultiplier(multiplier float64) {
	s.pos.SetUnitMultiplier(multiplier)
}

// SetAbsoluteMode implements gcode.State.
func (s *State) SetAbsoluteMode(absolute bool) {
	s.pos.SetAbsoluteMode(absolute)
}

// AtCommandActions implements gcode.State.
func (s *State) AtCommandActions(cmd string) []gcode.AtCommandEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.atActions[cmd]
}

// EnableExclusion implements gcode.State. Enabling twice is a no-op.
func (s *State) EnableExclusion(context string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.excluding {
		s.logger.Debug("exclusion already enabled: %s", context)
		return
	}
	s.excluding = true
	s.logger.Info("exclusion enabled: %s", context)
}

// DisableExclusion implements gcode.State. It returns the catch-up
// commands for the printer: any retraction swallowed during exclusion,
// then a travel move to the tracked position if moves were suppressed.
func (s *State) DisableExclusion(context string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.excluding {
		s.logger.Debug("exclusion not enabled: %s", context)
		return nil
	}
	s.excluding = false
	s.logger.Info("exclusion disabled: %s", context)

	var commands []string
	if s.lastRetraction != nil {
		commands = append(commands, s.lastRetraction.OriginalCommand)
		s.lastRetraction = nil
	}
	if s.suppressedMove {
		cmd := fmt.Sprintf("G0 X%.3f Y%.3f Z%.3f",
			s.pos.X.Logical(), s.pos.Y.Logical(), s.pos.Z.Logical())
		if s.lastFeedRate != nil {
			cmd += fmt.Sprintf(" F%.1f", *s.lastFeedRate)
		}
		commands = append(commands, cmd)
		s.suppressedMove = false
	}
	return commands
}

// Status returns a snapshot for the monitor endpoint.
func (s *State) Status() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]any{
		"commands":  s.numCommands,
		"excluding": s.excluding,
		"regions":   len(s.regions),
		"position": map[string]float64{
			"x": s.pos.X.Logical(),
			"y": s.pos.Y.Logical(),
			"z": s.pos.Z.Logical(),
			"e": s.pos.E.Logical(),
		},
	}
}

func (s *State) inExcludedRegion(x, y float64) bool {
	for _, r := range s.regions {
		if r.ContainsPoint(x, y) {
			return true
		}
	}
	return false
}
