package gcode

import "excluderegion-go/pkg/position"

// Point is one (X, Y) target of a linear move, in native coordinates.
// A nil coordinate means the axis was not specified in the command,
// which is distinct from an explicit zero.
type Point struct {
	X *float64
	Y *float64
}

// RetractionRecord signals a firmware-level retraction (G10) to the
// state collaborator. It is created per command and not retained here.
type RetractionRecord struct {
	FirmwareRetract bool
	OriginalCommand string
}

// AtCommandAction identifies the side effect of a matched at-command
// entry.
type AtCommandAction int

const (
	// ActionEnableExclusion turns region exclusion on.
	ActionEnableExclusion AtCommandAction = iota + 1
	// ActionDisableExclusion turns region exclusion off and replays any
	// commands needed to catch the printer up.
	ActionDisableExclusion
)

// AtCommandEntry is one registered action for an at-command.
type AtCommandEntry interface {
	// Matches reports whether this entry applies to the given command and
	// parameter string.
	Matches(cmd, parameters string) bool

	// Action returns the side effect to perform when matched.
	Action() AtCommandAction
}

// Sender delivers commands to the printer connection. Sends are
// fire-and-forget; no acknowledgment is awaited.
type Sender interface {
	SendCommand(cmd string)
}

// State is the collaborator holding the exclusion and retraction state
// behind the interpreter. It owns the position model and makes every
// accept/suppress/rewrite decision; the handlers only compute what each
// command means.
type State interface {
	// IncCommandCount advances the inspected-command counter. Called
	// exactly once per command, before any parsing.
	IncCommandCount()

	// Position exposes the axis state mutated by the handlers.
	Position() *position.Position

	// ProcessLinearMoves applies one or more linear move targets along
	// with the optional extruder target, feed rate and Z, and decides the
	// fate of the originating command. All coordinates are native; the
	// handlers convert before calling. Nil fields were absent from the
	// command.
	ProcessLinearMoves(cmd string, extruder, feedRate, z *float64, points ...Point) Result

	// ProcessExtendedGcode handles every operation code the interpreter
	// does not special-case.
	ProcessExtendedGcode(cmd, code, subcode string) (Result, error)

	// RecordRetraction registers a firmware retraction. A nil return
	// means the original command should be suppressed; otherwise the
	// returned commands replace it.
	RecordRetraction(record *RetractionRecord) []string

	// RecoverRetractionIfNeeded handles a retraction recovery (G11).
	// Same return contract as RecordRetraction.
	RecoverRetractionIfNeeded(cmd string, firmwareRecovery bool) []string

	// SetUnitMultiplier sets the logical unit scale on every axis
	// (G20/G21).
	SetUnitMultiplier(multiplier float64)

	// SetAbsoluteMode sets the positioning mode on every axis (G90/G91).
	SetAbsoluteMode(absolute bool)

	// AtCommandActions returns the entries registered for an at-command
	// name, in registration order.
	AtCommandActions(cmd string) []AtCommandEntry

	// EnableExclusion turns exclusion on. The context describes the
	// triggering command for logging.
	EnableExclusion(context string)

	// DisableExclusion turns exclusion off and returns the ordered
	// commands required to catch the printer up with the tracked state.
	DisableExclusion(context string) []string
}
