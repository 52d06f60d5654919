package gcode

type resultKind int

const (
	kindPass resultKind = iota
	kindSuppress
	kindReplace
)

// Result describes what the caller should do with an inspected command:
// process it normally, drop it, or substitute a replacement sequence.
type Result struct {
	kind     resultKind
	commands []string
}

// Pass returns the no-op result: the caller proceeds with the original
// command.
func Pass() Result {
	return Result{kind: kindPass}
}

// Suppress returns the suppression result: the caller drops the original
// command.
func Suppress() Result {
	return Result{kind: kindSuppress}
}

// Replace returns a result carrying an ordered replacement command
// sequence to execute instead of the original command.
func Replace(commands ...string) Result {
	return Result{kind: kindReplace, commands: commands}
}

// IsPass reports whether the original command should be processed
// normally.
func (r Result) IsPass() bool {
	return r.kind == kindPass
}

// Suppressed reports whether the original command should be dropped.
func (r Result) Suppressed() bool {
	return r.kind == kindSuppress
}

// Commands returns the replacement command sequence, or nil for pass and
// suppress results.
func (r Result) Commands() []string {
	return r.commands
}
