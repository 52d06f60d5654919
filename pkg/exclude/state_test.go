package exclude

import (
	"io"
	"strings"
	"testing"

	"excluderegion-go/pkg/gcode"
	"excluderegion-go/pkg/log"
)

func newTestState() *State {
	logger := log.New("test")
	logger.SetWriter(io.Discard)
	return New(logger)
}

func fptr(v float64) *float64 {
	return &v
}

func TestRectRegionContainsPoint(t *testing.T) {
	r := RectRegion{X1: 20, Y1: 20, X2: 10, Y2: 10}
	cases := []struct {
		x, y float64
		want bool
	}{
		{15, 15, true},
		{10, 10, true},
		{20, 20, true},
		{9.9, 15, false},
		{15, 20.1, false},
	}
	for _, c := range cases {
		if got := r.ContainsPoint(c.x, c.y); got != c.want {
			t.Errorf("ContainsPoint(%v, %v) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestCircleRegionContainsPoint(t *testing.T) {
	c := CircleRegion{CX: 10, CY: 10, R: 5}
	if !c.ContainsPoint(10, 10) || !c.ContainsPoint(15, 10) || !c.ContainsPoint(13, 13) {
		t.Error("points inside or on the circle must be contained")
	}
	if c.ContainsPoint(15.1, 10) || c.ContainsPoint(14, 14) {
		t.Error("points outside the circle must not be contained")
	}
}

func TestMovesPassWhileNotExcluding(t *testing.T) {
	s := newTestState()
	s.AddRegion(RectRegion{X1: 0, Y1: 0, X2: 50, Y2: 50})

	result := s.ProcessLinearMoves("G1 X10 Y10", nil, nil, nil, gcode.Point{X: fptr(10), Y: fptr(10)})
	if !result.IsPass() {
		t.Error("moves must pass while exclusion is off, even inside a region")
	}
}

func TestMovesSuppressedInsideRegionWhileExcluding(t *testing.T) {
	s := newTestState()
	s.AddRegion(RectRegion{X1: 10, Y1: 10, X2: 20, Y2: 20})
	s.EnableExclusion("@ExcludeRegion enable")

	result := s.ProcessLinearMoves("G1 X15 Y15", nil, nil, nil, gcode.Point{X: fptr(15), Y: fptr(15)})
	if !result.Suppressed() {
		t.Error("move into excluded region must be suppressed")
	}

	result = s.ProcessLinearMoves("G1 X30 Y30", nil, nil, nil, gcode.Point{X: fptr(30), Y: fptr(30)})
	if !result.IsPass() {
		t.Error("move outside region must pass")
	}
}

func TestPositionTrackedThroughSuppressedMoves(t *testing.T) {
	s := newTestState()
	s.AddRegion(RectRegion{X1: 10, Y1: 10, X2: 20, Y2: 20})
	s.EnableExclusion("enable")

	s.ProcessLinearMoves("G1 X15 Y15", fptr(2.5), nil, fptr(0.4), gcode.Point{X: fptr(15), Y: fptr(15)})
	if s.Position().X.Native() != 15 || s.Position().Y.Native() != 15 {
		t.Error("tracked position must advance through suppressed moves")
	}
	if s.Position().Z.Native() != 0.4 || s.Position().E.Native() != 2.5 {
		t.Error("Z and E must advance through suppressed moves")
	}
}

func TestDisableExclusionEmitsCatchUpMove(t *testing.T) {
	s := newTestState()
	s.AddRegion(RectRegion{X1: 10, Y1: 10, X2: 20, Y2: 20})
	s.EnableExclusion("enable")

	s.ProcessLinearMoves("G1 X15 Y15 F1200", nil, fptr(1200), nil, gcode.Point{X: fptr(15), Y: fptr(15)})
	commands := s.DisableExclusion("disable")
	if len(commands) != 1 {
		t.Fatalf("commands = %v, want one catch-up move", commands)
	}
	if !strings.HasPrefix(commands[0], "G0 X15.000 Y15.000") {
		t.Errorf("catch-up move = %q", commands[0])
	}
	if !strings.Contains(commands[0], "F1200") {
		t.Errorf("catch-up move missing feed rate: %q", commands[0])
	}
	if s.Excluding() {
		t.Error("exclusion still enabled")
	}
}

func TestDisableExclusionWithoutSuppressedMoves(t *testing.T) {
	s := newTestState()
	s.EnableExclusion("enable")
	if commands := s.DisableExclusion("disable"); commands != nil {
		t.Errorf("commands = %v, want none", commands)
	}
}

func TestDisableExclusionWhenNotEnabled(t *testing.T) {
	s := newTestState()
	if commands := s.DisableExclusion("disable"); commands != nil {
		t.Errorf("commands = %v, want none", commands)
	}
}

func TestEnableExclusionIdempotent(t *testing.T) {
	s := newTestState()
	s.EnableExclusion("first")
	s.EnableExclusion("second")
	if !s.Excluding() {
		t.Error("exclusion should remain enabled")
	}
}

func TestRetractionPassesThroughWhileNotExcluding(t *testing.T) {
	s := newTestState()
	commands := s.RecordRetraction(&gcode.RetractionRecord{FirmwareRetract: true, OriginalCommand: "G10"})
	if len(commands) != 1 || commands[0] != "G10" {
		t.Errorf("commands = %v, want [G10]", commands)
	}
}

func TestRetractionSwallowedAndReplayedAcrossExclusion(t *testing.T) {
	s := newTestState()
	s.AddRegion(RectRegion{X1: 10, Y1: 10, X2: 20, Y2: 20})
	s.EnableExclusion("enable")

	if commands := s.RecordRetraction(&gcode.RetractionRecord{FirmwareRetract: true, OriginalCommand: "G10"}); commands != nil {
		t.Errorf("retraction during exclusion must be swallowed, got %v", commands)
	}

	commands := s.DisableExclusion("disable")
	if len(commands) != 1 || commands[0] != "G10" {
		t.Errorf("commands = %v, want the swallowed retraction replayed", commands)
	}
}

func TestRetractRecoverPairCancelsInsideExclusion(t *testing.T) {
	s := newTestState()
	s.EnableExclusion("enable")

	s.RecordRetraction(&gcode.RetractionRecord{FirmwareRetract: true, OriginalCommand: "G10"})
	if commands := s.RecoverRetractionIfNeeded("G11", true); commands != nil {
		t.Errorf("recovery during exclusion = %v, want swallowed", commands)
	}

	// The pair cancelled; nothing to replay on disable.
	if commands := s.DisableExclusion("disable"); commands != nil {
		t.Errorf("commands = %v, want none after cancelled pair", commands)
	}
}

func TestRecoveryPassesThroughWhileNotExcluding(t *testing.T) {
	s := newTestState()
	commands := s.RecoverRetractionIfNeeded("G11", true)
	if len(commands) != 1 || commands[0] != "G11" {
		t.Errorf("commands = %v, want [G11]", commands)
	}
}

func TestAtCommandRegistrationOrder(t *testing.T) {
	s := newTestState()
	first := AtCommandAction{Command: "ExcludeRegion", Parameter: "enable", Do: gcode.ActionEnableExclusion}
	second := AtCommandAction{Command: "ExcludeRegion", Parameter: "disable", Do: gcode.ActionDisableExclusion}
	s.RegisterAtCommand("ExcludeRegion", first)
	s.RegisterAtCommand("ExcludeRegion", second)

	entries := s.AtCommandActions("ExcludeRegion")
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Action() != gcode.ActionEnableExclusion || entries[1].Action() != gcode.ActionDisableExclusion {
		t.Error("entries out of registration order")
	}
}

func TestAtCommandActionMatches(t *testing.T) {
	entry := AtCommandAction{Command: "ExcludeRegion", Parameter: "enable", Do: gcode.ActionEnableExclusion}
	if !entry.Matches("ExcludeRegion", "enable") {
		t.Error("exact parameter must match")
	}
	if !entry.Matches("ExcludeRegion", "  ENABLE  ") {
		t.Error("match must ignore case and surrounding space")
	}
	if entry.Matches("ExcludeRegion", "disable") {
		t.Error("different parameter must not match")
	}

	any := AtCommandAction{Command: "ExcludeRegion", Do: gcode.ActionEnableExclusion}
	if !any.Matches("ExcludeRegion", "whatever") {
		t.Error("empty parameter pattern must match anything")
	}
}

func TestCommandCounter(t *testing.T) {
	s := newTestState()
	for i := 0; i < 3; i++ {
		s.IncCommandCount()
	}
	if s.CommandCount() != 3 {
		t.Errorf("count = %d, want 3", s.CommandCount())
	}
}

func TestArcTracksSameFrameAsLinearMoves(t *testing.T) {
	logger := log.New("test")
	logger.SetWriter(io.Discard)

	// Run the same target through a linear move and an arc, with a G92
	// offset in effect. Both paths must land on the same native position.
	for _, cmd := range []struct{ cmd, code string }{
		{"G1 X70 Y0", "G1"},
		{"G2 X70 Y0 I10 J0", "G2"},
	} {
		s := New(logger)
		h := gcode.NewHandlers(s, logger)

		if _, err := h.HandleGcode("G92 X50", "G92", ""); err != nil {
			t.Fatalf("G92: %v", err)
		}
		if _, err := h.HandleGcode(cmd.cmd, cmd.code, ""); err != nil {
			t.Fatalf("%s: %v", cmd.cmd, err)
		}

		if got := s.Position().X.Native(); got != 20 {
			t.Errorf("%s: native X = %v, want 20", cmd.cmd, got)
		}
		if got := s.Position().X.Logical(); got != 70 {
			t.Errorf("%s: logical X = %v, want 70", cmd.cmd, got)
		}
	}
}

func TestStatusConcurrentWithCommandProcessing(t *testing.T) {
	s := newTestState()
	s.AddRegion(RectRegion{X1: 10, Y1: 10, X2: 20, Y2: 20})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			s.Status()
			s.CommandCount()
			s.Excluding()
		}
	}()

	for i := 0; i < 200; i++ {
		s.IncCommandCount()
		x := float64(i % 40)
		s.ProcessLinearMoves("G1", nil, nil, nil, gcode.Point{X: &x, Y: &x})
		if i%50 == 0 {
			s.EnableExclusion("enable")
			s.DisableExclusion("disable")
		}
	}
	<-done

	if s.CommandCount() != 200 {
		t.Errorf("count = %d, want 200", s.CommandCount())
	}
}

func TestStatusSnapshot(t *testing.T) {
	s := newTestState()
	s.AddRegion(CircleRegion{CX: 0, CY: 0, R: 5})
	s.IncCommandCount()
	s.EnableExclusion("enable")

	status := s.Status()
	if status["excluding"] != true {
		t.Error("status excluding = false")
	}
	if status["regions"] != 1 {
		t.Errorf("status regions = %v", status["regions"])
	}
	if status["commands"] != uint64(1) {
		t.Errorf("status commands = %v", status["commands"])
	}
}
