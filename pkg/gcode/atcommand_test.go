package gcode

import (
	"reflect"
	"testing"
)

type fakeEntry struct {
	match  bool
	action AtCommandAction
}

func (e fakeEntry) Matches(cmd, parameters string) bool {
	return e.match
}

func (e fakeEntry) Action() AtCommandAction {
	return e.action
}

type fakeSender struct {
	sent []string
}

func (s *fakeSender) SendCommand(cmd string) {
	s.sent = append(s.sent, cmd)
}

func TestHandleAtCommandEnable(t *testing.T) {
	state := newFakeState()
	state.atEntries["ExcludeRegion"] = []AtCommandEntry{
		fakeEntry{match: true, action: ActionEnableExclusion},
	}
	h := newTestHandlers(state)
	sender := &fakeSender{}

	h.HandleAtCommand(sender, "ExcludeRegion", "enable")
	if len(state.enabled) != 1 || state.enabled[0] != "ExcludeRegion enable" {
		t.Errorf("enabled = %v", state.enabled)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent = %v, want none", sender.sent)
	}
}

func TestHandleAtCommandDisableSendsCatchUp(t *testing.T) {
	state := newFakeState()
	state.atEntries["ExcludeRegion"] = []AtCommandEntry{
		fakeEntry{match: true, action: ActionDisableExclusion},
	}
	state.disableReturn = []string{"G11", "G0 X5.000 Y5.000 Z0.200"}
	h := newTestHandlers(state)
	sender := &fakeSender{}

	h.HandleAtCommand(sender, "ExcludeRegion", "disable")
	if !reflect.DeepEqual(sender.sent, state.disableReturn) {
		t.Errorf("sent = %v, want %v", sender.sent, state.disableReturn)
	}
}

func TestHandleAtCommandUnmatchedEntriesSkipped(t *testing.T) {
	state := newFakeState()
	state.atEntries["ExcludeRegion"] = []AtCommandEntry{
		fakeEntry{match: false, action: ActionEnableExclusion},
		fakeEntry{match: true, action: ActionDisableExclusion},
	}
	h := newTestHandlers(state)
	sender := &fakeSender{}

	h.HandleAtCommand(sender, "ExcludeRegion", "disable")
	if len(state.enabled) != 0 {
		t.Errorf("enabled = %v, want none", state.enabled)
	}
	if len(state.disabled) != 1 {
		t.Errorf("disabled = %v, want one call", state.disabled)
	}
}

func TestHandleAtCommandUnknownCommandIgnored(t *testing.T) {
	state := newFakeState()
	h := newTestHandlers(state)
	sender := &fakeSender{}

	h.HandleAtCommand(sender, "SomeOtherCommand", "")
	if len(state.enabled) != 0 || len(state.disabled) != 0 || len(sender.sent) != 0 {
		t.Error("unknown at-command must have no effect")
	}
}

func TestHandleAtCommandFailureIsolation(t *testing.T) {
	state := newFakeState()
	state.enablePanics = true
	state.atEntries["ExcludeRegion"] = []AtCommandEntry{
		fakeEntry{match: true, action: ActionEnableExclusion},
		fakeEntry{match: true, action: ActionDisableExclusion},
	}
	h := newTestHandlers(state)
	sender := &fakeSender{}

	// The first entry panics; the second must still run.
	h.HandleAtCommand(sender, "ExcludeRegion", "toggle")
	if len(state.disabled) != 1 {
		t.Errorf("disabled = %v, want one call after failed entry", state.disabled)
	}
}
