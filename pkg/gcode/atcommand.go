package gcode

// HandleAtCommand runs the registered actions for a vendor @-command.
// Matching entries run in registration order, and a failing entry does
// not stop the entries after it. Commands produced by disabling
// exclusion are delivered through the sender in order.
func (h *Handlers) HandleAtCommand(sender Sender, cmd, parameters string) {
	for _, entry := range h.state.AtCommandActions(cmd) {
		if !entry.Matches(cmd, parameters) {
			continue
		}
		h.logger.Debug(
			"handleAtCommand: action=%v cmd=%s parameters=%s",
			entry.Action(), cmd, parameters,
		)
		h.runAtCommandEntry(sender, entry, cmd, parameters)
	}
}

// runAtCommandEntry executes one matched entry, containing any panic so
// the remaining entries still run.
func (h *Handlers) runAtCommandEntry(sender Sender, entry AtCommandEntry, cmd, parameters string) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("handleAtCommand: action failed: cmd=%s err=%v", cmd, r)
		}
	}()

	context := cmd
	if parameters != "" {
		context = cmd + " " + parameters
	}

	switch entry.Action() {
	case ActionEnableExclusion:
		h.state.EnableExclusion(context)
	case ActionDisableExclusion:
		for _, command := range h.state.DisableExclusion(context) {
			h.logger.Debug("handleAtCommand: sending command: %s", command)
			sender.SendCommand(command)
		}
	}
}
