package config

import (
	"excluderegion-go/pkg/exclude"
	"excluderegion-go/pkg/gcode"
)

// Settings is the fully resolved filter configuration.
type Settings struct {
	// Regions holds the configured exclusion regions in file order.
	Regions []exclude.Region

	// AtCommand is the at-command name controlling exclusion.
	AtCommand string

	// ArcResolution is the native length of interpolated arc segments.
	ArcResolution float64

	// SerialDevice is the printer port; empty means write to stdout.
	SerialDevice string
	BaudRate     int

	// ListenAddr is the monitor bind address; empty disables the monitor.
	ListenAddr string

	LogLevel string
}

// DefaultSettings returns the settings used when no config file is given.
func DefaultSettings() *Settings {
	return &Settings{
		AtCommand:     "ExcludeRegion",
		ArcResolution: gcode.DefaultArcResolution,
		BaudRate:      115200,
		LogLevel:      "info",
	}
}

// Load parses the config file at path into resolved settings.
func Load(path string) (*Settings, error) {
	file, err := Parse(path)
	if err != nil {
		return nil, err
	}

	settings := DefaultSettings()

	if s := file.Section("exclude"); s != nil {
		if settings.AtCommand, err = s.Get("at_command", settings.AtCommand); err != nil {
			return nil, err
		}
		if settings.ArcResolution, err = s.GetFloat("arc_resolution", settings.ArcResolution); err != nil {
			return nil, err
		}
	}

	for _, s := range file.SectionsOf("rectangular_region") {
		region := exclude.RectRegion{}
		if region.X1, err = s.GetFloat("x1"); err != nil {
			return nil, err
		}
		if region.Y1, err = s.GetFloat("y1"); err != nil {
			return nil, err
		}
		if region.X2, err = s.GetFloat("x2"); err != nil {
			return nil, err
		}
		if region.Y2, err = s.GetFloat("y2"); err != nil {
			return nil, err
		}
		settings.Regions = append(settings.Regions, region)
	}

	for _, s := range file.SectionsOf("circular_region") {
		region := exclude.CircleRegion{}
		if region.CX, err = s.GetFloat("x"); err != nil {
			return nil, err
		}
		if region.CY, err = s.GetFloat("y"); err != nil {
			return nil, err
		}
		if region.R, err = s.GetFloat("radius"); err != nil {
			return nil, err
		}
		settings.Regions = append(settings.Regions, region)
	}

	if s := file.Section("serial"); s != nil {
		if settings.SerialDevice, err = s.Get("device", ""); err != nil {
			return nil, err
		}
		if settings.BaudRate, err = s.GetInt("baud", settings.BaudRate); err != nil {
			return nil, err
		}
	}

	if s := file.Section("monitor"); s != nil {
		if settings.ListenAddr, err = s.Get("listen", ""); err != nil {
			return nil, err
		}
	}

	if s := file.Section("log"); s != nil {
		if settings.LogLevel, err = s.Get("level", settings.LogLevel); err != nil {
			return nil, err
		}
	}

	return settings, nil
}
