package config

import (
	"os"
	"path/filepath"
	"testing"

	"excluderegion-go/pkg/exclude"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filter.cfg")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseSectionsAndOptions(t *testing.T) {
	path := writeConfig(t, `
# filter config
[exclude]
at_command: ExcludeRegion
arc_resolution = 0.5   ; inline comment

[rectangular_region brim]
x1: 0
y1: 0
x2: 10
y2: 10
`)
	file, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}

	s := file.Section("exclude")
	if s == nil {
		t.Fatal("missing [exclude] section")
	}
	if v, _ := s.Get("at_command"); v != "ExcludeRegion" {
		t.Errorf("at_command = %q", v)
	}
	if v, _ := s.GetFloat("arc_resolution"); v != 0.5 {
		t.Errorf("arc_resolution = %v", v)
	}

	regions := file.SectionsOf("rectangular_region")
	if len(regions) != 1 || regions[0].Name() != "brim" {
		t.Fatalf("regions = %v", regions)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"option outside section", "x1: 5\n"},
		{"malformed header", "[exclude\n"},
		{"malformed option", "[exclude]\nnot an option\n"},
		{"empty header", "[]\n"},
	}
	for _, c := range cases {
		path := writeConfig(t, c.content)
		if _, err := Parse(path); err == nil {
			t.Errorf("%s: expected parse error", c.name)
		}
	}
}

func TestSectionFallbacks(t *testing.T) {
	path := writeConfig(t, "[exclude]\n")
	file, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	s := file.Section("exclude")

	if v, err := s.Get("missing", "fallback"); err != nil || v != "fallback" {
		t.Errorf("Get fallback = (%q, %v)", v, err)
	}
	if _, err := s.Get("missing"); err == nil {
		t.Error("required option should error when missing")
	}
	if v, err := s.GetFloat("missing", 1.5); err != nil || v != 1.5 {
		t.Errorf("GetFloat fallback = (%v, %v)", v, err)
	}
	if v, err := s.GetInt("missing", 42); err != nil || v != 42 {
		t.Errorf("GetInt fallback = (%v, %v)", v, err)
	}
}

func TestLoadSettings(t *testing.T) {
	path := writeConfig(t, `
[exclude]
at_command: NoPrint
arc_resolution: 0.25

[rectangular_region skirt]
x1: 0
y1: 0
x2: 50
y2: 50

[circular_region blob]
x: 100
y: 100
radius: 8

[serial]
device: /dev/ttyACM0
baud: 250000

[monitor]
listen: :8080

[log]
level: debug
`)
	settings, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if settings.AtCommand != "NoPrint" {
		t.Errorf("AtCommand = %q", settings.AtCommand)
	}
	if settings.ArcResolution != 0.25 {
		t.Errorf("ArcResolution = %v", settings.ArcResolution)
	}
	if len(settings.Regions) != 2 {
		t.Fatalf("regions = %d, want 2", len(settings.Regions))
	}
	rect, ok := settings.Regions[0].(exclude.RectRegion)
	if !ok || rect.X2 != 50 {
		t.Errorf("region 0 = %+v", settings.Regions[0])
	}
	circle, ok := settings.Regions[1].(exclude.CircleRegion)
	if !ok || circle.R != 8 {
		t.Errorf("region 1 = %+v", settings.Regions[1])
	}
	if settings.SerialDevice != "/dev/ttyACM0" || settings.BaudRate != 250000 {
		t.Errorf("serial = %q %d", settings.SerialDevice, settings.BaudRate)
	}
	if settings.ListenAddr != ":8080" {
		t.Errorf("listen = %q", settings.ListenAddr)
	}
	if settings.LogLevel != "debug" {
		t.Errorf("log level = %q", settings.LogLevel)
	}
}

func TestLoadMissingRegionOption(t *testing.T) {
	path := writeConfig(t, "[rectangular_region]\nx1: 0\ny1: 0\nx2: 10\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for missing y2")
	}
}

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()
	if settings.AtCommand != "ExcludeRegion" {
		t.Errorf("AtCommand = %q", settings.AtCommand)
	}
	if settings.BaudRate != 115200 {
		t.Errorf("BaudRate = %d", settings.BaudRate)
	}
	if settings.ArcResolution != 1 {
		t.Errorf("ArcResolution = %v", settings.ArcResolution)
	}
}
