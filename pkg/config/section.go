package config

import (
	"strconv"
	"strings"

	"excluderegion-go/pkg/errors"
)

// Section is one [type] or [type name] block of the config file.
type Section struct {
	typ     string
	name    string
	options map[string]string
}

func newSection(header string) *Section {
	s := &Section{options: make(map[string]string)}
	if i := strings.IndexAny(header, " \t"); i >= 0 {
		s.typ = header[:i]
		s.name = strings.TrimSpace(header[i+1:])
	} else {
		s.typ = header
	}
	return s
}

// Type returns the section type, the first word of the header.
func (s *Section) Type() string {
	return s.typ
}

// Name returns the section instance name, empty for unnamed sections.
func (s *Section) Name() string {
	return s.name
}

// FullName returns the header as written, for error messages.
func (s *Section) FullName() string {
	if s.name == "" {
		return s.typ
	}
	return s.typ + " " + s.name
}

// HasOption reports whether the option is present.
func (s *Section) HasOption(option string) bool {
	_, ok := s.options[strings.ToLower(option)]
	return ok
}

// Get returns a string option. A fallback makes the option optional.
func (s *Section) Get(option string, fallback ...string) (string, error) {
	if v, ok := s.options[strings.ToLower(option)]; ok {
		return v, nil
	}
	if len(fallback) > 0 {
		return fallback[0], nil
	}
	return "", errors.ConfigOptionError(s.FullName(), option, "must be specified")
}

// GetFloat returns a float option. A fallback makes the option optional.
func (s *Section) GetFloat(option string, fallback ...float64) (float64, error) {
	if v, ok := s.options[strings.ToLower(option)]; ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, errors.ConfigOptionError(s.FullName(), option, "invalid float "+strconv.Quote(v))
		}
		return f, nil
	}
	if len(fallback) > 0 {
		return fallback[0], nil
	}
	return 0, errors.ConfigOptionError(s.FullName(), option, "must be specified")
}

// GetInt returns an integer option. A fallback makes the option optional.
func (s *Section) GetInt(option string, fallback ...int) (int, error) {
	if v, ok := s.options[strings.ToLower(option)]; ok {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, errors.ConfigOptionError(s.FullName(), option, "invalid integer "+strconv.Quote(v))
		}
		return i, nil
	}
	if len(fallback) > 0 {
		return fallback[0], nil
	}
	return 0, errors.ConfigOptionError(s.FullName(), option, "must be specified")
}
