// Package config loads the filter configuration file.
//
// The format is an INI dialect: [section] or [section name] headers,
// "key: value" or "key = value" options, and # or ; comments. Region
// sections may appear any number of times as long as their names differ.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"excluderegion-go/pkg/errors"
)

// File is a parsed configuration file. Sections keep file order.
type File struct {
	sections []*Section
}

// Parse reads the configuration from a reader-backed file path.
func Parse(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigSection, "cannot open config file")
	}
	defer f.Close()

	file := &File{}
	var current *Section

	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				return nil, errors.ConfigSectionError(line,
					fmt.Sprintf("malformed section header on line %d", lineno))
			}
			header := strings.TrimSpace(line[1 : len(line)-1])
			if header == "" {
				return nil, errors.ConfigSectionError(line,
					fmt.Sprintf("empty section header on line %d", lineno))
			}
			current = newSection(header)
			file.sections = append(file.sections, current)
			continue
		}

		if current == nil {
			return nil, errors.ConfigSectionError("",
				fmt.Sprintf("option outside any section on line %d", lineno))
		}
		key, value, ok := splitOption(line)
		if !ok {
			return nil, errors.ConfigOptionError(current.FullName(), line,
				fmt.Sprintf("malformed option on line %d", lineno))
		}
		current.options[strings.ToLower(key)] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigSection, "cannot read config file")
	}
	return file, nil
}

// Section returns the first section with the given type and no name, or
// nil when absent.
func (f *File) Section(typ string) *Section {
	for _, s := range f.sections {
		if s.typ == typ && s.name == "" {
			return s
		}
	}
	return nil
}

// SectionsOf returns every section of the given type, in file order.
func (f *File) SectionsOf(typ string) []*Section {
	var result []*Section
	for _, s := range f.sections {
		if s.typ == typ {
			result = append(result, s)
		}
	}
	return result
}

func stripComment(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] == '#' || line[i] == ';' {
			line = line[:i]
			break
		}
	}
	return strings.TrimSpace(line)
}

func splitOption(line string) (key, value string, ok bool) {
	sep := strings.IndexAny(line, ":=")
	if sep <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:sep])
	value = strings.TrimSpace(line[sep+1:])
	if key == "" {
		return "", "", false
	}
	return key, value, true
}
