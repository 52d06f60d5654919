package gcode

import (
	"regexp"
	"strconv"
	"strings"
)

// reFloatArg matches a single argument token: an axis or parameter
// letter, optional whitespace, then a decimal number.
var reFloatArg = regexp.MustCompile(`^([A-Za-z])\s*([-+]?[0-9]*\.?[0-9]+)`)

// splitArgs splits a raw command into argument tokens. A new token
// starts before every letter past the first character, with any
// whitespace ahead of the letter absorbed into the separator, so both
// "G1 X10 Y-5.5" and "G1X10Y-5.5" yield ["G1", "X10", "Y-5.5"] while
// "X 10" stays one token. Token zero is the operation code.
func splitArgs(cmd string) []string {
	tokens := make([]string, 0, 8)
	start := 0
	for i := 1; i < len(cmd); i++ {
		if !isLetter(cmd[i]) {
			continue
		}
		end := i
		for end > start && (cmd[end-1] == ' ' || cmd[end-1] == '\t') {
			end--
		}
		if end == 0 {
			continue
		}
		tokens = append(tokens, cmd[start:end])
		start = i
	}
	return append(tokens, cmd[start:])
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// parseFloatArg extracts the uppercased label letter and numeric value
// from one argument token. ok is false when the token does not lead with
// a letter+number pair.
func parseFloatArg(token string) (label byte, value float64, ok bool) {
	m := reFloatArg.FindStringSubmatch(token)
	if m == nil {
		return 0, 0, false
	}
	v, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, 0, false
	}
	label = m[1][0]
	if label >= 'a' && label <= 'z' {
		label -= 'a' - 'A'
	}
	return label, v, true
}

// StripComment removes a ;-style trailing comment and any parenthesized
// inline comments, returning the trimmed command text.
func StripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	for {
		open := strings.IndexByte(line, '(')
		if open < 0 {
			break
		}
		end := strings.IndexByte(line[open:], ')')
		if end < 0 {
			line = line[:open]
			break
		}
		line = line[:open] + line[open+end+1:]
	}
	return strings.TrimSpace(line)
}

// SplitCode extracts the operation code and optional dot subcode from a
// command. "M80.1 P2" yields ("M80", "1"); "g1 x10" yields ("G1", "").
func SplitCode(cmd string) (code, subcode string) {
	code = cmd
	if i := strings.IndexAny(cmd, " \t"); i >= 0 {
		code = cmd[:i]
	}
	code = strings.ToUpper(code)
	if i := strings.IndexByte(code, '.'); i >= 0 {
		subcode = code[i+1:]
		code = code[:i]
	}
	return code, subcode
}
