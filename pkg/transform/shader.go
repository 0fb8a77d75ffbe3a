package transform

import (
	"strings"
)

const lineComment = "//"

// StripShaderComments removes line comments, surrounding whitespace and
// blank lines from shader source. Surviving lines are joined with a single
// newline and no trailing newline is added.
//
// The strip is purely lexical: it does not understand block comments or
// string literals, so a "//" inside a string is treated as a comment start.
func StripShaderComments(data []byte) ([]byte, error) {
	var kept []string
	for _, line := range strings.Split(string(data), "\n") {
		if i := strings.Index(line, lineComment); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return []byte(strings.Join(kept, "\n")), nil
}
