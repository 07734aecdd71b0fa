package console

import "strings"

// Input is one parsed console line.
type Input struct {
	// Command is the first word of the line, lowercased.
	Command string
	// Args are the remaining whitespace-separated words.
	Args []string
	// Raw is the text after the command word with surrounding space trimmed
	// but interior spacing preserved (dice expressions may carry spaces).
	Raw string
}

// ParseLine splits one line of input into an Input.
//
// Postcondition: Returns the zero Input when line is blank; Command is
// always lowercased.
func ParseLine(line string) Input {
	line = strings.TrimSpace(line)
	if line == "" {
		return Input{}
	}

	spaceIdx := strings.IndexByte(line, ' ')
	if spaceIdx < 0 {
		return Input{Command: strings.ToLower(line)}
	}

	rest := strings.TrimSpace(line[spaceIdx+1:])

	var args []string
	if rest != "" {
		args = strings.Fields(rest)
	}

	return Input{
		Command: strings.ToLower(line[:spaceIdx]),
		Args:    args,
		Raw:     rest,
	}
}
