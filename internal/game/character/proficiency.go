package character

import (
	"fmt"
	"strings"
)

// Proficiency is a trained skill category a check can apply.
type Proficiency int

const (
	Insight Proficiency = iota
	Investigation
	Perception
	Stealth
)

// Level is a proficiency training level. Untrained, Proficient, and
// Expertise are the conventional values; any level in [0, 255] is legal and
// multiplies the proficiency bonus.
type Level int

const (
	Untrained  Level = 0
	Proficient Level = 1
	Expertise  Level = 2
)

// String returns the lowercase proficiency name.
func (p Proficiency) String() string {
	switch p {
	case Insight:
		return "insight"
	case Investigation:
		return "investigation"
	case Perception:
		return "perception"
	case Stealth:
		return "stealth"
	default:
		return "unknown"
	}
}

// ParseProficiency converts a textual proficiency name into a Proficiency.
// Matching is case-insensitive and requires the full name.
//
// Postcondition: Returns a valid Proficiency or a descriptive error.
func ParseProficiency(s string) (Proficiency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "insight":
		return Insight, nil
	case "investigation":
		return Investigation, nil
	case "perception":
		return Perception, nil
	case "stealth":
		return Stealth, nil
	default:
		return Insight, fmt.Errorf("character: unknown proficiency %q", s)
	}
}

// SightAffected reports whether rolls with this proficiency can be affected
// by line of sight and lighting conditions. Stealth is about staying unseen,
// not seeing, so it is exempt.
func (p Proficiency) SightAffected() bool {
	switch p {
	case Insight, Investigation, Perception:
		return true
	default:
		return false
	}
}
