package team

import (
	"fmt"
	"strings"
)

// ID identifies one of the competing houses
type ID string

const (
	Shu ID = "shu"
	Wei ID = "wei"
	Wu  ID = "wu"
)

// All returns every team in a stable order
func All() []ID {
	return []ID{Shu, Wei, Wu}
}

// Parse matches a team name case-insensitively, ignoring surrounding blanks
func Parse(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range All() {
		if t == id {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown team: %q", s)
}

// Title is the upper-case name used in chat messages
func (id ID) Title() string {
	return strings.ToUpper(string(id))
}

// LedgerDoc is the document holding the team's counters
func (id ID) LedgerDoc() string {
	return string(id)
}

// SubmissionsDoc is the document holding the team's mission submissions
func (id ID) SubmissionsDoc() string {
	return "registro_" + string(id)
}
