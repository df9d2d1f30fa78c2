// Package id defines the identifier types shared by the input model and the IR.
//
// All identifiers share one lexical rule, [A-Za-z_][A-Za-z0-9_]*, but each
// entity category gets its own string type so a tag id cannot be passed where a
// thing id is expected without an explicit conversion.
package id

import (
	"fmt"
	"regexp"
	"strings"
)

// ID is a validated identifier.
type ID string

// Category types. They convert freely to ID and to each other with explicit
// conversions.
type (
	NodeID        string
	ThingID       string
	TagID         string
	ProcessID     string
	ProcessStepID string
	EdgeGroupID   string
	EdgeID        string
)

// Reserved container ids. User ids cannot start with "_" followed by these names
// without colliding with the layout tree.
const (
	Root                        NodeID = "_root"
	ThingsAndProcessesContainer NodeID = "_things_and_processes_container"
	ProcessesContainer          NodeID = "_processes_container"
	ThingsContainer             NodeID = "_things_container"
	TagsContainer               NodeID = "_tags_container"
)

// Containers lists the reserved container ids in layout order.
var Containers = []NodeID{
	Root,
	ThingsAndProcessesContainer,
	ProcessesContainer,
	ThingsContainer,
	TagsContainer,
}

var pattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Valid reports whether s is a lexically valid identifier.
func Valid(s string) bool {
	return pattern.MatchString(s)
}

// New validates s and returns it as an ID.
func New(s string) (ID, error) {
	if !Valid(s) {
		return "", fmt.Errorf("invalid id %q: must match [A-Za-z_][A-Za-z0-9_]*", s)
	}
	return ID(s), nil
}

// IsReserved reports whether n is one of the built-in containers.
func IsReserved(n NodeID) bool {
	for _, c := range Containers {
		if c == n {
			return true
		}
	}
	return false
}

// NewEdgeID builds the id of the index-th edge of a group: "{group}__{index}".
func NewEdgeID(group EdgeGroupID, index int) EdgeID {
	return EdgeID(fmt.Sprintf("%s__%d", group, index))
}

// SplitEdgeID returns the group of an edge id built by NewEdgeID.
func SplitEdgeID(e EdgeID) (EdgeGroupID, bool) {
	i := strings.LastIndex(string(e), "__")
	if i <= 0 {
		return "", false
	}
	return EdgeGroupID(e[:i]), true
}
