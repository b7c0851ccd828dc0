package service

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/mmynk/splitledger/internal/models"
)

// normalizeMembers trims names and drops duplicates, keeping first occurrences.
func normalizeMembers(names []string) ([]string, error) {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, invalidf("member names cannot be empty")
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}

// requireMember fails unless name belongs to the group. The error suggests the
// closest member name when there is a plausible typo.
func requireMember(group *models.Group, name string) error {
	if group.HasMember(name) {
		return nil
	}
	if name == "" {
		return invalidf("member name is required")
	}
	if suggestion := closestMember(name, group.Members); suggestion != "" {
		return invalidf("%q is not a member of %q; did you mean %q?", name, group.Name, suggestion)
	}
	return invalidf("%q is not a member of %q (members: %s)", name, group.Name, describeMembers(group.Members))
}

// closestMember returns the member within a third of name's length in edit
// distance (at least two edits), or "".
func closestMember(name string, members []string) string {
	limit := max(2, len(name)/3)
	best, bestDistance := "", limit+1
	for _, m := range members {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(m))
		if d < bestDistance {
			best, bestDistance = m, d
		}
	}
	return best
}

func describeMembers(members []string) string {
	return fmt.Sprintf("[%s]", strings.Join(members, ", "))
}
