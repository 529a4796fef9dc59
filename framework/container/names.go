package container

import (
	"regexp"
	"strings"
)

// namePattern splits "Name (tag1, tag2)" into the bare name and the tag list.
// The bare name stops at the first blank or opening parenthesis.
var namePattern = regexp.MustCompile(`^\s*([^(\s]*)\s*(?:\(([^)]*)\))?`)

// ParseName splits a registration name written as "Name (tag1, tag2)" into
// its bare name and tags. Surrounding whitespace is ignored and empty tags are
// dropped, so "Name" and "Name ()" both yield no tags.
func ParseName(raw string) (name string, tags []string) {
	m := namePattern.FindStringSubmatch(raw)
	if m == nil {
		return "", nil
	}
	return m[1], splitList(m[2])
}

// splitList splits a comma-separated list, trimming entries and dropping the
// empty ones.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// appendUnique appends the items of add that are not already in list.
func appendUnique(list []string, add ...string) []string {
	for _, item := range add {
		found := false
		for _, existing := range list {
			if existing == item {
				found = true
				break
			}
		}
		if !found {
			list = append(list, item)
		}
	}
	return list
}
