package models

import (
	"sort"
	"strings"
)

// TagList is an ordered sequence of free-text tags stored as one
// comma-joined column. Entries are kept as submitted; trimming and
// de-duplication only happen when tags are rendered or filtered.
type TagList []string

// ParseTagList splits a comma-joined tag column into its trimmed, non-empty entries.
func ParseTagList(raw string) TagList {
	parts := strings.Split(raw, ",")
	tags := make(TagList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func (t TagList) String() string {
	return strings.Join(t, ", ")
}

// DistinctTags flattens comma-joined tag columns into a sorted list of unique
// tags. Duplicates are detected case-insensitively and the first spelling wins.
func DistinctTags(columns []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, col := range columns {
		for _, tag := range ParseTagList(col) {
			key := strings.ToLower(tag)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, tag)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}
