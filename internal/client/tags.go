package client

import (
	"slices"
	"strings"
)

// PredefinedTags are offered as one-tap choices when sharing or editing a link.
var PredefinedTags = []string{
	"Entertainment", "News", "Technology", "Sports", "Music", "Movies",
	"Education", "Work", "Gaming", "Shopping", "Social", "Travel",
}

// AddTag appends the trimmed tag unless it is blank or already present.
func AddTag(tags []string, tag string) []string {
	tag = strings.TrimSpace(tag)
	if tag == "" || slices.Contains(tags, tag) {
		return tags
	}
	out := make([]string, len(tags), len(tags)+1)
	copy(out, tags)
	return append(out, tag)
}

// RemoveTag drops every occurrence of tag.
func RemoveTag(tags []string, tag string) []string {
	tag = strings.TrimSpace(tag)
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != tag {
			out = append(out, t)
		}
	}
	return out
}
