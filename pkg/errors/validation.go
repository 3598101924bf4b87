package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// treeIDRegex matches valid tree identifiers: lowercase kebab-case slugs.
var treeIDRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidateTreeID validates a skill-tree identifier.
// Tree IDs are lowercase-kebab slugs and form the immutable identity of a
// tree, so the rules are strict: no uppercase, no leading/trailing dashes,
// no empty segments.
func ValidateTreeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTreeID, "tree ID cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidTreeID, "tree ID too long (max 128 characters)")
	}
	if !treeIDRegex.MatchString(id) {
		return New(ErrCodeInvalidTreeID, "tree ID must be lowercase kebab-case: %q", id)
	}
	return nil
}

// ValidateNodeID validates a node identifier within a tree.
// Node IDs are free-form but must be non-empty and printable, since they
// appear in edge references, completion sets, and cache keys.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNode, "node ID cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidNode, "node ID too long (max 256 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNode, "node ID contains control characters")
		}
	}
	return nil
}

// ValidateResourceURL validates a learning-resource URL.
// Resources are shown to learners unmoderated, so only https is accepted.
func ValidateResourceURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidResource, "resource URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidResource, "resource URL must use https: %q", rawURL)
	}
	return nil
}
