// Package tree flattens and queries the resource trees returned by the IDE
package tree

import (
	"errors"
	"fmt"

	"github.com/brettbedarf/stshell"
)

// PathSep joins branch names in [stshell.ItemDetail.Path]
const PathSep = "/"

var (
	ErrNotFound    = errors.New("resource not found in tree")
	ErrDuplicateID = errors.New("duplicate resource id in tree")
)

// Flatten returns the ids of every leaf in document order (depth-first,
// pre-order). Branches contribute no entry of their own.
func Flatten(nodes []stshell.ResourceNode) []string {
	return flatten(nodes, nil)
}

func flatten(nodes []stshell.ResourceNode, ids []string) []string {
	for _, n := range nodes {
		switch n := n.(type) {
		case stshell.Leaf:
			ids = append(ids, n.ID)
		case stshell.Branch:
			ids = flatten(n.Children, ids)
		}
	}
	return ids
}

// Resolve finds the first leaf with the given id and returns its metadata
// and the path of branch names leading to it. ok is false when no leaf
// matches, which includes an empty tree.
func Resolve(nodes []stshell.ResourceNode, id string) (*stshell.ItemDetail, bool) {
	return ResolvePrefixed(nodes, id, "")
}

// ResolvePrefixed is [Resolve] for a subtree whose branches are already
// nested under prefix
func ResolvePrefixed(nodes []stshell.ResourceNode, id, prefix string) (*stshell.ItemDetail, bool) {
	for _, n := range nodes {
		switch n := n.(type) {
		case stshell.Leaf:
			if n.ID == id {
				return &stshell.ItemDetail{
					ID:           n.ID,
					Name:         n.Text,
					ResourceType: n.ResourceType,
					ContentType:  n.ContentType,
					Path:         prefix,
				}, true
			}
		case stshell.Branch:
			if item, ok := ResolvePrefixed(n.Children, id, join(prefix, n.Text)); ok {
				return item, true
			}
		}
	}
	return nil, false
}

// Lookup is [Resolve] returning [ErrNotFound] instead of a flag
func Lookup(nodes []stshell.ResourceNode, id string) (*stshell.ItemDetail, error) {
	item, ok := Resolve(nodes, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return item, nil
}

// Validate reports every leaf id that appears more than once.
// Resolution keeps first-match semantics regardless.
func Validate(nodes []stshell.ResourceNode) error {
	seen := make(map[string]struct{})
	var dups []error
	for _, id := range Flatten(nodes) {
		if _, ok := seen[id]; ok {
			dups = append(dups, fmt.Errorf("%w: %s", ErrDuplicateID, id))
			continue
		}
		seen[id] = struct{}{}
	}
	return errors.Join(dups...)
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + PathSep + name
}
