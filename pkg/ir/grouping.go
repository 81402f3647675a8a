package ir

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blimu-dev/specir/pkg/naming"
)

// DefaultModule collects operations without tags.
const DefaultModule = "default"

// GroupBy selects how operations are split into groups.
type GroupBy string

const (
	GroupByTag       GroupBy = "tag"
	GroupByOperation GroupBy = "operation"
	GroupByRoute     GroupBy = "route"
)

// ParseGroupBy parses a grouping name. The empty string means GroupByTag.
func ParseGroupBy(s string) (GroupBy, error) {
	switch GroupBy(s) {
	case "", GroupByTag:
		return GroupByTag, nil
	case GroupByOperation, GroupByRoute:
		return GroupBy(s), nil
	default:
		return "", fmt.Errorf("unknown grouping %q (want tag, operation or route)", s)
	}
}

// Group is a named set of operation indices.
type Group struct {
	Name       naming.Name
	Operations []int
}

// BuildModules groups operations by tag. Untagged operations go to the
// "default" module, operations with several tags appear in each of them, and
// modules are sorted by name.
func BuildModules(ops []Operation) []Module {
	byTag := map[string][]int{}
	for i, op := range ops {
		if len(op.Tags) == 0 {
			byTag[DefaultModule] = append(byTag[DefaultModule], i)
			continue
		}
		seen := map[string]bool{}
		for _, tag := range op.Tags {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			byTag[tag] = append(byTag[tag], i)
		}
	}

	names := make([]string, 0, len(byTag))
	for name := range byTag {
		names = append(names, name)
	}
	sort.Strings(names)

	modules := make([]Module, 0, len(names))
	for _, name := range names {
		modules = append(modules, Module{Name: naming.Normalize(name), Operations: byTag[name]})
	}
	return modules
}

// GroupOperations splits the operations of spec into groups.
func GroupOperations(spec *Spec, by GroupBy) []Group {
	switch by {
	case GroupByOperation:
		groups := make([]Group, len(spec.Operations))
		for i, op := range spec.Operations {
			groups[i] = Group{Name: op.Name, Operations: []int{i}}
		}
		return groups
	case GroupByRoute:
		var order []string
		byPrefix := map[string][]int{}
		for i, op := range spec.Operations {
			prefix := PathPrefix(op.Path)
			if _, ok := byPrefix[prefix]; !ok {
				order = append(order, prefix)
			}
			byPrefix[prefix] = append(byPrefix[prefix], i)
		}
		groups := make([]Group, len(order))
		for i, prefix := range order {
			groups[i] = Group{Name: naming.Normalize(prefix), Operations: byPrefix[prefix]}
		}
		return groups
	default:
		groups := make([]Group, len(spec.Modules))
		for i, m := range spec.Modules {
			groups[i] = Group{Name: m.Name, Operations: m.Operations}
		}
		return groups
	}
}

// PathPrefix returns the first literal segment of path, or "default".
func PathPrefix(path string) string {
	for _, seg := range strings.Split(path, "/") {
		if seg != "" && !strings.HasPrefix(seg, "{") {
			return seg
		}
	}
	return DefaultModule
}
