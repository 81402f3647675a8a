package generator

import (
	"fmt"
	"regexp"

	"github.com/blimu-dev/specir/pkg/config"
	"github.com/blimu-dev/specir/pkg/ir"
)

// FilterSpec returns the part of spec a client asked for. Operations are
// kept or dropped by their tags, modules are rebuilt, and when any filter is
// set the schemas no kept operation reaches are pruned. spec is not modified.
func FilterSpec(spec *ir.Spec, client config.Client) (*ir.Spec, error) {
	if len(client.IncludeTags) == 0 && len(client.ExcludeTags) == 0 {
		return spec, nil
	}
	include, exclude, err := compileTagFilters(client.IncludeTags, client.ExcludeTags)
	if err != nil {
		return nil, err
	}

	out := *spec
	out.Operations = nil
	for _, op := range spec.Operations {
		if shouldIncludeOperation(op.Tags, include, exclude) {
			out.Operations = append(out.Operations, op)
		}
	}
	out.Modules = ir.BuildModules(out.Operations)

	reachable := spec.Reachable(out.Operations)
	out.Schemas = nil
	for _, s := range spec.Schemas {
		if reachable[s.SchemaName().Pascal] {
			out.Schemas = append(out.Schemas, s)
		}
	}
	return &out, nil
}

// compileTagFilters compiles include and exclude tag patterns
func compileTagFilters(include, exclude []string) ([]*regexp.Regexp, []*regexp.Regexp, error) {
	inc := make([]*regexp.Regexp, 0, len(include))
	for _, p := range include {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid includeTags pattern %q: %w", p, err)
		}
		inc = append(inc, r)
	}
	exc := make([]*regexp.Regexp, 0, len(exclude))
	for _, p := range exclude {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid excludeTags pattern %q: %w", p, err)
		}
		exc = append(exc, r)
	}
	return inc, exc, nil
}

// shouldIncludeOperation reports whether an operation with tags passes the
// filters. Any tag matching any include pattern includes it; any tag matching
// any exclude pattern then drops it.
func shouldIncludeOperation(tags []string, include, exclude []*regexp.Regexp) bool {
	included := len(include) == 0
	for _, tag := range tags {
		if included {
			break
		}
		for _, r := range include {
			if r.MatchString(tag) {
				included = true
				break
			}
		}
	}
	if !included {
		return false
	}

	for _, tag := range tags {
		for _, r := range exclude {
			if r.MatchString(tag) {
				return false
			}
		}
	}
	return true
}
