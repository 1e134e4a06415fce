package events

import (
	"fmt"
	"strings"
)

// TaskIDParam is the wildcard that names the task in a document pattern.
const TaskIDParam = "taskId"

// PathPattern matches slash-separated document paths whose segments are either
// literals or {wildcards}, e.g. "tasks/{taskId}".
type PathPattern struct {
	raw      string
	segments []string
}

// ParsePathPattern validates and compiles a document path pattern.
// Patterns must address documents, so they have an even number of segments.
func ParsePathPattern(pattern string) (PathPattern, error) {
	trimmed := strings.Trim(pattern, "/")
	if trimmed == "" {
		return PathPattern{}, fmt.Errorf("empty document pattern")
	}

	segments := strings.Split(trimmed, "/")
	if len(segments)%2 != 0 {
		return PathPattern{}, fmt.Errorf("pattern %q must address a document, not a collection", pattern)
	}

	seen := make(map[string]bool)
	for _, seg := range segments {
		if seg == "" {
			return PathPattern{}, fmt.Errorf("pattern %q contains an empty segment", pattern)
		}
		name, ok := wildcardName(seg)
		if !ok {
			if strings.ContainsAny(seg, "{}") {
				return PathPattern{}, fmt.Errorf("pattern %q has a malformed wildcard %q", pattern, seg)
			}
			continue
		}
		if name == "" || seen[name] {
			return PathPattern{}, fmt.Errorf("pattern %q has an empty or repeated wildcard %q", pattern, seg)
		}
		seen[name] = true
	}

	return PathPattern{raw: trimmed, segments: segments}, nil
}

// MustParsePathPattern is like ParsePathPattern but panics on error.
func MustParsePathPattern(pattern string) PathPattern {
	p, err := ParsePathPattern(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the pattern as written, without surrounding slashes.
func (p PathPattern) String() string {
	return p.raw
}

// Match reports whether path matches the pattern and returns the wildcard values.
func (p PathPattern) Match(path string) (map[string]string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != len(p.segments) {
		return nil, false
	}

	params := make(map[string]string)
	for i, seg := range p.segments {
		if parts[i] == "" {
			return nil, false
		}
		if name, ok := wildcardName(seg); ok {
			params[name] = parts[i]
			continue
		}
		if seg != parts[i] {
			return nil, false
		}
	}
	return params, true
}

// Wildcards returns the wildcard names in path order.
func (p PathPattern) Wildcards() []string {
	var names []string
	for _, seg := range p.segments {
		if name, ok := wildcardName(seg); ok {
			names = append(names, name)
		}
	}
	return names
}

// TaskID picks the task identifier from matched params: the {taskId}
// wildcard when the pattern has one, otherwise the last wildcard. ok is false
// when the pattern has no wildcards.
func (p PathPattern) TaskID(params map[string]string) (string, bool) {
	if id, ok := params[TaskIDParam]; ok {
		return id, true
	}
	names := p.Wildcards()
	if len(names) == 0 {
		return "", false
	}
	id, ok := params[names[len(names)-1]]
	return id, ok
}

func wildcardName(seg string) (string, bool) {
	if len(seg) >= 2 && seg[0] == '{' && seg[len(seg)-1] == '}' {
		return seg[1 : len(seg)-1], true
	}
	return "", false
}
