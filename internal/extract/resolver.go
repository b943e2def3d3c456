package extract

import "strings"

// resolver.go is the transitive closure over the CTE reference graph: a name
// resolves to the set of physical base tables it ultimately reads from. The
// graph may be cyclic (mutually recursive CTE definitions), so resolution
// carries the visited path and substitutes an opaque terminal once a name
// reappears on its own branch.

// resolve expands a CTE or alias name down to physical tables. Names with no
// CTE definition are physical tables and resolve to themselves.
func (e *Extractor) resolve(name string) map[string]struct{} {
	return e.resolveTable(name, make(map[string]struct{}))
}

// resolveAll unions resolve over a set of raw names.
func (e *Extractor) resolveAll(names map[string]struct{}) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	resolved := make(map[string]struct{})
	for name := range names {
		for t := range e.resolve(name) {
			resolved[t] = struct{}{}
		}
	}
	return resolved
}

func (e *Extractor) resolveTable(name string, visited map[string]struct{}) map[string]struct{} {
	normalized := strings.ToLower(name)

	if cached, ok := e.resolved[normalized]; ok {
		return cached
	}

	if _, onPath := visited[normalized]; onPath {
		// Cycle: treat the name as an opaque terminal and stop descending.
		result := map[string]struct{}{name: {}}
		e.resolved[normalized] = result
		return result
	}
	visited[normalized] = struct{}{}

	sources, isCTE := e.directSources[normalized]
	if !isCTE {
		result := map[string]struct{}{name: {}}
		e.resolved[normalized] = result
		return result
	}

	result := make(map[string]struct{})
	for source := range sources {
		// Branch-local copy: a cycle found under one source must not
		// contaminate resolution of its siblings.
		branch := make(map[string]struct{}, len(visited))
		for v := range visited {
			branch[v] = struct{}{}
		}
		for t := range e.resolveTable(source, branch) {
			result[t] = struct{}{}
		}
	}
	e.resolved[normalized] = result
	return result
}
