package service

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/MKhiriev/resource-sync/models"
)

// orderByReferences moves resources created in this chunk in front of the
// patches referencing them. Unrelated patches keep their relative order.
// ErrReferenceCycle is returned when created resources reference each other.
func orderByReferences(patches []models.PatchMapping) ([]models.PatchMapping, error) {
	created := make(map[string]int)
	for i, p := range patches {
		if p.Patch.Type == models.PatchInsert {
			created[p.Patch.Key()] = i
		}
	}
	if len(created) == 0 {
		return patches, nil
	}

	indegree := make([]int, len(patches))
	dependents := make([][]int, len(patches))
	for i, p := range patches {
		seen := make(map[int]bool)
		for _, ref := range references(p.Patch.Payload) {
			j, ok := created[ref]
			if !ok || j == i || seen[j] {
				continue
			}
			seen[j] = true
			dependents[j] = append(dependents[j], i)
			indegree[i]++
		}
	}

	// Kahn's algorithm, always taking the earliest ready patch.
	ready := make([]int, 0, len(patches))
	for i := range patches {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	ordered := make([]models.PatchMapping, 0, len(patches))
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		ordered = append(ordered, patches[next])

		for _, d := range dependents[next] {
			indegree[d]--
			if indegree[d] == 0 {
				pos, _ := slices.BinarySearch(ready, d)
				ready = slices.Insert(ready, pos, d)
			}
		}
	}

	if len(ordered) != len(patches) {
		return nil, ErrReferenceCycle
	}
	return ordered, nil
}

// references collects the "Type/id" values of every "reference" property in
// a resource or JSON Patch document.
func references(payload json.RawMessage) []string {
	if len(payload) == 0 {
		return nil
	}
	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil
	}

	var refs []string
	var walk func(v any)
	walk = func(v any) {
		switch t := v.(type) {
		case map[string]any:
			for k, val := range t {
				if s, ok := val.(string); ok && k == "reference" {
					refs = append(refs, normalizeReference(s))
					continue
				}
				walk(val)
			}
		case []any:
			for _, e := range t {
				walk(e)
			}
		}
	}
	walk(doc)

	return refs
}

// normalizeReference reduces absolute and versioned references to "Type/id".
func normalizeReference(ref string) string {
	if i := strings.Index(ref, "/_history/"); i >= 0 {
		ref = ref[:i]
	}
	parts := strings.Split(strings.TrimRight(ref, "/"), "/")
	if len(parts) < 2 {
		return ref
	}
	return models.ResourceKey(parts[len(parts)-2], parts[len(parts)-1])
}
