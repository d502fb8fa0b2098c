package depend

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/elicit/internal/model"
)

// Validate checks that an attribute sequence is internally consistent:
// unique non-empty ids, known types, options for single_choice, dependencies
// on known attributes, and no dependency cycles.
func Validate(attrs []model.AttributeSpec) error {
	var errs []string

	seen := make(map[string]bool, len(attrs))
	for i := range attrs {
		a := &attrs[i]
		switch {
		case a.ID == "":
			errs = append(errs, fmt.Sprintf("attribute %d: id is required", i))
			continue
		case a.ID == model.BudgetKey:
			errs = append(errs, fmt.Sprintf("attribute %d: id %q is reserved", i, a.ID))
		case seen[a.ID]:
			errs = append(errs, fmt.Sprintf("attribute %q: duplicate id", a.ID))
		}
		seen[a.ID] = true

		if !a.Type.Valid() {
			errs = append(errs, fmt.Sprintf("attribute %q: unknown type %q", a.ID, a.Type))
		}
		if a.Type == model.TypeSingleChoice && len(a.Options) == 0 {
			errs = append(errs, fmt.Sprintf("attribute %q: single_choice needs options", a.ID))
		}
		if a.Weight != nil && *a.Weight < 0 {
			errs = append(errs, fmt.Sprintf("attribute %q: weight must be >= 0", a.ID))
		}
		if a.Min != nil && a.Max != nil && *a.Max < *a.Min {
			errs = append(errs, fmt.Sprintf("attribute %q: max must be >= min", a.ID))
		}
	}

	for i := range attrs {
		for _, dep := range attrs[i].DependsOn {
			if dep.ID == attrs[i].ID {
				continue // reported as a cycle below
			}
			if !seen[dep.ID] {
				errs = append(errs, fmt.Sprintf("attribute %q: depends on unknown attribute %q", attrs[i].ID, dep.ID))
			}
		}
	}

	if cyclic := cycleMembers(attrs); len(cyclic) > 0 {
		errs = append(errs, fmt.Sprintf("dependency cycle through %s", strings.Join(cyclic, ", ")))
	}

	if len(errs) > 0 {
		return eris.Errorf("depend: schema validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func cycleMembers(attrs []model.AttributeSpec) []string {
	cyclic := findCycles(attrs)
	var out []string
	for i := range attrs {
		if cyclic[attrs[i].ID] {
			out = append(out, attrs[i].ID)
			delete(cyclic, attrs[i].ID)
		}
	}
	return out
}

const (
	unvisited = iota
	visiting
	done
)

// findCycles returns the ids of every attribute on a dependency cycle,
// walking the depends_on graph depth-first with a visited set.
func findCycles(attrs []model.AttributeSpec) map[string]bool {
	edges := make(map[string][]string, len(attrs))
	for i := range attrs {
		if _, dup := edges[attrs[i].ID]; dup {
			continue
		}
		deps := make([]string, 0, len(attrs[i].DependsOn))
		for _, d := range attrs[i].DependsOn {
			deps = append(deps, d.ID)
		}
		edges[attrs[i].ID] = deps
	}

	state := make(map[string]int, len(attrs))
	cyclic := make(map[string]bool)
	var stack []string

	var visit func(id string)
	visit = func(id string) {
		state[id] = visiting
		stack = append(stack, id)
		for _, next := range edges[id] {
			if _, known := edges[next]; !known {
				continue
			}
			switch state[next] {
			case unvisited:
				visit(next)
			case visiting:
				for j := len(stack) - 1; j >= 0; j-- {
					cyclic[stack[j]] = true
					if stack[j] == next {
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
	}

	for i := range attrs {
		if state[attrs[i].ID] == unvisited {
			visit(attrs[i].ID)
		}
	}
	return cyclic
}
