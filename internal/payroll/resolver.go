package payroll

import (
	"sort"

	"backend/internal/model"

	"github.com/google/uuid"
)

// dependency resolution between rules: a rule whose base is another category's
// computed amount must be evaluated after that category. Edges are drawn at
// category level because every candidate rule for a category contributes its
// applies-to reference.

// groupByCategory buckets rules per category, candidates sorted for
// deterministic selection (range-scoped first, then by id).
func groupByCategory(rules []model.SalaryRule) map[uuid.UUID][]model.SalaryRule {
	byCat := make(map[uuid.UUID][]model.SalaryRule)
	for _, r := range rules {
		byCat[r.CategoryID] = append(byCat[r.CategoryID], r)
	}
	for id, candidates := range byCat {
		sort.Slice(candidates, func(i, j int) bool {
			ri, rj := candidates[i], candidates[j]
			if (ri.RangeID != nil) != (rj.RangeID != nil) {
				return ri.RangeID != nil
			}
			return ri.ID.String() < rj.ID.String()
		})
		byCat[id] = candidates
	}
	return byCat
}

// Order performs Kahn's topological sort over the category dependency graph
// and returns the category ids in evaluation order. A cycle fails with
// DependencyCycleError naming the categories involved; it is never silently
// short-circuited. References to categories without rules in the set carry no
// edge: the evaluator reports those as per-category skips.
func Order(rules []model.SalaryRule) ([]uuid.UUID, error) {
	byCat := groupByCategory(rules)

	catIDs := make([]uuid.UUID, 0, len(byCat))
	for id := range byCat {
		catIDs = append(catIDs, id)
	}
	sort.Slice(catIDs, func(i, j int) bool { return catIDs[i].String() < catIDs[j].String() })

	indegree := make(map[uuid.UUID]int, len(catIDs))
	dependents := make(map[uuid.UUID][]uuid.UUID, len(catIDs))
	for _, catID := range catIDs {
		indegree[catID] += 0
		seen := make(map[uuid.UUID]bool)
		for _, r := range byCat[catID] {
			if r.AppliesToCategoryID == nil {
				continue
			}
			dep := *r.AppliesToCategoryID
			if dep == catID {
				return nil, &DependencyCycleError{CategoryIDs: []uuid.UUID{catID}}
			}
			if _, inSet := byCat[dep]; !inSet || seen[dep] {
				continue
			}
			seen[dep] = true
			dependents[dep] = append(dependents[dep], catID)
			indegree[catID]++
		}
	}

	queue := make([]uuid.UUID, 0, len(catIDs))
	for _, id := range catIDs {
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]uuid.UUID, 0, len(catIDs))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, next := range dependents[id] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) < len(catIDs) {
		var cyclic []uuid.UUID
		for _, id := range catIDs {
			if indegree[id] > 0 {
				cyclic = append(cyclic, id)
			}
		}
		return nil, &DependencyCycleError{CategoryIDs: cyclic}
	}

	return order, nil
}
