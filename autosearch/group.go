package autosearch

import (
	"errors"
	"sort"

	"github.com/cornell-brg/uecgra-model/graph"
)

// ErrGroupsNotPartition guards the Phase 1 post-condition; it should never
// be observed in practice and indicates a bug in BuildGroups.
var ErrGroupsNotPartition = errors.New("autosearch: groups do not partition the graph's nodes")

// Group is one Phase 1 grouping unit: either a singleton (any node with
// more or less than exactly one predecessor/successor) or a maximal run of
// singly-chained nodes merged together.
type Group struct {
	// Key is the lexicographically smallest member name, used for the
	// deterministic "ascending key order" Phase 2/3 iterate in.
	Key   string
	Nodes []string // sorted
}

func isSinglyChained(g *graph.Graph, name string) bool {
	return len(g.GetSrcs(name)) == 1 && len(g.GetDsts(name)) == 1
}

// BuildGroups partitions every node in g into Groups: starting from an
// unvisited node, a singly-chained node grows a chain forward and backward
// through other singly-chained neighbors; anything else is its own
// singleton group. The result is returned in ascending Key order. Returns
// ErrGroupsNotPartition if the post-condition assertion fails (defensive;
// BuildGroups's own bookkeeping should make this unreachable).
func BuildGroups(g *graph.Graph) ([]Group, error) {
	names := g.AllNodes()
	visited := make(map[string]bool, len(names))
	var groups []Group

	for _, name := range names {
		if visited[name] {
			continue
		}

		if !isSinglyChained(g, name) {
			visited[name] = true
			groups = append(groups, newGroup([]string{name}))

			continue
		}

		members := []string{name}
		visited[name] = true

		for cur := name; isSinglyChained(g, cur); {
			next := g.GetDsts(cur)[0]
			if visited[next] || !isSinglyChained(g, next) {
				break
			}
			members = append(members, next)
			visited[next] = true
			cur = next
		}

		for cur := name; isSinglyChained(g, cur); {
			prev := g.GetSrcs(cur)[0]
			if visited[prev] || !isSinglyChained(g, prev) {
				break
			}
			members = append(members, prev)
			visited[prev] = true
			cur = prev
		}

		groups = append(groups, newGroup(members))
	}

	if err := assertPartition(names, groups); err != nil {
		return nil, err
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })

	return groups, nil
}

func newGroup(members []string) Group {
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)

	return Group{Key: sorted[0], Nodes: sorted}
}

func assertPartition(names []string, groups []Group) error {
	seen := make(map[string]bool, len(names))
	for _, grp := range groups {
		for _, n := range grp.Nodes {
			if seen[n] {
				return ErrGroupsNotPartition
			}
			seen[n] = true
		}
	}
	if len(seen) != len(names) {
		return ErrGroupsNotPartition
	}

	return nil
}
