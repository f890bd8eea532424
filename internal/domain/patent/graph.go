package patent

import (
	"sort"

	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
)

// Edge points from a dependent claim to the claim it references.
type Edge struct {
	From int
	To   int
}

// DanglingReference is a reference to a claim number absent from the set.
// It is kept apart from the graph edges so traversal never meets a missing node.
type DanglingReference struct {
	From int
	To   int
}

// DependencyGraph is an index-based adjacency over a ClaimSet.  It is built
// once and read-only afterwards.  Every edge strictly decreases the claim
// number, so the graph is acyclic.
type DependencyGraph struct {
	nodes    []int
	index    map[int]int
	parents  [][]int
	children [][]int
	dangling []DanglingReference
	edges    int
}

// NewDependencyGraph derives the graph from the validated References of each
// claim.  References to numbers missing from the set become dangling entries.
func NewDependencyGraph(claims ClaimSet, dangling []DanglingReference) (*DependencyGraph, error) {
	g := &DependencyGraph{
		nodes:    claims.Numbers(),
		index:    make(map[int]int, len(claims)),
		parents:  make([][]int, len(claims)),
		children: make([][]int, len(claims)),
	}
	for i, n := range g.nodes {
		if _, dup := g.index[n]; dup {
			return nil, errors.Newf(errors.ErrCodeValidation, "duplicate claim number %d", n)
		}
		g.index[n] = i
	}
	g.dangling = append(g.dangling, dangling...)

	for i, c := range claims {
		for _, r := range c.References {
			j, ok := g.index[r]
			if !ok {
				g.dangling = append(g.dangling, DanglingReference{From: c.Number, To: r})
				continue
			}
			if r >= c.Number {
				return nil, errors.Newf(errors.ErrCodeValidation, "edge %d -> %d does not point backwards", c.Number, r)
			}
			g.parents[i] = append(g.parents[i], r)
			g.children[j] = append(g.children[j], c.Number)
			g.edges++
		}
	}
	for i := range g.parents {
		sort.Ints(g.parents[i])
		sort.Ints(g.children[i])
	}
	return g, nil
}

// Nodes returns the claim numbers in document order.
func (g *DependencyGraph) Nodes() []int {
	return append([]int(nil), g.nodes...)
}

// HasNode reports whether n is a claim in the graph.
func (g *DependencyGraph) HasNode(n int) bool {
	_, ok := g.index[n]
	return ok
}

// Parents returns the claims that n references.
func (g *DependencyGraph) Parents(n int) []int {
	i, ok := g.index[n]
	if !ok {
		return nil
	}
	return append([]int(nil), g.parents[i]...)
}

// Children returns the claims that reference n.
func (g *DependencyGraph) Children(n int) []int {
	i, ok := g.index[n]
	if !ok {
		return nil
	}
	return append([]int(nil), g.children[i]...)
}

// EdgeCount returns the number of edges.
func (g *DependencyGraph) EdgeCount() int {
	return g.edges
}

// Edges lists every edge ordered by (From, To).
func (g *DependencyGraph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for i, n := range g.nodes {
		for _, p := range g.parents[i] {
			out = append(out, Edge{From: n, To: p})
		}
	}
	return out
}

// Dangling returns the references that could not become edges.
func (g *DependencyGraph) Dangling() []DanglingReference {
	return append([]DanglingReference(nil), g.dangling...)
}

// Roots returns the claims that reference nothing.
func (g *DependencyGraph) Roots() []int {
	var out []int
	for i, n := range g.nodes {
		if len(g.parents[i]) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// Levels returns the dependency level of every claim: 0 for roots, otherwise
// one more than the deepest parent.  Nodes are visited in document order, so
// parents are always resolved first.
func (g *DependencyGraph) Levels() map[int]int {
	levels := make(map[int]int, len(g.nodes))
	for i, n := range g.nodes {
		lvl := 0
		for _, p := range g.parents[i] {
			if pl := levels[p] + 1; pl > lvl {
				lvl = pl
			}
		}
		levels[n] = lvl
	}
	return levels
}

// MaxDepth returns the highest dependency level in the graph.
func (g *DependencyGraph) MaxDepth() int {
	deepest := 0
	for _, l := range g.Levels() {
		if l > deepest {
			deepest = l
		}
	}
	return deepest
}

// Subtree returns root followed by every claim that transitively depends on
// it, in breadth-first order.
func (g *DependencyGraph) Subtree(root int) []int {
	if !g.HasNode(root) {
		return nil
	}
	visited := map[int]bool{root: true}
	queue := []int{root}
	var out []int
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, cur)
		for _, ch := range g.children[g.index[cur]] {
			if !visited[ch] {
				visited[ch] = true
				queue = append(queue, ch)
			}
		}
	}
	return out
}

// HasCycle runs a colouring DFS over the edges.  Construction already rules
// cycles out; this is the check tests use to confirm it.
func (g *DependencyGraph) HasCycle() bool {
	const (
		white = iota
		grey
		black
	)
	colour := make([]int, len(g.nodes))
	var visit func(i int) bool
	visit = func(i int) bool {
		colour[i] = grey
		for _, p := range g.parents[i] {
			j := g.index[p]
			switch colour[j] {
			case grey:
				return true
			case white:
				if visit(j) {
					return true
				}
			}
		}
		colour[i] = black
		return false
	}
	for i := range g.nodes {
		if colour[i] == white && visit(i) {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
