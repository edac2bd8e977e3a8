package evonet

import (
	"fmt"
	"sort"
)

// Node identifies a network node by an unsigned integer tag. Equality
// and ordering are by tag.
type Node uint64

// Arc is a directed edge between two nodes. Self-loops are allowed, and
// arcs with swapped endpoints are distinct.
type Arc struct {
	Src Node
	Dst Node
}

// Direction selects which arc sets a traversal follows.
type Direction int

const (
	// Outgoing follows arcs from src to dst.
	Outgoing Direction = iota
	// Incoming follows arcs from dst to src.
	Incoming
)

// nodeArcs tracks the arcs attached to a single node.
type nodeArcs struct {
	out map[Arc]struct{}
	in  map[Arc]struct{}
}

// Graph is a directed weighted multigraph. Every arc in the weight map
// is registered in the outgoing set of its source and the incoming set
// of its destination, and both endpoints are always present as nodes.
type Graph struct {
	nodes map[Node]*nodeArcs
	arcs  map[Arc]float64
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[Node]*nodeArcs),
		arcs:  make(map[Arc]float64),
	}
}

// Nodes returns all node tags in ascending order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, 0, len(g.nodes))
	for id := range g.nodes {
		nodes = append(nodes, id)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

// Arcs returns all arcs ordered by (src, dst).
func (g *Graph) Arcs() []Arc {
	arcs := make([]Arc, 0, len(g.arcs))
	for arc := range g.arcs {
		arcs = append(arcs, arc)
	}
	sort.Slice(arcs, func(i, j int) bool {
		if arcs[i].Src != arcs[j].Src {
			return arcs[i].Src < arcs[j].Src
		}
		return arcs[i].Dst < arcs[j].Dst
	})
	return arcs
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// ArcCount returns the number of arcs.
func (g *Graph) ArcCount() int {
	return len(g.arcs)
}

// HasNode reports whether a node is present.
func (g *Graph) HasNode(id Node) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasArc reports whether an arc is present.
func (g *Graph) HasArc(arc Arc) bool {
	_, ok := g.arcs[arc]
	return ok
}

// Weight returns the weight of an arc and whether the arc exists.
func (g *Graph) Weight(arc Arc) (float64, bool) {
	w, ok := g.arcs[arc]
	return w, ok
}

// AddNode inserts a node. The node must not already be present.
func (g *Graph) AddNode(id Node) error {
	if _, ok := g.nodes[id]; ok {
		return fmt.Errorf("%w: node %d", ErrNodeExists, id)
	}
	g.nodes[id] = &nodeArcs{
		out: make(map[Arc]struct{}),
		in:  make(map[Arc]struct{}),
	}
	return nil
}

// RemoveNode removes a node. The node must exist and must not have any
// arcs attached; callers remove the arcs first.
func (g *Graph) RemoveNode(id Node) error {
	na, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: node %d", ErrNodeMissing, id)
	}
	if len(na.out) > 0 || len(na.in) > 0 {
		return fmt.Errorf("%w: node %d", ErrNodeHasArcs, id)
	}
	delete(g.nodes, id)
	return nil
}

// AddArc inserts an arc from src to dst with the given weight and
// returns it. Both endpoints must exist and the arc must not already be
// present; an existing arc has to be removed before it can be re-added.
func (g *Graph) AddArc(src, dst Node, weight float64) (Arc, error) {
	srcArcs, ok := g.nodes[src]
	if !ok {
		return Arc{}, fmt.Errorf("%w: arc source %d", ErrNodeMissing, src)
	}
	dstArcs, ok := g.nodes[dst]
	if !ok {
		return Arc{}, fmt.Errorf("%w: arc destination %d", ErrNodeMissing, dst)
	}
	arc := Arc{Src: src, Dst: dst}
	if _, ok := g.arcs[arc]; ok {
		return Arc{}, fmt.Errorf("%w: %d -> %d", ErrArcExists, src, dst)
	}
	g.arcs[arc] = weight
	srcArcs.out[arc] = struct{}{}
	dstArcs.in[arc] = struct{}{}
	return arc, nil
}

// RemoveArc removes an arc from the weight map and from both endpoints'
// arc sets. The arc must exist.
func (g *Graph) RemoveArc(arc Arc) error {
	if _, ok := g.arcs[arc]; !ok {
		return fmt.Errorf("%w: %d -> %d", ErrArcMissing, arc.Src, arc.Dst)
	}
	delete(g.arcs, arc)
	delete(g.nodes[arc.Src].out, arc)
	delete(g.nodes[arc.Dst].in, arc)
	return nil
}

// SetWeight replaces the weight of an existing arc.
func (g *Graph) SetWeight(arc Arc, weight float64) error {
	if _, ok := g.arcs[arc]; !ok {
		return fmt.Errorf("%w: %d -> %d", ErrArcMissing, arc.Src, arc.Dst)
	}
	g.arcs[arc] = weight
	return nil
}

// Union returns a new graph whose node set is the union of both
// operands' node sets and whose arc set is the union of their arc sets.
// An arc present in both operands gets the arithmetic mean of the two
// weights; an arc present in only one keeps its weight. The result
// shares no state with either operand.
func (g *Graph) Union(other *Graph) *Graph {
	merged := NewGraph()
	for id := range g.nodes {
		mustAddNode(merged, id)
	}
	for id := range other.nodes {
		if !merged.HasNode(id) {
			mustAddNode(merged, id)
		}
	}
	for arc, w := range g.arcs {
		weight := w
		if ow, ok := other.arcs[arc]; ok {
			weight = (w + ow) / 2
		}
		mustAddArc(merged, arc, weight)
	}
	for arc, w := range other.arcs {
		if _, ok := g.arcs[arc]; !ok {
			mustAddArc(merged, arc, w)
		}
	}
	return merged
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	clone := NewGraph()
	for id := range g.nodes {
		mustAddNode(clone, id)
	}
	for arc, w := range g.arcs {
		mustAddArc(clone, arc, w)
	}
	return clone
}

// Equal reports structural equality: same node set and same arcs with
// the same weights.
func (g *Graph) Equal(other *Graph) bool {
	if len(g.nodes) != len(other.nodes) || len(g.arcs) != len(other.arcs) {
		return false
	}
	for id := range g.nodes {
		if !other.HasNode(id) {
			return false
		}
	}
	for arc, w := range g.arcs {
		if ow, ok := other.arcs[arc]; !ok || ow != w {
			return false
		}
	}
	return true
}

// ConnectedComponent accumulates into visited every node reachable from
// seed by following arcs in the given direction. The seed itself is
// included. The traversal is iterative, so deep or cyclic graphs do not
// grow the call stack.
func (g *Graph) ConnectedComponent(seed Node, dir Direction, visited map[Node]struct{}) {
	if _, ok := g.nodes[seed]; !ok {
		return
	}
	stack := []Node{seed}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}
		na := g.nodes[id]
		if dir == Outgoing {
			for arc := range na.out {
				stack = append(stack, arc.Dst)
			}
		} else {
			for arc := range na.in {
				stack = append(stack, arc.Src)
			}
		}
	}
}

// UnreachableFrom returns every node that cannot be reached from any of
// the seeds by following outgoing arcs.
func (g *Graph) UnreachableFrom(seeds []Node) []Node {
	return g.unreachable(seeds, Outgoing)
}

// UnreachableTo returns every node from which none of the seeds can be
// reached, i.e. nodes unreachable from the seeds along incoming arcs.
func (g *Graph) UnreachableTo(seeds []Node) []Node {
	return g.unreachable(seeds, Incoming)
}

func (g *Graph) unreachable(seeds []Node, dir Direction) []Node {
	visited := make(map[Node]struct{}, len(g.nodes))
	for _, seed := range seeds {
		g.ConnectedComponent(seed, dir, visited)
	}
	var result []Node
	for id := range g.nodes {
		if _, ok := visited[id]; !ok {
			result = append(result, id)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// mustAddNode inserts a node known to be absent.
func mustAddNode(g *Graph, id Node) {
	if err := g.AddNode(id); err != nil {
		panic(err)
	}
}

// mustAddArc inserts an arc known to be absent, adding no nodes.
func mustAddArc(g *Graph, arc Arc, weight float64) {
	if _, err := g.AddArc(arc.Src, arc.Dst, weight); err != nil {
		panic(err)
	}
}
