package pipeline

// Graph is a directed graph built from a pipeline's nodes and edges.
// Vertices referenced only by an edge are present but carry no type.
type Graph struct {
	order []string            // vertex IDs in insertion order
	types map[string]string   // vertex ID -> node type, typed vertices only
	succ  map[string][]string // vertex ID -> successor IDs
	pred  map[string][]string // vertex ID -> predecessor IDs
	arcs  int
}

// NewGraph builds a Graph from the given nodes and edges.
// Neither slice is modified.
func NewGraph(nodes []Node, edges []Edge) *Graph {
	g := &Graph{
		types: make(map[string]string, len(nodes)),
		succ:  make(map[string][]string, len(nodes)),
		pred:  make(map[string][]string, len(nodes)),
	}
	for _, n := range nodes {
		g.addVertex(n.ID)
		g.types[n.ID] = n.Type
	}
	for _, e := range edges {
		g.addArc(e.Source, e.Target)
	}
	return g
}

func (g *Graph) addVertex(id string) {
	if _, ok := g.succ[id]; ok {
		return
	}
	g.order = append(g.order, id)
	g.succ[id] = nil
	g.pred[id] = nil
}

func (g *Graph) addArc(from, to string) {
	g.addVertex(from)
	g.addVertex(to)
	g.succ[from] = append(g.succ[from], to)
	g.pred[to] = append(g.pred[to], from)
	g.arcs++
}

// Order returns the number of vertices, including those created by edges.
func (g *Graph) Order() int { return len(g.order) }

// Size returns the number of arcs.
func (g *Graph) Size() int { return g.arcs }

// HasVertex reports whether id is a vertex of g.
func (g *Graph) HasVertex(id string) bool {
	_, ok := g.succ[id]
	return ok
}

// Type returns the node type of a vertex. The second result is false for
// vertices that were only referenced by an edge.
func (g *Graph) Type(id string) (string, bool) {
	t, ok := g.types[id]
	return t, ok
}

// IsDAG reports whether g contains no directed cycle.
func (g *Graph) IsDAG() bool {
	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)

	state := make(map[string]int, len(g.order))

	var dfs func(id string) bool
	dfs = func(id string) bool {
		state[id] = visiting
		for _, next := range g.succ[id] {
			switch state[next] {
			case visiting:
				return true
			case unvisited:
				if dfs(next) {
					return true
				}
			}
		}
		state[id] = visited
		return false
	}

	for _, id := range g.order {
		if state[id] == unvisited {
			if dfs(id) {
				return false
			}
		}
	}
	return true
}

// IsWeaklyConnected reports whether every vertex is reachable from every
// other when arcs are treated as undirected. The empty graph is connected.
func (g *Graph) IsWeaklyConnected() bool {
	if len(g.order) == 0 {
		return true
	}

	seen := make(map[string]bool, len(g.order))
	queue := []string{g.order[0]}
	seen[g.order[0]] = true
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, adj := range [][]string{g.succ[current], g.pred[current]} {
			for _, next := range adj {
				if !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
	}
	return len(seen) == len(g.order)
}
