package fx

import (
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// search resolves a rate through intermediate assets. It follows the path with
// the fewest hops in the undirected graph of direct quotes; among paths of
// equal length the choice is unspecified. Paths are simple, so cycles in the
// quote graph cannot make it loop.
func (m *Market) search(from, to string) (float64, bool) {
	names := m.Assets()
	ids := make(map[string]int64, len(names))
	for i, n := range names {
		ids[n] = int64(i)
	}
	fromID, okFrom := ids[from]
	toID, okTo := ids[to]
	if !okFrom || !okTo {
		return 0, false
	}

	g := simple.NewUndirectedGraph()
	for _, id := range ids {
		g.AddNode(simple.Node(id))
	}
	for p := range m.quotes {
		if p.Base == p.Quote {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(ids[p.Base]), simple.Node(ids[p.Quote])))
	}

	hops, _ := path.DijkstraFrom(simple.Node(fromID), g).To(toID)
	if len(hops) < 2 {
		return 0, false
	}

	rate := 1.0
	for i := 1; i < len(hops); i++ {
		rate *= m.hop(names[hops[i-1].ID()], names[hops[i].ID()])
	}
	return rate, true
}

// hop returns the single-edge rate from a to b. The forward orientation wins
// if a corrupted market stores both.
func (m *Market) hop(a, b string) float64 {
	if r, ok := m.quotes[Pair{Base: a, Quote: b}]; ok {
		return r
	}
	return 1 / m.quotes[Pair{Base: b, Quote: a}]
}
