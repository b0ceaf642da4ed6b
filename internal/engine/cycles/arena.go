package cycles

// visitArena is a visited set reused across reachability queries. A node
// counts as visited when its stamp equals the current generation, so
// starting a new query is a counter increment.
type visitArena struct {
	stamp []uint32
	gen   uint32
	stack []int
}

func newVisitArena(n int) *visitArena {
	return &visitArena{
		stamp: make([]uint32, n),
		stack: make([]int, 0, 64),
	}
}

func (a *visitArena) next() {
	a.gen++
	if a.gen == 0 {
		clear(a.stamp)
		a.gen = 1
	}
	a.stack = a.stack[:0]
}

// reaches runs an iterative DFS from src and reports whether dst is hit.
func (a *visitArena) reaches(adj [][]int, src, dst int) bool {
	if src == dst {
		return true
	}
	a.next()
	a.stamp[src] = a.gen
	a.stack = append(a.stack, src)

	for len(a.stack) > 0 {
		curr := a.stack[len(a.stack)-1]
		a.stack = a.stack[:len(a.stack)-1]
		for _, next := range adj[curr] {
			if next == dst {
				return true
			}
			if a.stamp[next] == a.gen {
				continue
			}
			a.stamp[next] = a.gen
			a.stack = append(a.stack, next)
		}
	}
	return false
}
