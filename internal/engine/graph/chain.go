package graph

// FindChain returns a shortest dependency chain from -> ... -> to using BFS
// over sorted successors, so ties resolve to the lexicographically smallest
// path.
func (g *ImportGraph) FindChain(from, to string) ([]string, bool) {
	fromID, ok := g.index[from]
	if !ok {
		return nil, false
	}
	toID, ok := g.index[to]
	if !ok {
		return nil, false
	}
	if fromID == toID {
		return []string{from}, true
	}

	prev := make([]int, len(g.names))
	for i := range prev {
		prev[i] = -1
	}
	visited := make([]bool, len(g.names))
	visited[fromID] = true
	queue := []int{fromID}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, next := range g.succ[curr] {
			if visited[next] {
				continue
			}
			visited[next] = true
			prev[next] = curr

			if next == toID {
				path := []string{to}
				for node := toID; node != fromID; {
					node = prev[node]
					path = append(path, g.names[node])
				}
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				return path, true
			}

			queue = append(queue, next)
		}
	}

	return nil, false
}

// Reaches reports whether to is reachable from from.
func (g *ImportGraph) Reaches(from, to string) bool {
	_, ok := g.FindChain(from, to)
	return ok
}
