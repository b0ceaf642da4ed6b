package graph

import "sort"

// StronglyConnectedComponents runs Tarjan's algorithm over d. It returns the
// component id of every node and the components themselves, each sorted by
// node id. Components are numbered in reverse topological order.
//
// The traversal keeps an explicit frame stack instead of recursing so very
// long dependency chains cannot exhaust the goroutine stack.
func StronglyConnectedComponents(d Dense) ([]int, [][]int) {
	n := len(d.Names)
	const unvisited = -1

	index := 0
	indexOf := make([]int, n)
	lowLink := make([]int, n)
	onStack := make([]bool, n)
	componentOf := make([]int, n)
	for i := range indexOf {
		indexOf[i] = unvisited
	}

	stack := make([]int, 0, n)
	components := make([][]int, 0)

	type frame struct {
		node int
		next int
	}

	for root := 0; root < n; root++ {
		if indexOf[root] != unvisited {
			continue
		}

		frames := []frame{{node: root}}
		indexOf[root] = index
		lowLink[root] = index
		index++
		stack = append(stack, root)
		onStack[root] = true

		for len(frames) > 0 {
			top := &frames[len(frames)-1]
			v := top.node

			if top.next < len(d.Adj[v]) {
				w := d.Adj[v][top.next]
				top.next++
				if indexOf[w] == unvisited {
					indexOf[w] = index
					lowLink[w] = index
					index++
					stack = append(stack, w)
					onStack[w] = true
					frames = append(frames, frame{node: w})
				} else if onStack[w] && indexOf[w] < lowLink[v] {
					lowLink[v] = indexOf[w]
				}
				continue
			}

			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				parent := frames[len(frames)-1].node
				if lowLink[v] < lowLink[parent] {
					lowLink[parent] = lowLink[v]
				}
			}

			if lowLink[v] != indexOf[v] {
				continue
			}

			component := make([]int, 0)
			for {
				last := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[last] = false
				component = append(component, last)
				if last == v {
					break
				}
			}
			sort.Ints(component)
			compID := len(components)
			components = append(components, component)
			for _, member := range component {
				componentOf[member] = compID
			}
		}
	}

	return componentOf, components
}
