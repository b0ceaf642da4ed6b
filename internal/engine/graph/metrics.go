package graph

type ModuleMetrics struct {
	Depth  int
	FanIn  int
	FanOut int
}

// Metrics computes fan-in, fan-out and dependency depth per module. Depth is
// the longest path to a leaf in the condensation, so members of one cycle
// share a depth.
func (g *ImportGraph) Metrics() map[string]ModuleMetrics {
	componentOf, components := StronglyConnectedComponents(g.Dense())

	componentEdges := make([]map[int]bool, len(components))
	for from, list := range g.succ {
		fromComp := componentOf[from]
		for _, to := range list {
			toComp := componentOf[to]
			if fromComp == toComp {
				continue
			}
			if componentEdges[fromComp] == nil {
				componentEdges[fromComp] = make(map[int]bool)
			}
			componentEdges[fromComp][toComp] = true
		}
	}

	// Tarjan emits components in reverse topological order, so every
	// successor component already has its depth when we reach it.
	depthByComp := make([]int, len(components))
	for comp := range components {
		maxDepth := 0
		for next := range componentEdges[comp] {
			if candidate := 1 + depthByComp[next]; candidate > maxDepth {
				maxDepth = candidate
			}
		}
		depthByComp[comp] = maxDepth
	}

	metrics := make(map[string]ModuleMetrics, len(g.names))
	for id, name := range g.names {
		metrics[name] = ModuleMetrics{
			Depth:  depthByComp[componentOf[id]],
			FanIn:  len(g.pred[id]),
			FanOut: len(g.succ[id]),
		}
	}
	return metrics
}
