package history

import (
	"layercheck/internal/core/errors"
	"math"
	"time"
)

// BuildTrendReport computes deltas between consecutive snapshots and moving
// averages of violations and cycles over window. Snapshots must be in
// chronological order.
func BuildTrendReport(projectKey string, snapshots []Snapshot, window time.Duration) (TrendReport, error) {
	if len(snapshots) == 0 {
		return TrendReport{}, errors.New(errors.CodeNotFound, "no snapshots available")
	}

	points := make([]TrendPoint, 0, len(snapshots))
	for i, current := range snapshots {
		point := TrendPoint{
			Timestamp:      current.Timestamp,
			RunID:          current.RunID,
			CommitHash:     current.CommitHash,
			ModuleCount:    current.ModuleCount,
			EdgeCount:      current.EdgeCount,
			ViolationCount: current.ViolationCount,
			CycleCount:     current.CycleCount,
			AvgFanOut:      current.AvgFanOut,
			MaxDepth:       current.MaxDepth,
		}

		if i > 0 {
			prev := snapshots[i-1]
			point.DeltaModules = current.ModuleCount - prev.ModuleCount
			point.DeltaEdges = current.EdgeCount - prev.EdgeCount
			point.DeltaViolations = current.ViolationCount - prev.ViolationCount
			point.DeltaCycles = current.CycleCount - prev.CycleCount
			point.DeltaAvgFanOut = round2(current.AvgFanOut - prev.AvgFanOut)
			if prev.ModuleCount > 0 {
				point.ModuleGrowthPct = round2((float64(point.DeltaModules) / float64(prev.ModuleCount)) * 100)
			}
		}

		avgViolations, avgCycles := movingAverages(snapshots, i, window)
		point.AvgViolations = round2(avgViolations)
		point.AvgCycles = round2(avgCycles)
		point.WindowHours = round2(window.Hours())
		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		ProjectKey:    projectKey,
		Since:         snapshots[0].Timestamp,
		Until:         snapshots[len(snapshots)-1].Timestamp,
		Window:        window.String(),
		ScanCount:     len(points),
		Points:        points,
	}, nil
}

func movingAverages(snapshots []Snapshot, index int, window time.Duration) (float64, float64) {
	if window <= 0 {
		return float64(snapshots[index].ViolationCount), float64(snapshots[index].CycleCount)
	}

	cutoff := snapshots[index].Timestamp.Add(-window)
	var violationsTotal int
	var cyclesTotal int
	count := 0
	for i := index; i >= 0; i-- {
		if snapshots[i].Timestamp.Before(cutoff) {
			break
		}
		violationsTotal += snapshots[i].ViolationCount
		cyclesTotal += snapshots[i].CycleCount
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return float64(violationsTotal) / float64(count), float64(cyclesTotal) / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
