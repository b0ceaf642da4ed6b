package history

import (
	"database/sql"
	"errors"
	"layercheck/internal/engine/findings"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStore_OpenInitializesSchemaAndSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	first := Snapshot{
		RunID:          "run-1",
		Timestamp:      base,
		ModuleCount:    5,
		EdgeCount:      8,
		CycleCount:     1,
		ViolationCount: 3,
	}
	rerun := Snapshot{
		RunID:          "run-1",
		Timestamp:      base,
		ModuleCount:    8,
		EdgeCount:      11,
		CycleCount:     2,
		ViolationCount: 5,
	}
	second := Snapshot{
		RunID:          "run-2",
		Timestamp:      base.Add(2 * time.Hour),
		ModuleCount:    6,
		EdgeCount:      9,
		UpwardCount:    1,
		BreachCount:    1,
		ViolationCount: 2,
		AvgFanOut:      2.0,
		MaxFanIn:       4,
		MaxFanOut:      5,
		MaxDepth:       3,
	}

	if err := store.SaveSnapshot("project-a", first); err != nil {
		t.Fatalf("save first snapshot: %v", err)
	}
	if err := store.SaveSnapshot("project-a", rerun); err != nil {
		t.Fatalf("save rerun snapshot: %v", err)
	}
	if err := store.SaveSnapshot("project-a", second); err != nil {
		t.Fatalf("save second snapshot: %v", err)
	}

	got, err := store.LoadSnapshots("project-a", base.Add(1*time.Hour))
	if err != nil {
		t.Fatalf("load snapshots: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 snapshot after since filter, got %d", len(got))
	}
	if got[0].ModuleCount != 6 || got[0].ProjectKey != "project-a" || got[0].RunID != "run-2" {
		t.Fatalf("unexpected snapshot %+v", got[0])
	}
	if got[0].AvgFanOut != 2.0 || got[0].MaxFanOut != 5 || got[0].MaxDepth != 3 || got[0].BreachCount != 1 {
		t.Fatalf("expected metrics to roundtrip, got %+v", got[0])
	}

	// Same run id should have replaced the first row.
	all, err := store.LoadSnapshots("project-a", time.Time{})
	if err != nil {
		t.Fatalf("load all snapshots: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected deduplicated 2 snapshots, got %d", len(all))
	}
	if all[0].ModuleCount != 8 {
		t.Fatalf("expected upserted module_count=8, got %d", all[0].ModuleCount)
	}
}

func TestStore_GeneratesRunID(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	for i := 0; i < 2; i++ {
		if err := store.SaveSnapshot("", Snapshot{ModuleCount: i}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	rows, err := store.LoadSnapshots("default", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected two generated runs, got %+v", rows)
	}
	if rows[0].RunID == "" || rows[0].RunID == rows[1].RunID {
		t.Fatalf("expected distinct run ids, got %q and %q", rows[0].RunID, rows[1].RunID)
	}
	if rows[0].Timestamp.IsZero() {
		t.Fatal("expected timestamp to be filled")
	}
}

func TestStore_RejectsSchemaVersion(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if err := store.SaveSnapshot("p", Snapshot{SchemaVersion: SchemaVersion + 1}); err == nil {
		t.Fatal("expected schema version error")
	}
}

func TestStore_OpenRejectsDirectoryPath(t *testing.T) {
	tmpDir := t.TempDir()
	_, err := Open(tmpDir)
	if err == nil {
		t.Fatal("expected open error for directory path")
	}
	if !strings.Contains(err.Error(), "is a directory") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStore_OpenCorruptDBPath(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "history.db")
	if err := os.WriteFile(path, []byte("this is not sqlite"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path)
	if err == nil {
		t.Fatal("expected sqlite open error")
	}
	lower := strings.ToLower(err.Error())
	if !strings.Contains(lower, "not a database") && !strings.Contains(lower, "schema") {
		t.Fatalf("expected schema/open error, got: %v", err)
	}
}

func TestEnsureSchema_DetectsNewerVersionDrift(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	_, err = store.db.Exec(`INSERT OR REPLACE INTO schema_migrations(version) VALUES (?)`, SchemaVersion+1)
	if err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open(driverName, "file:"+path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	err = EnsureSchema(db)
	if err == nil {
		t.Fatal("expected drift error")
	}
	if !strings.Contains(err.Error(), "newer than supported") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildTrendReport(t *testing.T) {
	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	snapshots := []Snapshot{
		{Timestamp: base, ModuleCount: 4, EdgeCount: 5, CycleCount: 2, ViolationCount: 4, AvgFanOut: 1.25},
		{Timestamp: base.Add(2 * time.Hour), ModuleCount: 6, EdgeCount: 8, CycleCount: 1, ViolationCount: 2, AvgFanOut: 2.5},
		{Timestamp: base.Add(25 * time.Hour), ModuleCount: 7, EdgeCount: 9, CycleCount: 3, ViolationCount: 1, AvgFanOut: 2},
	}

	report, err := BuildTrendReport("project-a", snapshots, 24*time.Hour)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.ScanCount != 3 || report.ProjectKey != "project-a" {
		t.Fatalf("unexpected report header %+v", report)
	}
	if report.Points[1].DeltaModules != 2 || report.Points[1].DeltaEdges != 3 {
		t.Fatalf("unexpected deltas %+v", report.Points[1])
	}
	if report.Points[2].DeltaCycles != 2 || report.Points[2].DeltaViolations != -1 {
		t.Fatalf("unexpected deltas %+v", report.Points[2])
	}
	if report.Points[1].DeltaAvgFanOut != 1.25 {
		t.Fatalf("expected delta_avg_fan_out=1.25, got %v", report.Points[1].DeltaAvgFanOut)
	}
	if report.Points[1].ModuleGrowthPct != 50 {
		t.Fatalf("expected module growth pct=50, got %v", report.Points[1].ModuleGrowthPct)
	}
	// The third point's window reaches back to base+1h, so only points 1 and 2 count.
	if report.Points[2].AvgViolations != 1.5 || report.Points[2].AvgCycles != 2 {
		t.Fatalf("unexpected moving averages %+v", report.Points[2])
	}
	if !report.Since.Equal(base) || !report.Until.Equal(base.Add(25*time.Hour)) {
		t.Fatalf("unexpected range %v..%v", report.Since, report.Until)
	}
}

func TestBuildTrendReport_Empty(t *testing.T) {
	if _, err := BuildTrendReport("p", nil, time.Hour); err == nil {
		t.Fatal("expected error for empty snapshots")
	}
}

func TestNewSnapshot(t *testing.T) {
	report := findings.Report{
		ViolationCount: 3,
		CycleCount:     1,
		Summary: findings.Summary{
			Modules:      4,
			Edges:        6,
			Upward:       2,
			Breaches:     1,
			Unclassified: []string{"x"},
			AvgFanOut:    1.5,
			MaxFanIn:     2,
			MaxFanOut:    3,
			MaxDepth:     2,
		},
	}
	s := NewSnapshot(report)
	if s.ModuleCount != 4 || s.EdgeCount != 6 || s.UpwardCount != 2 || s.BreachCount != 1 || s.UnclassifiedCount != 1 {
		t.Fatalf("unexpected snapshot %+v", s)
	}
	if s.Clean() {
		t.Fatal("expected dirty snapshot")
	}
	if !(Snapshot{}).Clean() {
		t.Fatal("expected zero snapshot to be clean")
	}
}

func TestIsCorruptError(t *testing.T) {
	if !IsCorruptError(errors.New("database disk image is malformed")) {
		t.Fatal("expected malformed sqlite message to be treated as corrupt")
	}
}

func TestStore_SaveLoadSnapshots_ProjectIsolation(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	if err := store.SaveSnapshot("project-a", Snapshot{Timestamp: base, ModuleCount: 1}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveSnapshot("project-b", Snapshot{Timestamp: base, ModuleCount: 2}); err != nil {
		t.Fatal(err)
	}

	aRows, err := store.LoadSnapshots("project-a", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(aRows) != 1 || aRows[0].ModuleCount != 1 {
		t.Fatalf("unexpected project-a rows: %+v", aRows)
	}

	bRows, err := store.LoadSnapshots("project-b", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(bRows) != 1 || bRows[0].ModuleCount != 2 {
		t.Fatalf("unexpected project-b rows: %+v", bRows)
	}
}
