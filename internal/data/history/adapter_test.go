package history

import (
	"layercheck/internal/core/errors"
	"path/filepath"
	"testing"
	"time"
)

func TestAdapter_RoundTripsThroughPort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() { _ = store.Close() }()

	adapter := NewAdapter(store)
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	if err := adapter.SaveSnapshot("shop", Snapshot{Timestamp: at, ModuleCount: 3, UpwardCount: 1, ViolationCount: 1}); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	rows, err := adapter.LoadSnapshots("shop", at)
	if err != nil {
		t.Fatalf("load snapshots: %v", err)
	}
	if len(rows) != 1 || rows[0].ProjectKey != "shop" || rows[0].UpwardCount != 1 {
		t.Fatalf("unexpected snapshots: %+v", rows)
	}
	if rows[0].Clean() {
		t.Fatal("snapshot with a violation must not be clean")
	}
}

func TestAdapter_WrapsStoreErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	adapter := NewAdapter(store)

	err = adapter.SaveSnapshot("shop", Snapshot{SchemaVersion: SchemaVersion + 1})
	if !errors.IsCode(err, errors.CodeInternal) {
		t.Fatalf("expected INTERNAL_ERROR, got %v", err)
	}
	if v, ok := errors.ContextValue(err, errors.CtxPath); !ok || v != path {
		t.Fatalf("expected path context, got %+v", err)
	}

	_ = store.Close()
	if _, err := adapter.LoadSnapshots("shop", time.Time{}); !errors.IsCode(err, errors.CodeInternal) {
		t.Fatalf("expected INTERNAL_ERROR after close, got %v", err)
	}
}
