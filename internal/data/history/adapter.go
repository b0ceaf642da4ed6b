package history

import (
	"layercheck/internal/core/errors"
	"layercheck/internal/shared/observability"
	"time"
)

// Adapter serves the core HistoryStore port from a Store. It counts writes
// and reports failures as domain errors carrying the database path.
type Adapter struct {
	store *Store
}

func NewAdapter(store *Store) *Adapter {
	return &Adapter{store: store}
}

func (a *Adapter) SaveSnapshot(projectKey string, snapshot Snapshot) error {
	err := a.store.SaveSnapshot(projectKey, snapshot)
	if err != nil {
		observability.HistoryWritesTotal.WithLabelValues("error").Inc()
		return a.wrap(err, "save history snapshot")
	}
	observability.HistoryWritesTotal.WithLabelValues("ok").Inc()
	return nil
}

func (a *Adapter) LoadSnapshots(projectKey string, since time.Time) ([]Snapshot, error) {
	snapshots, err := a.store.LoadSnapshots(projectKey, since)
	if err != nil {
		return nil, a.wrap(err, "load history snapshots")
	}
	return snapshots, nil
}

func (a *Adapter) wrap(err error, msg string) error {
	return errors.AddContext(errors.Wrap(err, errors.CodeInternal, msg), errors.CtxPath, a.store.Path())
}
