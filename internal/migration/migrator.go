package migration

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/time/rate"

	"github.com/Aleph-Alpha/vectorbridge/internal/result"
	"github.com/Aleph-Alpha/vectorbridge/internal/telemetry"
	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// Operation names accepted by Run.
const (
	OpBackup        = "backup"
	OpRecreate      = "recreate"
	OpRestore       = "restore"
	OpFullMigration = "full_migration"
)

// Description is set on every recreated collection.
const Description = "KB chunks vectors with dynamic fields enabled"

// Locker serialises migrations of one collection across processes.
// *postgres.Locker implements it.
type Locker interface {
	Acquire(ctx context.Context, key string) (func(context.Context) error, error)
}

// LockKey is the advisory lock key of a collection.
func LockKey(collection string) string {
	return "vectorbridge:migration:" + collection
}

// Settings tune the three phases.
type Settings struct {
	Dimension      int
	M              int
	EfConstruction int

	PageSize         int
	BatchSize        int
	BatchesPerSecond float64

	Timeout time.Duration
}

// Migrator moves a collection's rows through a snapshot into a freshly
// created collection with the current schema.
type Migrator struct {
	svc       vectordb.Service
	store     SnapshotStore
	locker    Locker
	settings  Settings
	telemetry *telemetry.Telemetry
}

// New builds a Migrator. locker may be nil, in which case the caller is
// responsible for not running two migrations of a collection at once.
func New(svc vectordb.Service, store SnapshotStore, locker Locker, settings Settings, tel *telemetry.Telemetry) *Migrator {
	if settings.PageSize <= 0 {
		settings.PageSize = 10000
	}
	if settings.BatchSize <= 0 {
		settings.BatchSize = 1000
	}
	return &Migrator{svc: svc, store: store, locker: locker, settings: settings, telemetry: tel}
}

// Validate checks the operation name and collection before anything
// connects.
func Validate(operation, collection string) error {
	if !slices.Contains([]string{OpBackup, OpRecreate, OpRestore, OpFullMigration}, operation) {
		return result.Invalid("Unknown operation: %s", operation)
	}
	if collection == "" {
		return result.Invalid("collection is required")
	}
	return nil
}

// Run executes one migration operation on a collection.
func (m *Migrator) Run(ctx context.Context, operation, collection string) result.Result {
	attrs := map[string]interface{}{"collection": collection}
	return m.telemetry.Run(ctx, operation, attrs, func(ctx context.Context) result.Result {
		if err := Validate(operation, collection); err != nil {
			return result.Failure(err)
		}

		if m.settings.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, m.settings.Timeout)
			defer cancel()
		}

		if operation == OpBackup {
			res, _ := m.backup(ctx, collection)
			return res
		}

		release, err := m.lock(ctx, collection)
		if err != nil {
			return result.Failure(err)
		}
		defer release()

		switch operation {
		case OpRecreate:
			return m.recreate(ctx, collection)
		case OpRestore:
			return m.restore(ctx, collection)
		default:
			return m.fullMigration(ctx, collection)
		}
	})
}

func (m *Migrator) lock(ctx context.Context, collection string) (func(), error) {
	if m.locker == nil {
		return func() {}, nil
	}

	key := LockKey(collection)
	unlock, err := m.locker.Acquire(ctx, key)
	if err != nil {
		return nil, vectordb.NewError("acquire_lock", vectordb.ErrUnavailable, err)
	}
	m.telemetry.Logger.Info("migration lock acquired", nil, map[string]interface{}{"key": key})

	return func() {
		// The operation context may already be cancelled.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := unlock(releaseCtx); err != nil {
			m.telemetry.Logger.Warn("failed to release migration lock", err, map[string]interface{}{"key": key})
		}
	}, nil
}

type messagePayload struct {
	Message string `json:"message"`
}

type backupPayload struct {
	BackupFile      string `json:"backup_file"`
	RecordsBackedUp int    `json:"records_backed_up"`
}

// backup reports whether a snapshot was written alongside the result.
func (m *Migrator) backup(ctx context.Context, collection string) (result.Result, bool) {
	exists, err := m.svc.HasCollection(ctx, collection)
	if err != nil {
		return result.Failure(err), false
	}
	if !exists {
		return result.Success(messagePayload{Message: "Collection does not exist, no backup needed"}), false
	}

	if err := m.svc.LoadCollection(ctx, collection); err != nil && !vectordb.IsAlreadySatisfied(err) {
		return result.Failure(err), false
	}
	desc, err := m.svc.DescribeCollection(ctx, collection)
	if err != nil {
		return result.Failure(err), false
	}

	rows, err := m.readAll(ctx, collection)
	if err != nil {
		return result.Failure(err), false
	}

	snap := &Snapshot{
		CollectionName: collection,
		TotalRecords:   len(rows),
		SchemaInfo:     desc.Schema,
		Data:           rows,
	}
	if err := m.store.Save(ctx, snap); err != nil {
		return result.Failure(err), false
	}

	location := m.store.Location(collection)
	m.telemetry.Logger.Info("backup written", nil, map[string]interface{}{
		"collection": collection,
		"location":   location,
		"records":    len(rows),
	})
	return result.Success(backupPayload{BackupFile: location, RecordsBackedUp: len(rows)}), true
}

// readAll pages through every row with an offset cursor and stops at the
// first short or empty page.
func (m *Migrator) readAll(ctx context.Context, collection string) ([]vectordb.Row, error) {
	page := int64(m.settings.PageSize)
	rows := make([]vectordb.Row, 0)

	for offset := int64(0); ; offset += page {
		batch, err := m.svc.Query(ctx, vectordb.QueryRequest{
			Collection:   collection,
			Filter:       vectordb.AllRowsFilter(),
			OutputFields: vectordb.AllFields,
			Limit:        page,
			Offset:       offset,
		})
		if err != nil {
			return nil, err
		}
		rows = append(rows, batch...)

		m.telemetry.Logger.Debug("backed up records so far", nil, map[string]interface{}{
			"collection": collection,
			"records":    len(rows),
		})
		if int64(len(batch)) < page {
			return rows, nil
		}
	}
}

type recreatePayload struct {
	Message string `json:"message"`
	Schema  string `json:"schema"`
}

func (m *Migrator) recreate(ctx context.Context, collection string) result.Result {
	exists, err := m.svc.HasCollection(ctx, collection)
	if err != nil {
		return result.Failure(err)
	}
	if exists {
		if err := m.svc.DropCollection(ctx, collection); err != nil {
			return result.Failure(err)
		}
		m.telemetry.Logger.Info("dropped existing collection", nil, map[string]interface{}{"collection": collection})
	}

	spec := vectordb.CollectionSpec{
		Name:          collection,
		Dimension:     m.settings.Dimension,
		Description:   Description,
		DynamicFields: true,
		Metric:        vectordb.MetricCosine,
	}
	if err := m.svc.CreateCollection(ctx, spec); err != nil {
		return result.Failure(err)
	}

	index := vectordb.IndexParams{
		Metric:         vectordb.MetricCosine,
		M:              m.settings.M,
		EfConstruction: m.settings.EfConstruction,
	}
	if err := m.svc.CreateIndex(ctx, collection, index); err != nil && !vectordb.IsAlreadySatisfied(err) {
		return result.Failure(fmt.Errorf("building index on %s: %w", collection, err))
	}

	desc, err := m.svc.DescribeCollection(ctx, collection)
	if err != nil {
		return result.Failure(err)
	}
	return result.Success(recreatePayload{
		Message: fmt.Sprintf("Created new collection %s with dynamic fields enabled", collection),
		Schema:  desc.Schema,
	})
}

type restorePayload struct {
	RestoredRecords int `json:"restored_records"`
	OriginalRecords int `json:"original_records"`
}

func (m *Migrator) restore(ctx context.Context, collection string) result.Result {
	snap, err := m.store.Load(ctx, collection)
	if err != nil {
		return result.Failure(err)
	}
	return m.restoreSnapshot(ctx, collection, snap)
}

func (m *Migrator) restoreSnapshot(ctx context.Context, collection string, snap *Snapshot) result.Result {
	if len(snap.Data) == 0 {
		return result.Success(messagePayload{Message: "No data to restore"})
	}

	var limiter *rate.Limiter
	if m.settings.BatchesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(m.settings.BatchesPerSecond), 1)
	}

	cols := vectordb.ColumnsFromRows(snap.Data)
	progress := restorePayload{OriginalRecords: len(snap.Data)}

	for start := 0; start < cols.Len(); start += m.settings.BatchSize {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return result.FailureWith(err, progress)
			}
		}

		end := min(start+m.settings.BatchSize, cols.Len())
		n, err := m.svc.Insert(ctx, collection, "", cols.Slice(start, end))
		if err != nil {
			return result.FailureWith(err, progress)
		}
		progress.RestoredRecords += n

		m.telemetry.Logger.Debug("restored records so far", nil, map[string]interface{}{
			"collection": collection,
			"records":    progress.RestoredRecords,
		})
	}

	if err := m.svc.Flush(ctx, collection); err != nil {
		return result.FailureWith(err, progress)
	}
	return result.Success(progress)
}

type migrationPayload struct {
	Backup   *result.Result `json:"backup"`
	Recreate *result.Result `json:"recreate,omitempty"`
	Restore  *result.Result `json:"restore,omitempty"`
}

// ErrNoBackup is returned by the restore phase of a full migration whose
// backup found no collection.
var ErrNoBackup = errors.New("no backup was taken")

func (m *Migrator) fullMigration(ctx context.Context, collection string) result.Result {
	m.telemetry.Logger.Info("step 1: backing up existing data", nil, map[string]interface{}{"collection": collection})
	backup, saved := m.backup(ctx, collection)
	if !backup.OK() {
		return result.FailureWith(backup.Err(), migrationPayload{Backup: &backup})
	}

	// A backup that found no collection ran before recreate could lose anything.
	var snap *Snapshot
	if saved {
		var err error
		snap, err = m.store.Load(ctx, collection)
		if err != nil {
			return result.FailureWith(err, migrationPayload{Backup: &backup})
		}
	} else {
		// A snapshot left by an earlier run describes data that no longer
		// exists; restoring it into the new collection later would revive it.
		if err := m.store.Delete(ctx, collection); err != nil {
			m.telemetry.Logger.Warn("failed to remove stale snapshot", err, map[string]interface{}{
				"location": m.store.Location(collection),
			})
		}
	}

	m.telemetry.Logger.Info("step 2: recreating collection", nil, map[string]interface{}{"collection": collection})
	recreate := m.recreate(ctx, collection)
	if !recreate.OK() {
		return result.FailureWith(recreate.Err(), migrationPayload{Backup: &backup, Recreate: &recreate})
	}

	m.telemetry.Logger.Info("step 3: restoring data", nil, map[string]interface{}{"collection": collection})
	var restore result.Result
	if snap == nil {
		restore = result.Failure(vectordb.NewError("restore", vectordb.ErrNotFound, ErrNoBackup))
	} else {
		restore = m.restoreSnapshot(ctx, collection, snap)
	}

	payload := migrationPayload{Backup: &backup, Recreate: &recreate, Restore: &restore}
	if !restore.OK() {
		return result.FailureWith(restore.Err(), payload)
	}
	return result.Success(payload)
}
