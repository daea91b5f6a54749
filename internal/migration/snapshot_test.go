package migration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewFileStore(dir)

	_, err := store.Load(ctx, testCollection)
	require.Error(t, err)
	assert.True(t, vectordb.IsNotFound(err))

	first := &Snapshot{CollectionName: testCollection, TotalRecords: 3, Data: chunkRows(3)}
	require.NoError(t, store.Save(ctx, first))

	second := &Snapshot{CollectionName: testCollection, TotalRecords: 1, SchemaInfo: "v2", Data: chunkRows(1)}
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Load(ctx, testCollection)
	require.NoError(t, err)
	assert.Equal(t, second, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
	assert.Equal(t, SnapshotName(testCollection), entries[0].Name())

	require.NoError(t, store.Delete(ctx, testCollection))
	_, err = store.Load(ctx, testCollection)
	assert.True(t, vectordb.IsNotFound(err))
	assert.NoError(t, store.Delete(ctx, testCollection), "a missing snapshot is not an error")
}

func TestFileStoreDefaultsToWorkingDirectory(t *testing.T) {
	assert.Equal(t, "milvus_backup_kb.json", NewFileStore("").Location("kb"))
}

type memoryObjects struct {
	objects   map[string][]byte
	putErr    error
	deleteErr error
}

func (m *memoryObjects) Put(_ context.Context, key string, r io.Reader, _ ...int64) (int64, error) {
	if m.putErr != nil {
		return 0, m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.objects[key] = data
	return int64(len(data)), nil
}

func (m *memoryObjects) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, vectordb.NewError("get_object", vectordb.ErrNotFound, fmt.Errorf("no such key %s", key))
	}
	return data, nil
}

func (m *memoryObjects) Delete(_ context.Context, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.objects, key)
	return nil
}

func (m *memoryObjects) Bucket() string { return "snapshots" }

func TestObjectStore(t *testing.T) {
	ctx := context.Background()
	client := &memoryObjects{objects: map[string][]byte{}}
	store := NewObjectStore(client, "migrations/")

	assert.Equal(t, "s3://snapshots/migrations/milvus_backup_kb_chunks_v1.json", store.Location(testCollection))

	_, err := store.Load(ctx, testCollection)
	require.Error(t, err)
	assert.True(t, vectordb.IsNotFound(err))
	assert.Contains(t, err.Error(), "Backup file s3://snapshots/migrations/milvus_backup_kb_chunks_v1.json not found")

	snap := &Snapshot{CollectionName: testCollection, TotalRecords: 2, Data: chunkRows(2)}
	require.NoError(t, store.Save(ctx, snap))
	require.Contains(t, client.objects, "migrations/milvus_backup_kb_chunks_v1.json")
	assert.True(t, bytes.HasPrefix(client.objects["migrations/milvus_backup_kb_chunks_v1.json"], []byte("{\n  \"collection_name\"")))

	got, err := store.Load(ctx, testCollection)
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	require.NoError(t, store.Delete(ctx, testCollection))
	assert.NotContains(t, client.objects, "migrations/milvus_backup_kb_chunks_v1.json")

	client.deleteErr = vectordb.NewError("delete_object", vectordb.ErrNotFound, fmt.Errorf("no such key"))
	assert.NoError(t, store.Delete(ctx, testCollection), "a missing snapshot is not an error")

	client.deleteErr = vectordb.NewError("delete_object", vectordb.ErrUnavailable, fmt.Errorf("down"))
	assert.ErrorIs(t, store.Delete(ctx, testCollection), vectordb.ErrUnavailable)
}

func TestObjectStoreBackupThroughMigrator(t *testing.T) {
	client := &memoryObjects{objects: map[string][]byte{}}
	m := newTestMigrator(seeded(4), NewObjectStore(client, ""), nil, testSettings())

	res := m.Run(context.Background(), OpBackup, testCollection)
	require.True(t, res.OK(), res.Err())
	assert.Equal(t, "s3://snapshots/milvus_backup_kb_chunks_v1.json", decode(t, res)["backup_file"])

	client.putErr = errors.New("access denied")
	res = m.Run(context.Background(), OpBackup, testCollection)
	require.False(t, res.OK())
	assert.Equal(t, "access denied", res.Err().Error())
}
