package migration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// Snapshot is the backup document. Its JSON layout is shared with the
// backups earlier tooling wrote, so either can be restored.
type Snapshot struct {
	CollectionName string         `json:"collection_name"`
	TotalRecords   int            `json:"total_records"`
	SchemaInfo     string         `json:"schema_info"`
	Data           []vectordb.Row `json:"data"`
}

// SnapshotName is the file or object name of a collection's snapshot.
func SnapshotName(collection string) string {
	return fmt.Sprintf("milvus_backup_%s.json", collection)
}

// SnapshotStore keeps one snapshot per collection. Save overwrites.
type SnapshotStore interface {
	// Location is the human-readable address of the collection's snapshot.
	Location(collection string) string

	Save(ctx context.Context, snap *Snapshot) error

	// Load returns vectordb.ErrNotFound when no snapshot exists.
	Load(ctx context.Context, collection string) (*Snapshot, error)

	// Delete removes the collection's snapshot. A missing snapshot is not
	// an error.
	Delete(ctx context.Context, collection string) error
}

func encodeSnapshot(w io.Writer, snap *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func decodeSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snap, nil
}

func snapshotNotFound(location string) error {
	return vectordb.NewError("load_snapshot", vectordb.ErrNotFound, fmt.Errorf("Backup file %s not found", location))
}

// FileStore keeps snapshots as files in a directory.
type FileStore struct {
	Dir string
}

// NewFileStore returns a FileStore rooted at dir ("." when empty).
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = "."
	}
	return &FileStore{Dir: dir}
}

func (s *FileStore) Location(collection string) string {
	return filepath.Join(s.Dir, SnapshotName(collection))
}

// Save writes to a temporary file in the same directory and renames it, so
// an interrupted backup never leaves a truncated snapshot behind.
func (s *FileStore) Save(_ context.Context, snap *Snapshot) (err error) {
	target := s.Location(snap.CollectionName)

	tmp, err := os.CreateTemp(s.Dir, SnapshotName(snap.CollectionName)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = encodeSnapshot(tmp, snap); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot file: %w", err)
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("moving snapshot into place: %w", err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context, collection string) (*Snapshot, error) {
	location := s.Location(collection)
	data, err := os.ReadFile(location)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, snapshotNotFound(location)
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return decodeSnapshot(data)
}

func (s *FileStore) Delete(_ context.Context, collection string) error {
	err := os.Remove(s.Location(collection))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing snapshot: %w", err)
	}
	return nil
}

// ObjectClient is the object storage surface ObjectStore needs; *minio.Minio
// implements it.
type ObjectClient interface {
	Put(ctx context.Context, objectKey string, reader io.Reader, size ...int64) (int64, error)
	Get(ctx context.Context, objectKey string) ([]byte, error)
	Delete(ctx context.Context, objectKey string) error
	Bucket() string
}

// ObjectStore keeps snapshots as objects under a key prefix.
type ObjectStore struct {
	client ObjectClient
	prefix string
}

// NewObjectStore returns an ObjectStore writing keys prefix+SnapshotName.
func NewObjectStore(client ObjectClient, prefix string) *ObjectStore {
	return &ObjectStore{client: client, prefix: prefix}
}

func (s *ObjectStore) key(collection string) string {
	return s.prefix + SnapshotName(collection)
}

func (s *ObjectStore) Location(collection string) string {
	return fmt.Sprintf("s3://%s/%s", s.client.Bucket(), s.key(collection))
}

func (s *ObjectStore) Save(ctx context.Context, snap *Snapshot) error {
	var buf bytes.Buffer
	if err := encodeSnapshot(&buf, snap); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if _, err := s.client.Put(ctx, s.key(snap.CollectionName), &buf, int64(buf.Len())); err != nil {
		return err
	}
	return nil
}

func (s *ObjectStore) Load(ctx context.Context, collection string) (*Snapshot, error) {
	data, err := s.client.Get(ctx, s.key(collection))
	if vectordb.IsNotFound(err) {
		return nil, snapshotNotFound(s.Location(collection))
	}
	if err != nil {
		return nil, err
	}
	return decodeSnapshot(data)
}

func (s *ObjectStore) Delete(ctx context.Context, collection string) error {
	if err := s.client.Delete(ctx, s.key(collection)); err != nil && !vectordb.IsNotFound(err) {
		return err
	}
	return nil
}
