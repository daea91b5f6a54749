// Package migration rebuilds a collection with the current schema without
// losing its rows.
//
// A migration has three phases, each also available on its own:
//
//   - backup pages every row out of the collection into a Snapshot and
//     saves it in a SnapshotStore (a local file or a MinIO object);
//   - recreate drops the collection and creates it again with dynamic
//     fields enabled and a fresh HNSW index;
//   - restore inserts the snapshot rows back in fixed-size batches,
//     optionally rate limited, and flushes once.
//
// full_migration runs all three and stops before restore when backup or
// recreate fails. Recreate and restore are destructive: when a lock DSN is
// configured they hold a Postgres advisory lock keyed by collection.
//
// Snapshots are plain JSON:
//
//	{
//	  "collection_name": "kb_chunks_v1",
//	  "total_records": 2,
//	  "schema_info": "...",
//	  "data": [{"id": 100000, "tenant_id": 7, "document_id": 1, "chunk_index": 0, "vector": [0.1, ...]}]
//	}
package migration
