// Package minio stores migration snapshots in MinIO or any S3-compatible
// object store.
//
// The client covers Put, Get and Delete against one
// configured bucket, which NewClient creates on demand when
// ConnectionConfig.AccessBucketCreation is set. Errors are classified with
// TranslateError into the vectordb error kinds, so a missing snapshot object
// surfaces as vectordb.ErrNotFound exactly like a missing snapshot file.
//
// Basic Usage:
//
//	cfg := minio.DefaultConfig()
//	cfg.Connection.Endpoint = "minio:9000"
//	cfg.Connection.AccessKeyID = "admin"
//	cfg.Connection.SecretAccessKey = "secret"
//
//	client, err := minio.NewClient(ctx, cfg, log)
//	if err != nil {
//		return err
//	}
//
//	if _, err := client.Put(ctx, "milvus_backup_kb_chunks_v1.json", bytes.NewReader(data), int64(len(data))); err != nil {
//		return err
//	}
//	data, err = client.Get(ctx, "milvus_backup_kb_chunks_v1.json")
//
// Large objects are read through a pool of reusable buffers; objects below
// DownloadConfig.SmallFileThreshold are read into an exactly sized slice.
package minio
