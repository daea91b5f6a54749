// Package config loads the configuration of the vectorbridge commands.
//
// A Config is built once per process from three layers, lowest first:
// DefaultConfig, an optional YAML file named by VECTORBRIDGE_CONFIG, and
// environment variables. Each section carries the envconfig tags of the
// package it configures, e.g. ZAP_LOGGER_LEVEL for logger.Config.
//
// The configuration of the database driver is not part of Config: the
// driver linked into the binary reads its own section (MILVUS_HOST for
// milvus.Config, QDRANT_ENDPOINT for qdrant.Config) with Section.
//
// Example YAML file:
//
//	driver: milvus
//	collection:
//	  name: kb_chunks_v1
//	  dimension: 3072
//	  metric: COSINE
//	milvus:
//	  host: milvus.internal
//	  port: 19530
//	snapshot:
//	  backend: minio
//	minio:
//	  connection:
//	    endpoint: minio:9000
//	    bucket_name: vectorbridge-snapshots
package config
