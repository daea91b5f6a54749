// Package vectordb defines the database-agnostic capability boundary between
// vectorbridge and a vector database.
//
// # Overview
//
// The bridge, the provisioner and the migration procedure depend only on the
// [Service] interface and the types in this package. Concrete engines live in
// their own packages:
//
//	┌──────────────────────────────────────────────┐
//	│  internal/bridge · provision · migration     │
//	└──────────────────────┬───────────────────────┘
//	                       ▼
//	┌──────────────────────────────────────────────┐
//	│               vectordb.Service               │
//	└──────────────────────┬───────────────────────┘
//	        ┌──────────────┼──────────────┐
//	        ▼              ▼              ▼
//	  milvus.Adapter  qdrant.Adapter  vectordbtest.Memory
//
// # Schema
//
// Every collection has the fixed chunk schema: an int64 primary key "id",
// int64 "tenant_id", "document_id" and "chunk_index", and a float vector
// "vector" whose dimension is set at creation. Primary keys are derived with
// [PrimaryKey].
//
// # Filters
//
// Filters are built from typed conditions and converted by each adapter:
//
//	filter := vectordb.NewFilterSet(
//	    vectordb.Must(vectordb.NewMatch(vectordb.FieldTenantID, 42)),
//	)
//
// [FilterSet.String] renders the boolean expression form used by
// expression-based engines, e.g. "tenant_id == 42".
//
// # Errors
//
// Adapters return *[Error] values. Use [KindOf] or errors.Is with the
// sentinels to classify them:
//
//	if err := svc.CreateIndex(ctx, "kb_chunks_v1", params); err != nil && !vectordb.IsAlreadySatisfied(err) {
//	    return err
//	}
package vectordb
