// Package qdrant implements vectordb.Service on top of the official Qdrant Go
// client (github.com/qdrant/go-client). It is the alternate driver of
// vectorbridge, selected with VECTOR_DRIVER=qdrant.
//
// Mapping of the chunk schema:
//
//   - id becomes the numeric point id;
//   - tenant_id, document_id and chunk_index are integer payload fields,
//     with a payload index on tenant_id;
//   - vector is the single unnamed dense vector.
//
// Capabilities Qdrant lacks are reported explicitly:
//
//   - partitions: every partition call returns vectordb.ErrUnsupported;
//   - load: LoadCollection always returns vectordb.ErrAlreadySatisfied;
//   - flush: a no-op, writes wait for completion.
//
// Offset pagination of Query is emulated with an id cursor kept per
// collection and filter, so the sequential page walk of a backup costs one
// scroll per page.
//
// Basic usage:
//
//	adapter, err := qdrant.NewAdapter(qdrant.FromEndpoint("localhost"), log)
//	if err != nil {
//	    return err
//	}
//	defer adapter.Close()
//
//	err = adapter.CreateCollection(ctx, vectordb.CollectionSpec{
//	    Name:      "kb_chunks_v1",
//	    Dimension: 3072,
//	    Metric:    vectordb.MetricCosine,
//	})
package qdrant
