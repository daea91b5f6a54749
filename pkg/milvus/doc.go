// Package milvus implements vectordb.Service on top of the Milvus Go SDK
// (github.com/milvus-io/milvus-sdk-go/v2). It is the default driver of
// vectorbridge.
//
// The adapter keeps SDK types out of its public surface: requests and results
// use the vectordb types, filters are rendered to Milvus boolean expressions
// with vectordb.FilterSet.String, and SDK errors are classified by
// TranslateError.
//
// Idempotency of provisioning is decided by inspecting state instead of
// catching errors:
//
//   - CreateIndex describes the vector field's indexes first and returns
//     vectordb.ErrAlreadySatisfied when one exists.
//   - LoadCollection checks the load state first and returns
//     vectordb.ErrAlreadySatisfied when the collection is loaded.
//
// Basic usage:
//
//	adapter, err := milvus.NewAdapter(ctx, milvus.DefaultConfig().WithHost("milvus"), log)
//	if err != nil {
//	    return err
//	}
//	defer adapter.Close()
//
//	hits, err := adapter.Search(ctx, vectordb.SearchRequest{
//	    Collection: "kb_chunks_v1",
//	    Vector:     embedding,
//	    Filter:     vectordb.TenantFilter(42),
//	    Limit:      10,
//	    Ef:         96,
//	})
//
// With fx, include FXModule and supply a milvus.Config and a milvus.Logger;
// the module provides both *milvus.Adapter and vectordb.Service.
package milvus
