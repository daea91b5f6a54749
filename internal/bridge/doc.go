// Package bridge implements the data-plane command: it decodes the single
// JSON argument the web backend passes, validates it before any database
// call, runs the operation against a vectordb.Service and returns a
// result.Result for the caller to print.
//
// Operations: search, upsert, delete_by_ids, delete_by_tenant,
// count_by_tenant, health, create_partition and has_partition.
//
// Usage:
//
//	req, err := bridge.ParseArgument(os.Args[1], cfg.Collection.Name)
//	if err != nil {
//	    return result.Failure(err)
//	}
//	res := dispatcher.Dispatch(ctx, req)
//	result.Emit(os.Stdout, res)
package bridge
