package vectordb

import "context"

// Service is the capability set the bridge needs from a vector database:
// collection and partition administration, column inserts, filtered deletes,
// paged scalar queries and filtered ANN search.
//
// Implementations:
//   - milvus.Adapter (default driver)
//   - qdrant.Adapter (no partition support)
//   - vectordbtest.Memory (tests)
//
// Errors returned by implementations are *Error values carrying one of the
// sentinel kinds in errors.go.
//
//go:generate mockgen -source=interface.go -destination=mock_service.go -package=vectordb
type Service interface {
	// HasCollection reports whether a collection with the given name exists.
	HasCollection(ctx context.Context, name string) (bool, error)

	// CreateCollection creates a collection with the fixed chunk schema.
	CreateCollection(ctx context.Context, spec CollectionSpec) error

	// DescribeCollection returns the schema summary of an existing collection.
	DescribeCollection(ctx context.Context, name string) (*Collection, error)

	// DropCollection removes a collection and all of its rows.
	DropCollection(ctx context.Context, name string) error

	// ListCollections returns the names of all collections.
	ListCollections(ctx context.Context) ([]string, error)

	// CreateIndex builds the similarity index on the vector field.
	// Returns ErrAlreadySatisfied when an index is already present.
	CreateIndex(ctx context.Context, collection string, params IndexParams) error

	// LoadCollection makes a collection queryable.
	// Returns ErrAlreadySatisfied when it is already loaded.
	LoadCollection(ctx context.Context, name string) error

	// CreatePartition creates a named partition under a collection.
	CreatePartition(ctx context.Context, collection, partition string) error

	// HasPartition reports whether a partition exists.
	HasPartition(ctx context.Context, collection, partition string) (bool, error)

	// ListPartitions returns the names of all partitions of a collection.
	ListPartitions(ctx context.Context, collection string) ([]string, error)

	// Insert writes a column-oriented batch, optionally into a partition,
	// and returns the number of rows accepted.
	Insert(ctx context.Context, collection, partition string, cols *Columns) (int, error)

	// Flush seals pending writes of a collection.
	Flush(ctx context.Context, collection string) error

	// Delete removes every row matching the filter.
	Delete(ctx context.Context, collection, partition string, filter *FilterSet) error

	// Query returns rows matching a filter, paged with limit and offset.
	Query(ctx context.Context, req QueryRequest) ([]Row, error)

	// Search runs a filtered approximate nearest-neighbour search.
	Search(ctx context.Context, req SearchRequest) ([]Hit, error)

	// Count returns the number of entities stored in a collection.
	Count(ctx context.Context, collection string) (int64, error)

	// Close releases the underlying connection.
	Close() error
}
