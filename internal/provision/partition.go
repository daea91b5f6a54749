package provision

import (
	"context"
	"fmt"
	"slices"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// PartitionReport is the outcome of EnsurePartition.
type PartitionReport struct {
	Collection    string `json:"collection"`
	Partition     string `json:"partition"`
	AlreadyExists bool   `json:"already_exists,omitempty"`
	Created       bool   `json:"created,omitempty"`
}

// TenantPartition is the partition name the backend uses for a tenant.
func TenantPartition(tenantID int64) string {
	return fmt.Sprintf("tenant_%d", tenantID)
}

// EnsurePartition creates a partition unless it exists. A missing
// collection is an error.
func EnsurePartition(ctx context.Context, svc vectordb.Service, collection, partition string) (*PartitionReport, error) {
	exists, err := svc.HasCollection(ctx, collection)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, vectordb.NewError("ensure_partition", vectordb.ErrNotFound,
			fmt.Errorf("collection not found: %s", collection))
	}

	report := &PartitionReport{Collection: collection, Partition: partition}

	has, err := HasPartition(ctx, svc, collection, partition)
	if err != nil {
		return nil, err
	}
	if has {
		report.AlreadyExists = true
		return report, nil
	}

	if err := svc.CreatePartition(ctx, collection, partition); err != nil {
		// Lost a race with a concurrent creator.
		if vectordb.IsAlreadySatisfied(err) {
			report.AlreadyExists = true
			return report, nil
		}
		return nil, err
	}
	report.Created = true
	return report, nil
}

// HasPartition asks the database directly and, when that call fails for any
// reason other than a missing collection, falls back to listing partitions.
func HasPartition(ctx context.Context, svc vectordb.Service, collection, partition string) (bool, error) {
	has, err := svc.HasPartition(ctx, collection, partition)
	if err == nil {
		return has, nil
	}
	if vectordb.IsNotFound(err) {
		return false, err
	}

	names, listErr := svc.ListPartitions(ctx, collection)
	if listErr != nil {
		return false, listErr
	}
	return slices.Contains(names, partition), nil
}
