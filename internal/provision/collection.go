package provision

import (
	"context"
	"fmt"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// Step outcomes reported for the index and load steps.
const (
	StepDone             = "done"
	StepAlreadySatisfied = "already_satisfied"
)

// CollectionReport describes what EnsureCollection found and did.
type CollectionReport struct {
	Name      string          `json:"collection"`
	Dimension int             `json:"dimension"`
	Metric    vectordb.Metric `json:"metric"`
	Created   bool            `json:"created"`
	Index     string          `json:"index"`
	Load      string          `json:"load"`
}

// EnsureCollection makes sure a collection exists, is indexed and is loaded.
//
// An existing collection is used as is: its dimension is reported but never
// compared with spec.Dimension. Index creation and load are always attempted;
// only vectordb.ErrAlreadySatisfied is tolerated from them, every other
// failure is returned.
func EnsureCollection(ctx context.Context, svc vectordb.Service, spec vectordb.CollectionSpec, index vectordb.IndexParams) (*CollectionReport, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	exists, err := svc.HasCollection(ctx, spec.Name)
	if err != nil {
		return nil, err
	}

	report := &CollectionReport{Name: spec.Name, Metric: index.Metric}

	if exists {
		info, err := svc.DescribeCollection(ctx, spec.Name)
		if err != nil {
			return nil, err
		}
		report.Dimension = info.Dimension
	} else {
		if err := svc.CreateCollection(ctx, spec); err != nil {
			return nil, err
		}
		report.Created = true
		report.Dimension = spec.Dimension
	}

	if report.Index, err = tolerateSatisfied(svc.CreateIndex(ctx, spec.Name, index)); err != nil {
		return nil, fmt.Errorf("building index on %s: %w", spec.Name, err)
	}
	if report.Load, err = tolerateSatisfied(svc.LoadCollection(ctx, spec.Name)); err != nil {
		return nil, fmt.Errorf("loading %s: %w", spec.Name, err)
	}
	return report, nil
}

func tolerateSatisfied(err error) (string, error) {
	switch {
	case err == nil:
		return StepDone, nil
	case vectordb.IsAlreadySatisfied(err):
		return StepAlreadySatisfied, nil
	default:
		return "", err
	}
}
