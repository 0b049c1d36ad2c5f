package ports

import (
	"context"

	"hypotest/domain/dataset"
)

// DatasetReader loads a tabular data source into a read-only dataset
type DatasetReader interface {
	ReadDataset(ctx context.Context) (*dataset.Dataset, error)
}
