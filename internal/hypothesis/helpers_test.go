package hypothesis

import (
	"strconv"
	"testing"

	"hypotest/domain/dataset"

	"github.com/stretchr/testify/require"
)

// groupedDataset builds a two-column dataset from label -> values.
func groupedDataset(t *testing.T, numeric, group string, data map[string][]float64, order []string) *dataset.Dataset {
	t.Helper()
	var records [][]string
	for _, label := range order {
		for _, v := range data[label] {
			records = append(records, []string{label, strconv.FormatFloat(v, 'g', -1, 64)})
		}
	}
	ds, err := dataset.FromRecords([]string{group, numeric}, records)
	require.NoError(t, err)
	return ds
}

func marketing(t *testing.T) *dataset.Dataset {
	t.Helper()
	return groupedDataset(t, "Sales", "TV", map[string][]float64{
		"Low":    {90, 95, 100, 92, 98},
		"Medium": {190, 200, 195, 205, 188},
		"High":   {300, 310, 295, 305, 299},
	}, []string{"Low", "Medium", "High"})
}
