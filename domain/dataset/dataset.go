package dataset

import (
	"fmt"
	"sort"
	"strings"

	"hypotest/domain/core"
	"hypotest/internal/errors"
)

// Row maps column name to cell value.
type Row map[string]Value

// Dataset is an ordered, read-only collection of rows sharing one column set.
// It is never mutated after construction, so a single instance may be shared
// by concurrent test invocations.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// Group is the numeric values of one label of a categorical column.
type Group struct {
	Label  string
	Values []float64
}

// LabelCount is one entry of ValueCounts.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// New builds a dataset, copying rows so later changes by the caller cannot
// leak in. Every row must carry exactly the given columns.
func New(columns []string, rows []Row) (*Dataset, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, errors.InvalidInput(fmt.Sprintf("duplicate column %q", c))
		}
		index[c] = i
	}

	copied := make([]Row, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d has %d columns, want %d", i, len(row), len(columns)))
		}
		r := make(Row, len(columns))
		for k, v := range row {
			if _, ok := index[k]; !ok {
				return nil, errors.InvalidInput(fmt.Sprintf("row %d has unexpected column %q", i, k))
			}
			r[k] = v
		}
		copied[i] = r
	}

	return &Dataset{
		columns: append([]string(nil), columns...),
		index:   index,
		rows:    copied,
	}, nil
}

// FromRecords builds a dataset from a header and raw string records. Short
// records are padded with missing cells; extra cells are an error.
func FromRecords(header []string, records [][]string) (*Dataset, error) {
	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		if len(rec) > len(header) {
			return nil, errors.InvalidInput(fmt.Sprintf("record %d has %d fields, header has %d", i+1, len(rec), len(header)))
		}
		row := make(Row, len(header))
		for j, col := range header {
			cell := ""
			if j < len(rec) {
				cell = rec[j]
			}
			row[col] = ParseValue(cell)
		}
		rows = append(rows, row)
	}
	return New(header, rows)
}

// Columns returns the column names in declaration order.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

func (d *Dataset) HasColumn(column string) bool {
	_, ok := d.index[column]
	return ok
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Value returns one cell.
func (d *Dataset) Value(row int, column string) Value {
	return d.rows[row][column]
}

// Hash fingerprints the column names and every cell in row order
func (d *Dataset) Hash() core.Hash {
	var b strings.Builder
	b.WriteString(strings.Join(d.columns, "\x1f"))
	for _, row := range d.rows {
		b.WriteByte('\n')
		for i, c := range d.columns {
			if i > 0 {
				b.WriteByte(0x1f)
			}
			b.WriteString(row[c].String())
		}
	}
	return core.NewHash([]byte(b.String()))
}

// Where returns a new dataset holding only the rows matching pred.
func (d *Dataset) Where(pred Predicate) (*Dataset, error) {
	if err := d.checkColumns(pred.Columns()...); err != nil {
		return nil, err
	}
	var kept []Row
	for _, row := range d.rows {
		if pred.Match(row) {
			kept = append(kept, row)
		}
	}
	return &Dataset{columns: d.columns, index: d.index, rows: kept}, nil
}

// DropIncomplete returns a dataset without rows that have any missing cell.
func (d *Dataset) DropIncomplete() *Dataset {
	kept := make([]Row, 0, len(d.rows))
	for _, row := range d.rows {
		complete := true
		for _, v := range row {
			if v.IsMissing() {
				complete = false
				break
			}
		}
		if complete {
			kept = append(kept, row)
		}
	}
	return &Dataset{columns: d.columns, index: d.index, rows: kept}
}

// Floats returns the numeric column values of rows matching pred, in row order.
func (d *Dataset) Floats(column string, pred Predicate) ([]float64, error) {
	if pred == nil {
		pred = All()
	}
	if err := d.checkColumns(append(pred.Columns(), column)...); err != nil {
		return nil, err
	}
	var out []float64
	for i, row := range d.rows {
		if !pred.Match(row) {
			continue
		}
		f, err := numericCell(row, column, i)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// GroupBy partitions the numeric column by the distinct labels of the group
// column. Groups are ordered by label. Rows with a missing label belong to no
// group.
func (d *Dataset) GroupBy(numeric, group string) ([]Group, error) {
	if err := d.checkColumns(numeric, group); err != nil {
		return nil, err
	}
	byLabel := make(map[string][]float64)
	for i, row := range d.rows {
		if row[group].IsMissing() {
			continue
		}
		f, err := numericCell(row, numeric, i)
		if err != nil {
			return nil, err
		}
		label := row[group].String()
		byLabel[label] = append(byLabel[label], f)
	}

	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	groups := make([]Group, len(labels))
	for i, label := range labels {
		groups[i] = Group{Label: label, Values: byLabel[label]}
	}
	return groups, nil
}

// ValueCounts counts rows per distinct label, most frequent first, ties by label.
// Missing labels are not counted.
func (d *Dataset) ValueCounts(column string) ([]LabelCount, error) {
	if err := d.checkColumns(column); err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, row := range d.rows {
		if row[column].IsMissing() {
			continue
		}
		counts[row[column].String()]++
	}
	out := make([]LabelCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, LabelCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out, nil
}

func (d *Dataset) checkColumns(columns ...string) error {
	for _, c := range columns {
		if !d.HasColumn(c) {
			return errors.InvalidInput(fmt.Sprintf("unknown column %q", c))
		}
	}
	return nil
}

func numericCell(row Row, column string, index int) (float64, error) {
	cell := row[column]
	f, ok := cell.Float()
	if !ok {
		return 0, errors.InvalidInput(fmt.Sprintf("column %q row %d: %q is not numeric", column, index, cell.String()))
	}
	return f, nil
}
