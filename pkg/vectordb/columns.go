package vectordb

import "fmt"

// Columns is the column-oriented form of a batch of rows, the shape the
// insert APIs of columnar engines expect. All slices have the same length.
type Columns struct {
	IDs          []int64
	TenantIDs    []int64
	DocumentIDs  []int64
	ChunkIndexes []int64
	Vectors      [][]float32
}

// ColumnsFromRows transposes rows into columns.
func ColumnsFromRows(rows []Row) *Columns {
	cols := &Columns{
		IDs:          make([]int64, len(rows)),
		TenantIDs:    make([]int64, len(rows)),
		DocumentIDs:  make([]int64, len(rows)),
		ChunkIndexes: make([]int64, len(rows)),
		Vectors:      make([][]float32, len(rows)),
	}
	for i, r := range rows {
		cols.IDs[i] = r.ID
		cols.TenantIDs[i] = r.TenantID
		cols.DocumentIDs[i] = r.DocumentID
		cols.ChunkIndexes[i] = r.ChunkIndex
		cols.Vectors[i] = r.Vector
	}
	return cols
}

// Len returns the number of rows.
func (c *Columns) Len() int {
	if c == nil {
		return 0
	}
	return len(c.IDs)
}

// Dim returns the dimension of the first vector, or 0 for an empty batch.
func (c *Columns) Dim() int {
	if c.Len() == 0 {
		return 0
	}
	return len(c.Vectors[0])
}

// Slice returns rows [i, j) sharing the backing arrays.
func (c *Columns) Slice(i, j int) *Columns {
	return &Columns{
		IDs:          c.IDs[i:j],
		TenantIDs:    c.TenantIDs[i:j],
		DocumentIDs:  c.DocumentIDs[i:j],
		ChunkIndexes: c.ChunkIndexes[i:j],
		Vectors:      c.Vectors[i:j],
	}
}

// Rows transposes the columns back into rows.
func (c *Columns) Rows() []Row {
	rows := make([]Row, c.Len())
	for i := range rows {
		rows[i] = Row{
			ID:         c.IDs[i],
			TenantID:   c.TenantIDs[i],
			DocumentID: c.DocumentIDs[i],
			ChunkIndex: c.ChunkIndexes[i],
			Vector:     c.Vectors[i],
		}
	}
	return rows
}

// Validate checks that the columns are aligned and vectors share one dimension.
func (c *Columns) Validate() error {
	n := c.Len()
	if n == 0 {
		return NewError("insert", ErrInvalidArgument, fmt.Errorf("empty batch"))
	}
	if len(c.TenantIDs) != n || len(c.DocumentIDs) != n || len(c.ChunkIndexes) != n || len(c.Vectors) != n {
		return NewError("insert", ErrInvalidArgument, fmt.Errorf("column length mismatch"))
	}
	dim := len(c.Vectors[0])
	if dim == 0 {
		return NewError("insert", ErrInvalidArgument, fmt.Errorf("vector at row 0 is empty"))
	}
	for i, v := range c.Vectors {
		if len(v) != dim {
			return NewError("insert", ErrInvalidArgument,
				fmt.Errorf("vector at row %d has dimension %d, expected %d", i, len(v), dim))
		}
	}
	return nil
}
