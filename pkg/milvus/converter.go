package milvus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

const typeParamDim = "dim"

// buildSchema renders the fixed chunk schema for a collection spec.
func buildSchema(spec vectordb.CollectionSpec) *entity.Schema {
	schema := entity.NewSchema().
		WithName(spec.Name).
		WithDescription(spec.Description).
		WithAutoID(false).
		WithDynamicFieldEnabled(spec.DynamicFields).
		WithField(entity.NewField().WithName(vectordb.FieldID).WithDataType(entity.FieldTypeInt64).WithIsPrimaryKey(true).WithIsAutoID(false))

	for _, name := range vectordb.ScalarFields[1:] {
		schema.WithField(entity.NewField().WithName(name).WithDataType(entity.FieldTypeInt64))
	}

	return schema.WithField(entity.NewField().
		WithName(vectordb.FieldVector).
		WithDataType(entity.FieldTypeFloatVector).
		WithDim(int64(spec.Dimension)))
}

// toEntityColumns converts a vectordb batch into SDK insert columns.
func toEntityColumns(cols *vectordb.Columns) []entity.Column {
	return []entity.Column{
		entity.NewColumnInt64(vectordb.FieldID, cols.IDs),
		entity.NewColumnInt64(vectordb.FieldTenantID, cols.TenantIDs),
		entity.NewColumnInt64(vectordb.FieldDocumentID, cols.DocumentIDs),
		entity.NewColumnInt64(vectordb.FieldChunkIndex, cols.ChunkIndexes),
		entity.NewColumnFloatVector(vectordb.FieldVector, cols.Dim(), cols.Vectors),
	}
}

// rowsFromResultSet transposes a query result back into rows. Fields that
// were not requested stay at their zero value.
func rowsFromResultSet(rs client.ResultSet) ([]vectordb.Row, error) {
	ids, err := int64Data(rs.GetColumn(vectordb.FieldID))
	if err != nil {
		return nil, err
	}
	rows := make([]vectordb.Row, len(ids))
	for i, id := range ids {
		rows[i].ID = id
	}

	assign := func(field string, set func(r *vectordb.Row, v int64)) error {
		col := rs.GetColumn(field)
		if col == nil {
			return nil
		}
		data, err := int64Data(col)
		if err != nil {
			return err
		}
		if len(data) != len(rows) {
			return fmt.Errorf("column %s has %d values, expected %d", field, len(data), len(rows))
		}
		for i, v := range data {
			set(&rows[i], v)
		}
		return nil
	}
	if err := assign(vectordb.FieldTenantID, func(r *vectordb.Row, v int64) { r.TenantID = v }); err != nil {
		return nil, err
	}
	if err := assign(vectordb.FieldDocumentID, func(r *vectordb.Row, v int64) { r.DocumentID = v }); err != nil {
		return nil, err
	}
	if err := assign(vectordb.FieldChunkIndex, func(r *vectordb.Row, v int64) { r.ChunkIndex = v }); err != nil {
		return nil, err
	}

	if col := rs.GetColumn(vectordb.FieldVector); col != nil {
		vc, ok := col.(*entity.ColumnFloatVector)
		if !ok {
			return nil, fmt.Errorf("column %s has unexpected type %T", vectordb.FieldVector, col)
		}
		vectors := vc.Data()
		if len(vectors) != len(rows) {
			return nil, fmt.Errorf("column %s has %d values, expected %d", vectordb.FieldVector, len(vectors), len(rows))
		}
		for i, v := range vectors {
			rows[i].Vector = v
		}
	}
	return rows, nil
}

func int64Data(col entity.Column) ([]int64, error) {
	if col == nil {
		return nil, nil
	}
	c, ok := col.(*entity.ColumnInt64)
	if !ok {
		return nil, fmt.Errorf("column %s has unexpected type %T", col.Name(), col)
	}
	return c.Data(), nil
}

// hitsFromResult converts the single-query search result into hits.
func hitsFromResult(res client.SearchResult) ([]vectordb.Hit, error) {
	if res.Err != nil {
		return nil, res.Err
	}
	ids, err := int64Data(res.IDs)
	if err != nil {
		return nil, err
	}
	if len(ids) != len(res.Scores) {
		return nil, fmt.Errorf("search returned %d ids and %d scores", len(ids), len(res.Scores))
	}
	hits := make([]vectordb.Hit, len(ids))
	for i, id := range ids {
		hits[i] = vectordb.Hit{ID: id, Distance: res.Scores[i]}
	}
	return hits, nil
}

// collectionFromEntity summarises a described collection.
func collectionFromEntity(c *entity.Collection) *vectordb.Collection {
	out := &vectordb.Collection{Name: c.Name}
	if c.Schema == nil {
		return out
	}
	out.Description = c.Schema.Description
	out.DynamicFields = c.Schema.EnableDynamicField
	for _, f := range c.Schema.Fields {
		if f.DataType == entity.FieldTypeFloatVector {
			if dim, err := strconv.Atoi(f.TypeParams[typeParamDim]); err == nil {
				out.Dimension = dim
			}
		}
	}
	out.Schema = renderSchema(c.Name, c.Schema)
	return out
}

// renderSchema prints a schema in a compact, human-readable form.
func renderSchema(name string, s *entity.Schema) string {
	fields := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		var b strings.Builder
		fmt.Fprintf(&b, "%s %s", f.Name, f.DataType.Name())
		if dim, ok := f.TypeParams[typeParamDim]; ok {
			fmt.Fprintf(&b, "(dim=%s)", dim)
		}
		if f.PrimaryKey {
			b.WriteString(" primary")
		}
		fields = append(fields, b.String())
	}
	return fmt.Sprintf("{name: %s, description: %s, fields: [%s], enable_dynamic_field: %t}",
		name, s.Description, strings.Join(fields, ", "), s.EnableDynamicField)
}
