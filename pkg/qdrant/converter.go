package qdrant

import (
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// ── Filter Conversion ────────────────────────────────────────────────────────

// convertFilterSet converts a vectordb.FilterSet to a Qdrant filter.
// Conditions on the primary key become has_id conditions; other fields are
// integer payload matches.
func convertFilterSet(filters *vectordb.FilterSet) (*qdrant.Filter, error) {
	if filters.IsEmpty() {
		return nil, nil
	}

	filter := &qdrant.Filter{}
	var err error
	if filters.Must != nil {
		if filter.Must, err = convertConditionSet(filters.Must); err != nil {
			return nil, err
		}
	}
	if filters.MustNot != nil {
		if filter.MustNot, err = convertConditionSet(filters.MustNot); err != nil {
			return nil, err
		}
	}

	if len(filter.Must) == 0 && len(filter.MustNot) == 0 {
		return nil, nil
	}
	return filter, nil
}

func convertConditionSet(cs *vectordb.ConditionSet) ([]*qdrant.Condition, error) {
	var conditions []*qdrant.Condition
	for _, c := range cs.Conditions {
		cond, err := convertCondition(c)
		if err != nil {
			return nil, err
		}
		if cond != nil {
			conditions = append(conditions, cond)
		}
	}
	return conditions, nil
}

func convertCondition(c vectordb.FilterCondition) (*qdrant.Condition, error) {
	switch cond := c.(type) {
	case *vectordb.MatchCondition:
		if cond.Field == vectordb.FieldID {
			return qdrant.NewHasID(pointID(cond.Value)), nil
		}
		return qdrant.NewMatchInt(cond.Field, cond.Value), nil

	case *vectordb.MatchAnyCondition:
		if len(cond.Values) == 0 {
			return nil, nil
		}
		if cond.Field == vectordb.FieldID {
			ids := make([]*qdrant.PointId, len(cond.Values))
			for i, v := range cond.Values {
				ids[i] = pointID(v)
			}
			return qdrant.NewHasID(ids...), nil
		}
		return qdrant.NewMatchInts(cond.Field, cond.Values...), nil

	case *vectordb.NumericRangeCondition:
		r := cond.Range
		if cond.Field == vectordb.FieldID {
			// Point ids are unsigned, so "id >= 0" holds for every point.
			if r.Gt == nil && r.Lt == nil && r.Lte == nil && r.Gte != nil && *r.Gte <= 0 {
				return nil, nil
			}
			return nil, vectordb.NewError("filter", vectordb.ErrUnsupported, fmt.Errorf("range conditions on %s are not supported", vectordb.FieldID))
		}
		if r.Gt == nil && r.Gte == nil && r.Lt == nil && r.Lte == nil {
			return nil, nil
		}
		return qdrant.NewRange(cond.Field, &qdrant.Range{
			Gt:  toFloat(r.Gt),
			Gte: toFloat(r.Gte),
			Lt:  toFloat(r.Lt),
			Lte: toFloat(r.Lte),
		}), nil

	default:
		return nil, vectordb.NewError("filter", vectordb.ErrInvalidArgument, fmt.Errorf("unknown condition %T", c))
	}
}

func toFloat(v *int64) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

// ── Point Conversion ─────────────────────────────────────────────────────────

func pointID(id int64) *qdrant.PointId {
	return qdrant.NewIDNum(uint64(id))
}

// toPoints converts a column batch into points; scalar fields go to the payload.
func toPoints(cols *vectordb.Columns) []*qdrant.PointStruct {
	points := make([]*qdrant.PointStruct, 0, cols.Len())
	for _, r := range cols.Rows() {
		points = append(points, &qdrant.PointStruct{
			Id:      pointID(r.ID),
			Vectors: qdrant.NewVectors(r.Vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				vectordb.FieldTenantID:   r.TenantID,
				vectordb.FieldDocumentID: r.DocumentID,
				vectordb.FieldChunkIndex: r.ChunkIndex,
			}),
		})
	}
	return points
}

// rowFromPoint converts a retrieved point back into a row.
func rowFromPoint(p *qdrant.RetrievedPoint) vectordb.Row {
	payload := p.GetPayload()
	row := vectordb.Row{
		ID:         int64(p.GetId().GetNum()),
		TenantID:   payload[vectordb.FieldTenantID].GetIntegerValue(),
		DocumentID: payload[vectordb.FieldDocumentID].GetIntegerValue(),
		ChunkIndex: payload[vectordb.FieldChunkIndex].GetIntegerValue(),
	}
	if data := p.GetVectors().GetVector().GetData(); len(data) > 0 {
		row.Vector = data
	}
	return row
}

// toDistance maps a vectordb metric to the Qdrant distance.
func toDistance(m vectordb.Metric) qdrant.Distance {
	switch m {
	case vectordb.MetricL2:
		return qdrant.Distance_Euclid
	case vectordb.MetricIP:
		return qdrant.Distance_Dot
	default:
		return qdrant.Distance_Cosine
	}
}
