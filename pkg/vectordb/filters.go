package vectordb

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// FilterCondition is the interface all filter conditions implement.
// Each adapter converts these to its native filter format.
type FilterCondition interface {
	IsFilterCondition()
	// Matches evaluates the condition against a row.
	Matches(r Row) bool
}

// FilterSet supports Must (AND) and MustNot (NOT) clauses over the scalar
// fields of the chunk schema.
type FilterSet struct {
	Must    *ConditionSet
	MustNot *ConditionSet
}

// ConditionSet holds a group of conditions for a single clause.
type ConditionSet struct {
	Conditions []FilterCondition
}

// MatchCondition is an exact match (field == value).
type MatchCondition struct {
	Field string
	Value int64
}

func (c *MatchCondition) IsFilterCondition() {}

func (c *MatchCondition) Matches(r Row) bool {
	v, ok := r.Int64Field(c.Field)
	return ok && v == c.Value
}

// MatchAnyCondition matches if the field is one of the values (IN).
type MatchAnyCondition struct {
	Field  string
	Values []int64
}

func (c *MatchAnyCondition) IsFilterCondition() {}

func (c *MatchAnyCondition) Matches(r Row) bool {
	v, ok := r.Int64Field(c.Field)
	return ok && slices.Contains(c.Values, v)
}

// NumericRange defines inclusive or exclusive bounds.
type NumericRange struct {
	Gt  *int64
	Gte *int64
	Lt  *int64
	Lte *int64
}

// NumericRangeCondition filters by numeric range.
type NumericRangeCondition struct {
	Field string
	Range NumericRange
}

func (c *NumericRangeCondition) IsFilterCondition() {}

func (c *NumericRangeCondition) Matches(r Row) bool {
	v, ok := r.Int64Field(c.Field)
	if !ok {
		return false
	}
	rg := c.Range
	return (rg.Gt == nil || v > *rg.Gt) &&
		(rg.Gte == nil || v >= *rg.Gte) &&
		(rg.Lt == nil || v < *rg.Lt) &&
		(rg.Lte == nil || v <= *rg.Lte)
}

// ── Constructors ─────────────────────────────────────────────────────────────

// NewFilterSet creates a FilterSet with the given clauses.
//
// Example:
//
//	vectordb.NewFilterSet(vectordb.Must(vectordb.NewMatch(vectordb.FieldTenantID, 7)))
func NewFilterSet(clauses ...func(*FilterSet)) *FilterSet {
	fs := &FilterSet{}
	for _, clause := range clauses {
		clause(fs)
	}
	return fs
}

// Must creates a Must clause (AND logic).
func Must(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.Must = &ConditionSet{Conditions: conditions}
	}
}

// MustNot creates a MustNot clause (NOT logic).
func MustNot(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.MustNot = &ConditionSet{Conditions: conditions}
	}
}

func NewMatch(field string, value int64) *MatchCondition {
	return &MatchCondition{Field: field, Value: value}
}

func NewMatchAny(field string, values ...int64) *MatchAnyCondition {
	return &MatchAnyCondition{Field: field, Values: values}
}

func NewNumericRange(field string, r NumericRange) *NumericRangeCondition {
	return &NumericRangeCondition{Field: field, Range: r}
}

// TenantFilter selects the rows of one tenant.
func TenantFilter(tenantID int64) *FilterSet {
	return NewFilterSet(Must(NewMatch(FieldTenantID, tenantID)))
}

// IDsFilter selects rows by primary key.
func IDsFilter(ids ...int64) *FilterSet {
	return NewFilterSet(Must(NewMatchAny(FieldID, ids...)))
}

// AllRowsFilter selects every row with a non-negative primary key.
func AllRowsFilter() *FilterSet {
	zero := int64(0)
	return NewFilterSet(Must(NewNumericRange(FieldID, NumericRange{Gte: &zero})))
}

// ── Evaluation & rendering ───────────────────────────────────────────────────

// IsEmpty reports whether the filter has no conditions.
func (fs *FilterSet) IsEmpty() bool {
	return fs == nil ||
		(fs.Must == nil || len(fs.Must.Conditions) == 0) &&
			(fs.MustNot == nil || len(fs.MustNot.Conditions) == 0)
}

// Matches evaluates the filter against a row. A nil filter matches everything.
func (fs *FilterSet) Matches(r Row) bool {
	if fs == nil {
		return true
	}
	if fs.Must != nil {
		for _, c := range fs.Must.Conditions {
			if !c.Matches(r) {
				return false
			}
		}
	}
	if fs.MustNot != nil {
		for _, c := range fs.MustNot.Conditions {
			if c.Matches(r) {
				return false
			}
		}
	}
	return true
}

// String renders the filter in boolean expression syntax, e.g.
// `tenant_id == 7 && id in [1, 2]`. Adapters for expression-based engines
// use it directly; it is also a stable cache key.
func (fs *FilterSet) String() string {
	if fs.IsEmpty() {
		return ""
	}
	var parts []string
	if fs.Must != nil {
		for _, c := range fs.Must.Conditions {
			parts = append(parts, renderCondition(c))
		}
	}
	if fs.MustNot != nil {
		for _, c := range fs.MustNot.Conditions {
			parts = append(parts, "not ("+renderCondition(c)+")")
		}
	}
	return strings.Join(parts, " && ")
}

func renderCondition(c FilterCondition) string {
	switch cond := c.(type) {
	case *MatchCondition:
		return fmt.Sprintf("%s == %d", cond.Field, cond.Value)
	case *MatchAnyCondition:
		vals := make([]string, len(cond.Values))
		for i, v := range cond.Values {
			vals[i] = strconv.FormatInt(v, 10)
		}
		return fmt.Sprintf("%s in [%s]", cond.Field, strings.Join(vals, ", "))
	case *NumericRangeCondition:
		var parts []string
		rg := cond.Range
		if rg.Gt != nil {
			parts = append(parts, fmt.Sprintf("%s > %d", cond.Field, *rg.Gt))
		}
		if rg.Gte != nil {
			parts = append(parts, fmt.Sprintf("%s >= %d", cond.Field, *rg.Gte))
		}
		if rg.Lt != nil {
			parts = append(parts, fmt.Sprintf("%s < %d", cond.Field, *rg.Lt))
		}
		if rg.Lte != nil {
			parts = append(parts, fmt.Sprintf("%s <= %d", cond.Field, *rg.Lte))
		}
		return strings.Join(parts, " && ")
	default:
		return ""
	}
}
