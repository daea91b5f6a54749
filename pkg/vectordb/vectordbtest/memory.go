// Package vectordbtest provides an in-memory vectordb.Service for tests.
package vectordbtest

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// DefaultPartition is the partition every collection starts with.
const DefaultPartition = "_default"

type storedRow struct {
	row       vectordb.Row
	partition string
}

type collection struct {
	spec       vectordb.CollectionSpec
	partitions []string
	rows       []storedRow
	indexed    bool
	loaded     bool
}

// Memory is an in-memory vectordb.Service. It mirrors the observable
// behaviour of a columnar engine closely enough for unit tests: inserts do
// not deduplicate, queries and searches need a loaded collection, and
// index/load report vectordb.ErrAlreadySatisfied when repeated.
//
// Failures can be injected per method name with Fail.
type Memory struct {
	mu          sync.Mutex
	collections map[string]*collection
	failures    map[string]error
	calls       map[string]int

	// Searches records every search request in order.
	Searches []vectordb.SearchRequest
	// Queries records every query request in order.
	Queries []vectordb.QueryRequest
	// Closed is set by Close.
	Closed bool
}

// New returns an empty Memory.
func New() *Memory {
	return &Memory{
		collections: make(map[string]*collection),
		failures:    make(map[string]error),
		calls:       make(map[string]int),
	}
}

var _ vectordb.Service = (*Memory)(nil)

// Fail makes every subsequent call of method return err. A nil err clears it.
func (m *Memory) Fail(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, method)
		return
	}
	m.failures[method] = err
}

// Calls returns how often method was invoked.
func (m *Memory) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// Seed creates a loaded, indexed collection holding rows.
func (m *Memory) Seed(spec vectordb.CollectionSpec, rows ...vectordb.Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &collection{spec: spec, partitions: []string{DefaultPartition}, indexed: true, loaded: true}
	for _, r := range rows {
		c.rows = append(c.rows, storedRow{row: r, partition: DefaultPartition})
	}
	m.collections[spec.Name] = c
}

// Rows returns a copy of all rows of a collection ordered by id.
func (m *Memory) Rows(name string) []vectordb.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[name]
	if !ok {
		return nil
	}
	out := make([]vectordb.Row, 0, len(c.rows))
	for _, r := range c.rows {
		out = append(out, r.row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Spec returns the creation spec of a collection.
func (m *Memory) Spec(name string) (vectordb.CollectionSpec, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[name]
	if !ok {
		return vectordb.CollectionSpec{}, false
	}
	return c.spec, true
}

// Loaded reports whether a collection is loaded.
func (m *Memory) Loaded(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[name]
	return ok && c.loaded
}

// enter records the call and returns an injected failure, if any.
// Callers must hold m.mu.
func (m *Memory) enter(method string) error {
	m.calls[method]++
	return m.failures[method]
}

func (m *Memory) get(op, name string) (*collection, error) {
	c, ok := m.collections[name]
	if !ok {
		return nil, vectordb.NewError(op, vectordb.ErrNotFound, fmt.Errorf("collection %s does not exist", name))
	}
	return c, nil
}

func (m *Memory) HasCollection(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("HasCollection"); err != nil {
		return false, err
	}
	_, ok := m.collections[name]
	return ok, nil
}

func (m *Memory) CreateCollection(_ context.Context, spec vectordb.CollectionSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateCollection"); err != nil {
		return err
	}
	if err := spec.Validate(); err != nil {
		return err
	}
	if _, ok := m.collections[spec.Name]; ok {
		return vectordb.NewError("create_collection", vectordb.ErrAlreadySatisfied, fmt.Errorf("collection %s already exists", spec.Name))
	}
	m.collections[spec.Name] = &collection{spec: spec, partitions: []string{DefaultPartition}}
	return nil
}

func (m *Memory) DescribeCollection(_ context.Context, name string) (*vectordb.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("DescribeCollection"); err != nil {
		return nil, err
	}
	c, err := m.get("describe_collection", name)
	if err != nil {
		return nil, err
	}
	return &vectordb.Collection{
		Name:          name,
		Dimension:     c.spec.Dimension,
		DynamicFields: c.spec.DynamicFields,
		Description:   c.spec.Description,
		Schema: fmt.Sprintf("{name: %s, description: %s, fields: [id INT64 primary, tenant_id INT64, document_id INT64, chunk_index INT64, vector FLOAT_VECTOR(dim=%d)], enable_dynamic_field: %t}",
			name, c.spec.Description, c.spec.Dimension, c.spec.DynamicFields),
	}, nil
}

func (m *Memory) DropCollection(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("DropCollection"); err != nil {
		return err
	}
	if _, err := m.get("drop_collection", name); err != nil {
		return err
	}
	delete(m.collections, name)
	return nil
}

func (m *Memory) ListCollections(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ListCollections"); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *Memory) CreateIndex(_ context.Context, name string, params vectordb.IndexParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateIndex"); err != nil {
		return err
	}
	c, err := m.get("create_index", name)
	if err != nil {
		return err
	}
	if c.indexed {
		return vectordb.NewError("create_index", vectordb.ErrAlreadySatisfied, fmt.Errorf("index already exists on %s", name))
	}
	if c.spec.Metric == "" {
		c.spec.Metric = params.Metric
	}
	c.indexed = true
	return nil
}

func (m *Memory) LoadCollection(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("LoadCollection"); err != nil {
		return err
	}
	c, err := m.get("load_collection", name)
	if err != nil {
		return err
	}
	if !c.indexed {
		return vectordb.NewError("load_collection", vectordb.ErrInvalidArgument, fmt.Errorf("index not found on %s", name))
	}
	if c.loaded {
		return vectordb.NewError("load_collection", vectordb.ErrAlreadySatisfied, nil)
	}
	c.loaded = true
	return nil
}

func (m *Memory) CreatePartition(_ context.Context, name, partition string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreatePartition"); err != nil {
		return err
	}
	c, err := m.get("create_partition", name)
	if err != nil {
		return err
	}
	if slices.Contains(c.partitions, partition) {
		return vectordb.NewError("create_partition", vectordb.ErrAlreadySatisfied, fmt.Errorf("partition %s already exists", partition))
	}
	c.partitions = append(c.partitions, partition)
	return nil
}

func (m *Memory) HasPartition(_ context.Context, name, partition string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("HasPartition"); err != nil {
		return false, err
	}
	c, err := m.get("has_partition", name)
	if err != nil {
		return false, err
	}
	return slices.Contains(c.partitions, partition), nil
}

func (m *Memory) ListPartitions(_ context.Context, name string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ListPartitions"); err != nil {
		return nil, err
	}
	c, err := m.get("list_partitions", name)
	if err != nil {
		return nil, err
	}
	return slices.Clone(c.partitions), nil
}

func (m *Memory) Insert(_ context.Context, name, partition string, cols *vectordb.Columns) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Insert"); err != nil {
		return 0, err
	}
	c, err := m.get("insert", name)
	if err != nil {
		return 0, err
	}
	if err := cols.Validate(); err != nil {
		return 0, err
	}
	if cols.Dim() != c.spec.Dimension {
		return 0, vectordb.NewError("insert", vectordb.ErrInvalidArgument,
			fmt.Errorf("vector dimension %d does not match collection dimension %d", cols.Dim(), c.spec.Dimension))
	}
	if partition == "" {
		partition = DefaultPartition
	}
	if !slices.Contains(c.partitions, partition) {
		return 0, vectordb.NewError("insert", vectordb.ErrNotFound, fmt.Errorf("partition %s does not exist", partition))
	}
	for _, r := range cols.Rows() {
		r.Vector = slices.Clone(r.Vector)
		c.rows = append(c.rows, storedRow{row: r, partition: partition})
	}
	return cols.Len(), nil
}

func (m *Memory) Flush(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Flush"); err != nil {
		return err
	}
	_, err := m.get("flush", name)
	return err
}

func (m *Memory) Delete(_ context.Context, name, partition string, filter *vectordb.FilterSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Delete"); err != nil {
		return err
	}
	c, err := m.get("delete", name)
	if err != nil {
		return err
	}
	if filter.IsEmpty() {
		return vectordb.NewError("delete", vectordb.ErrInvalidArgument, fmt.Errorf("delete requires a filter"))
	}
	c.rows = slices.DeleteFunc(c.rows, func(r storedRow) bool {
		return (partition == "" || r.partition == partition) && filter.Matches(r.row)
	})
	return nil
}

func (m *Memory) Query(_ context.Context, req vectordb.QueryRequest) ([]vectordb.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, req)
	if err := m.enter("Query"); err != nil {
		return nil, err
	}
	c, err := m.get("query", req.Collection)
	if err != nil {
		return nil, err
	}
	if !c.loaded {
		return nil, vectordb.NewError("query", vectordb.ErrInvalidArgument, fmt.Errorf("collection %s not loaded", req.Collection))
	}

	matched := m.matching(c, req.Partitions, req.Filter)
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	start := min(int(req.Offset), len(matched))
	end := len(matched)
	if req.Limit > 0 {
		end = min(start+int(req.Limit), len(matched))
	}
	out := make([]vectordb.Row, 0, end-start)
	withVector := len(req.OutputFields) == 0 || slices.Contains(req.OutputFields, vectordb.FieldVector)
	for _, r := range matched[start:end] {
		if withVector {
			r.Vector = slices.Clone(r.Vector)
		} else {
			r.Vector = nil
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *Memory) Search(_ context.Context, req vectordb.SearchRequest) ([]vectordb.Hit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Searches = append(m.Searches, req)
	if err := m.enter("Search"); err != nil {
		return nil, err
	}
	c, err := m.get("search", req.Collection)
	if err != nil {
		return nil, err
	}
	if !c.loaded {
		return nil, vectordb.NewError("search", vectordb.ErrInvalidArgument, fmt.Errorf("collection %s not loaded", req.Collection))
	}
	if req.Ef < req.Limit {
		return nil, vectordb.NewError("search", vectordb.ErrInvalidArgument, fmt.Errorf("ef(%d) should be larger than topk(%d)", req.Ef, req.Limit))
	}
	if len(req.Vector) != c.spec.Dimension {
		return nil, vectordb.NewError("search", vectordb.ErrInvalidArgument,
			fmt.Errorf("vector dimension %d does not match collection dimension %d", len(req.Vector), c.spec.Dimension))
	}

	metric := req.Metric
	if metric == "" {
		metric = vectordb.MetricCosine
	}
	hits := make([]vectordb.Hit, 0)
	for _, r := range m.matching(c, req.Partitions, req.Filter) {
		hits = append(hits, vectordb.Hit{ID: r.ID, Distance: score(metric, req.Vector, r.Vector)})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if metric.HigherIsCloser() {
			return hits[i].Distance > hits[j].Distance
		}
		return hits[i].Distance < hits[j].Distance
	})
	if len(hits) > req.Limit {
		hits = hits[:req.Limit]
	}
	return hits, nil
}

func (m *Memory) Count(_ context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Count"); err != nil {
		return 0, err
	}
	c, err := m.get("count", name)
	if err != nil {
		return 0, err
	}
	return int64(len(c.rows)), nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return m.enter("Close")
}

func (m *Memory) matching(c *collection, partitions []string, filter *vectordb.FilterSet) []vectordb.Row {
	var out []vectordb.Row
	for _, r := range c.rows {
		if len(partitions) > 0 && !slices.Contains(partitions, r.partition) {
			continue
		}
		if filter.Matches(r.row) {
			out = append(out, r.row)
		}
	}
	return out
}

// score reports what the engine reports as "distance": cosine similarity for
// COSINE, inner product for IP and squared euclidean distance for L2.
func score(metric vectordb.Metric, a, b []float32) float32 {
	var dot, na, nb, l2 float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
		l2 += (x - y) * (x - y)
	}
	switch metric {
	case vectordb.MetricIP:
		return float32(dot)
	case vectordb.MetricL2:
		return float32(l2)
	default:
		if na == 0 || nb == 0 {
			return 0
		}
		return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
	}
}
