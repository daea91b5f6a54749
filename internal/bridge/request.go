package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Aleph-Alpha/vectorbridge/internal/result"
	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// Operation names accepted in the "operation" field.
const (
	OpSearch          = "search"
	OpUpsert          = "upsert"
	OpDeleteByIDs     = "delete_by_ids"
	OpDeleteByTenant  = "delete_by_tenant"
	OpCountByTenant   = "count_by_tenant"
	OpHealth          = "health"
	OpCreatePartition = "create_partition"
	OpHasPartition    = "has_partition"
)

const (
	// DefaultLimit is the search limit when the request omits one.
	DefaultLimit = 10

	// FilePrefix marks an argument that names a JSON file instead of
	// carrying the JSON inline.
	FilePrefix = "@"
)

// Int decodes a JSON number or a numeric string into an int64. Callers send
// ids both ways.
type Int int64

// UnmarshalJSON implements json.Unmarshaler. null leaves the value unchanged.
func (i *Int) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}

	quoted := strings.HasPrefix(raw, `"`)
	if quoted {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*i = Int(n)
		return nil
	}

	// Integral floats such as 7.0 are accepted when sent as numbers.
	if !quoted {
		if f, err := strconv.ParseFloat(raw, 64); err == nil && f == math.Trunc(f) &&
			f >= math.MinInt64 && f < math.MaxInt64 {
			*i = Int(f)
			return nil
		}
	}
	return fmt.Errorf("invalid literal for integer: %s", string(data))
}

// Request is the decoded command argument. Which fields are required
// depends on Operation.
type Request struct {
	Operation     string      `json:"operation"`
	Collection    string      `json:"collection"`
	QueryVector   []float32   `json:"query_vector"`
	TenantID      Int         `json:"tenant_id"`
	DocumentID    Int         `json:"document_id"`
	Limit         Int         `json:"limit"`
	Vectors       [][]float32 `json:"vectors"`
	PrimaryIDs    []Int       `json:"primary_ids"`
	PartitionName string      `json:"partition_name"`
}

// ParseArgument decodes the single command-line argument: inline JSON, or
// "@path" naming a UTF-8 JSON file. Missing operation and collection fields
// take their defaults.
func ParseArgument(arg, defaultCollection string) (*Request, error) {
	data := []byte(arg)
	if path, ok := strings.CutPrefix(arg, FilePrefix); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, result.Invalid("Cannot read request file: %v", err)
		}
		data = bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
	}

	req := Request{Limit: DefaultLimit}
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, result.Invalid("Invalid JSON: %v", err)
	}

	if req.Operation == "" {
		req.Operation = OpSearch
	}
	if req.Collection == "" {
		req.Collection = defaultCollection
	}
	return &req, nil
}

// Validate checks the fields the operation requires. It never touches the
// database.
func (r *Request) Validate() error {
	switch r.Operation {
	case OpSearch:
		if len(r.QueryVector) == 0 {
			return result.Invalid("query_vector is required")
		}
		if r.TenantID <= 0 {
			return result.Invalid("valid tenant_id is required")
		}
		if r.Limit <= 0 {
			return result.Invalid("limit must be a positive integer")
		}

	case OpUpsert:
		if r.TenantID <= 0 || r.DocumentID <= 0 {
			return result.Invalid("valid tenant_id and document_id required")
		}
		if len(r.Vectors) == 0 {
			return result.Invalid("vectors is required")
		}
		if len(r.Vectors) >= vectordb.MaxChunksPerDocument {
			return result.Invalid("vectors holds %d chunks, at most %d are allowed per document",
				len(r.Vectors), vectordb.MaxChunksPerDocument-1)
		}

	case OpDeleteByIDs:
		if len(r.PrimaryIDs) == 0 {
			return result.Invalid("primary_ids is required")
		}

	case OpDeleteByTenant, OpCountByTenant:
		if r.TenantID <= 0 {
			return result.Invalid("valid tenant_id is required")
		}

	case OpHealth:

	case OpCreatePartition, OpHasPartition:
		if r.PartitionName == "" {
			return result.Invalid("partition_name is required")
		}

	default:
		return result.Invalid("Unknown operation: %s", r.Operation)
	}

	if r.Collection == "" {
		return result.Invalid("collection is required")
	}
	return nil
}

// Attributes are the request fields worth attaching to logs and spans.
func (r *Request) Attributes() map[string]interface{} {
	attrs := map[string]interface{}{
		"collection": r.Collection,
	}
	if r.TenantID > 0 {
		attrs["tenant_id"] = int64(r.TenantID)
	}
	if r.DocumentID > 0 {
		attrs["document_id"] = int64(r.DocumentID)
	}
	if r.PartitionName != "" {
		attrs["partition"] = r.PartitionName
	}
	switch r.Operation {
	case OpSearch:
		attrs["limit"] = int64(r.Limit)
	case OpUpsert:
		attrs["vectors"] = len(r.Vectors)
	case OpDeleteByIDs:
		attrs["primary_ids"] = len(r.PrimaryIDs)
	}
	return attrs
}

func toInt64s(ids []Int) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
