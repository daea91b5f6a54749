package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These invocations are rejected before any connection is attempted.
func TestRunRejectsBadInvocations(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no argument", nil, "Usage: vectorbridge '<json_params>'"},
		{"two arguments", []string{"{}", "{}"}, "Usage: vectorbridge '<json_params>'"},
		{"unknown operation", []string{`{"operation": "reindex"}`}, "Unknown operation: reindex"},
		{"missing tenant", []string{`{"query_vector": [0.1]}`}, "valid tenant_id is required"},
		{"missing vectors", []string{`{"operation": "upsert", "tenant_id": 1, "document_id": "2"}`}, "vectors is required"},
		{"missing partition", []string{`{"operation": "has_partition"}`}, "partition_name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			code := run(context.Background(), &out, tt.args)
			assert.Equal(t, 1, code)

			var got map[string]interface{}
			require.NoError(t, json.Unmarshal(out.Bytes(), &got))
			assert.Equal(t, false, got["success"])
			assert.Equal(t, tt.wantErr, got["error"])
			assert.NotContains(t, got, "error_type")
		})
	}
}

func TestRunRejectsInvalidJSON(t *testing.T) {
	var out bytes.Buffer
	code := run(context.Background(), &out, []string{`{"operation": "search"`})
	assert.Equal(t, 1, code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Contains(t, got["error"], "Invalid JSON: ")
}
