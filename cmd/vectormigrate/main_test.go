package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRejectsBadInvocations(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no arguments", nil, "Usage: vectormigrate <operation> <collection_name>"},
		{"missing collection", []string{"backup"}, "Usage: vectormigrate <operation> <collection_name>"},
		{"unknown operation", []string{"compact", "kb_chunks_v1"}, "Unknown operation: compact"},
		{"empty collection", []string{"backup", ""}, "collection is required"},
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
		})
	}
}
