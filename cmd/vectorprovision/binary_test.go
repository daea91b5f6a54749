package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Aleph-Alpha/vectorbridge/internal/app/apptest"
)

func TestBinary(t *testing.T) {
	bin := apptest.Build(t, "")

	run := apptest.Exec(t, bin, nil, "partition", "--collection", "kb_chunks_v1")
	assert.Equal(t, 1, run.ExitCode)
	out := run.Result(t)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "partition_name is required", out["error"])

	run = apptest.Exec(t, bin, []string{"VECTOR_DRIVER=qdrant"}, "partition", "--tenant-id", "7")
	assert.Equal(t, 1, run.ExitCode)
	out = run.Result(t)
	assert.Equal(t, "invalid_argument", out["error_type"])
}
