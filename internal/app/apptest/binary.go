// Package apptest builds and runs the vectorbridge commands as real
// processes, with the same environment a backend would give them.
package apptest

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// scrubbed are removed from the inherited environment so a run sees only
// what the test sets.
var scrubbed = []string{
	"GOLANG_PROTOBUF_REGISTRATION_CONFLICT",
	"VECTORBRIDGE_CONFIG",
	"VECTOR_DRIVER",
	"ZAP_LOGGER_LEVEL",
	"TRACEPARENT",
}

// Build compiles the main package in the current directory with the given
// build tags and returns the binary path. It skips in -short mode and when
// no go toolchain is on PATH.
func Build(t *testing.T, tags string) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping binary build in short mode")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not on PATH")
	}

	bin := filepath.Join(t.TempDir(), "cmd")
	args := []string{"build", "-o", bin}
	if tags != "" {
		args = append(args, "-tags", tags)
	}
	args = append(args, ".")

	out, err := exec.Command(goBin, args...).CombinedOutput()
	require.NoError(t, err, "go build: %s", out)
	return bin
}

// Run is the outcome of one process run.
type Run struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Exec runs bin with args and env added to a scrubbed copy of the test's
// environment.
func Exec(t *testing.T, bin string, env []string, args ...string) Run {
	t.Helper()

	cmd := exec.Command(bin, args...)
	cmd.Env = append(scrub(os.Environ()), env...)
	cmd.Dir = t.TempDir()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		require.NoError(t, err)
	}
	return Run{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: cmd.ProcessState.ExitCode()}
}

// Result decodes stdout, which must be exactly one JSON line.
func (r Run) Result(t *testing.T) map[string]interface{} {
	t.Helper()
	require.Equal(t, 1, strings.Count(r.Stdout, "\n"), "stdout: %q stderr: %q", r.Stdout, r.Stderr)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(r.Stdout), &out), "stdout: %q", r.Stdout)
	return out
}

func scrub(environ []string) []string {
	out := make([]string, 0, len(environ))
	for _, kv := range environ {
		key, _, _ := strings.Cut(kv, "=")
		if !slices.Contains(scrubbed, key) {
			out = append(out, kv)
		}
	}
	return out
}
