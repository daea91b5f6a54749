package result

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

func decode(t *testing.T, r Result) map[string]interface{} {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Emit(&buf, r))
	out := buf.String()
	require.True(t, strings.HasSuffix(out, "\n"))
	require.Equal(t, 1, strings.Count(out, "\n"), "exactly one line")

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &fields))
	return fields
}

func TestSuccess(t *testing.T) {
	r := Success(struct {
		InsertedCount int `json:"inserted_count"`
	}{3})

	fields := decode(t, r)
	assert.Equal(t, true, fields["success"])
	assert.Equal(t, 3.0, fields["inserted_count"])
	assert.NotContains(t, fields, "error")
	assert.Equal(t, 0, r.ExitCode())
}

func TestSuccessWithoutPayload(t *testing.T) {
	fields := decode(t, Success(nil))
	assert.Equal(t, map[string]interface{}{"success": true}, fields)
}

func TestFailureCarriesKind(t *testing.T) {
	err := vectordb.NewError("search", vectordb.ErrNotFound, errors.New("collection kb not found"))
	r := Failure(err)

	fields := decode(t, r)
	assert.Equal(t, false, fields["success"])
	assert.Equal(t, "search: collection kb not found", fields["error"])
	assert.Equal(t, "not_found", fields["error_type"])
	assert.Equal(t, 1, r.ExitCode())
}

func TestUnclassifiedFailureIsInternal(t *testing.T) {
	fields := decode(t, Failure(errors.New("boom")))
	assert.Equal(t, "internal", fields["error_type"])
}

func TestValidationFailureHasNoKind(t *testing.T) {
	r := Failure(Invalid("valid tenant_id is required"))

	fields := decode(t, r)
	assert.Equal(t, map[string]interface{}{
		"success": false,
		"error":   "valid tenant_id is required",
	}, fields)
	assert.Equal(t, 1, r.ExitCode())
	assert.True(t, IsValidation(r.Err()))
}

func TestFailureWithPayload(t *testing.T) {
	err := vectordb.NewError("connect", vectordb.ErrUnavailable, errors.New("dial refused"))
	r := FailureWith(err, map[string]interface{}{"connected": false})

	fields := decode(t, r)
	assert.Equal(t, false, fields["connected"])
	assert.Equal(t, "unavailable", fields["error_type"])
}

func TestPayloadCannotOverrideSuccess(t *testing.T) {
	fields := decode(t, Failure(errors.New("x")))
	assert.Equal(t, false, fields["success"])

	fields = decode(t, FailureWith(errors.New("restore failed"), map[string]interface{}{"success": true}))
	assert.Equal(t, false, fields["success"])
}

func TestLargeIDsKeepFullPrecision(t *testing.T) {
	type hit struct {
		ID int64 `json:"id"`
	}
	payload := struct {
		Hits []hit `json:"hits"`
	}{Hits: []hit{{ID: 9007199254740993}}}

	var buf bytes.Buffer
	require.NoError(t, Emit(&buf, Success(payload)))
	assert.Contains(t, buf.String(), `"id":9007199254740993`)

	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	var fields map[string]interface{}
	require.NoError(t, dec.Decode(&fields))
	id := fields["hits"].([]interface{})[0].(map[string]interface{})["id"].(json.Number)
	n, err := id.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), n)
}

func TestNonObjectPayloadStillEmitsOneLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Emit(&buf, Success([]int{1, 2})))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), `"success":false`)
}
