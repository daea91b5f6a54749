// Package result is the outcome type every vectorbridge operation returns
// and the single JSON line each command prints for it.
package result

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// ValidationError reports a malformed request. It is detected before any
// database call and is printed without an error_type.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError.
func Invalid(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Result is either a success carrying a payload or a failure carrying an
// error. A failure may carry a payload too, e.g. the phases a migration
// completed before it aborted.
type Result struct {
	payload interface{}
	err     error
}

// Success wraps a payload. The payload must marshal to a JSON object or be nil.
func Success(payload interface{}) Result {
	return Result{payload: payload}
}

// Failure wraps an error.
func Failure(err error) Result {
	if err == nil {
		err = errors.New("unknown error")
	}
	return Result{err: err}
}

// FailureWith wraps an error together with the fields known at failure time.
func FailureWith(err error, payload interface{}) Result {
	r := Failure(err)
	r.payload = payload
	return r
}

// OK reports whether the result is a success.
func (r Result) OK() bool {
	return r.err == nil
}

// Err returns the failure cause, or nil on success.
func (r Result) Err() error {
	return r.err
}

// Payload returns the operation-specific fields.
func (r Result) Payload() interface{} {
	return r.payload
}

// Kind returns the error_type tag of a failure: the vectordb kind name, or
// "" for a success or a validation failure.
func (r Result) Kind() vectordb.Kind {
	if r.err == nil || IsValidation(r.err) {
		return ""
	}
	return vectordb.KindOf(r.err)
}

// ExitCode is 0 for a success and 1 for any failure.
func (r Result) ExitCode() int {
	if r.OK() {
		return 0
	}
	return 1
}

// MarshalJSON flattens the payload into one object with "success" and, on
// failure, "error" and "error_type". Payload fields are copied as raw JSON
// so 64-bit ids keep every digit.
func (r Result) MarshalJSON() ([]byte, error) {
	fields := map[string]json.RawMessage{}

	if r.payload != nil {
		raw, err := json.Marshal(r.payload)
		if err != nil {
			return nil, fmt.Errorf("marshalling payload: %w", err)
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("payload must be a JSON object: %w", err)
		}
		if fields == nil {
			fields = map[string]json.RawMessage{}
		}
	}

	set := func(key string, v interface{}) {
		raw, _ := json.Marshal(v)
		fields[key] = raw
	}
	set("success", r.OK())
	if r.err != nil {
		set("error", r.err.Error())
		if kind := r.Kind(); kind != "" {
			set("error_type", kind)
		}
	}
	return json.Marshal(fields)
}

// Emit writes the result as exactly one line of JSON.
func Emit(w io.Writer, r Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		// Still honour the one-line contract.
		data, _ = json.Marshal(map[string]interface{}{
			"success":    false,
			"error":      err.Error(),
			"error_type": vectordb.KindInternal,
		})
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
