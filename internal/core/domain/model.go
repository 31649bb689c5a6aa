package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrResourceUnavailable is returned when linguistic resources can neither be
	// found locally nor fetched.
	ErrResourceUnavailable = errors.New("linguistic resource unavailable")
	// ErrInvalidInput is returned for records that are not text.
	ErrInvalidInput = errors.New("invalid input record")
)

// Record is a single input text. A zero Record with Valid=false is a null.
type Record struct {
	Text  string
	Valid bool
}

// Text wraps s as a valid record.
func Text(s string) Record {
	return Record{Text: s, Valid: true}
}

// Null returns a missing record.
func Null() Record {
	return Record{}
}

// Records wraps a slice of strings.
func Records(texts []string) []Record {
	out := make([]Record, len(texts))
	for i, t := range texts {
		out[i] = Text(t)
	}
	return out
}

// RecordFromValue converts a decoded value (JSON, spreadsheet cell) into a Record.
// nil becomes a null record; strings and byte slices are text; anything else is
// rejected with ErrInvalidInput.
func RecordFromValue(v interface{}) (Record, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case string:
		return Text(t), nil
	case []byte:
		return Text(string(t)), nil
	case *string:
		if t == nil {
			return Null(), nil
		}
		return Text(*t), nil
	default:
		return Record{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidInput, v)
	}
}

// RecordError attaches the failing record position to an error.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// NullPolicy controls how null records are handled.
type NullPolicy int

const (
	// NullAsEmpty emits an empty string for a null record.
	NullAsEmpty NullPolicy = iota
	// NullFail fails the whole batch with ErrInvalidInput.
	NullFail
)

// String returns the policy name.
func (p NullPolicy) String() string {
	switch p {
	case NullAsEmpty:
		return "empty"
	case NullFail:
		return "fail"
	default:
		return fmt.Sprintf("NullPolicy(%d)", int(p))
	}
}

// ParseNullPolicy maps "empty" and "fail" to a NullPolicy.
func ParseNullPolicy(s string) (NullPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "empty":
		return NullAsEmpty, nil
	case "fail", "error":
		return NullFail, nil
	default:
		return NullAsEmpty, fmt.Errorf("unknown null policy %q", s)
	}
}
