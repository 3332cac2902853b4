package errors

import (
	"bytes"
	stderrors "errors"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// ConnectError indicates the database file or a handle on it could not be opened.
	ConnectError ErrorCode = "connect_error"
	// SchemaInitError indicates primary-role table creation failed.
	SchemaInitError ErrorCode = "schema_init_error"
	// WriteConflictError indicates a read-write escalation was blocked by another process.
	WriteConflictError ErrorCode = "write_conflict_error"
	// ReentrantWriteError indicates a nested write-access scope was attempted.
	ReentrantWriteError ErrorCode = "reentrant_write_error"
	// WriteError indicates a statement failed inside a write-access scope.
	WriteError ErrorCode = "write_error"
	// AmbiguousRoleError indicates process-role detection was indeterminate.
	AmbiguousRoleError ErrorCode = "ambiguous_role_error"
)

// StoreError is an `error` carrying the failing operation's context:
// the error code, the operation, and optionally the table and instrument
// key it was acting on.
type StoreError struct {
	Code  ErrorCode
	Op    string
	Table string
	Key   string
	Err   error
}

// NewStoreError creates a StoreError for the given code and operation,
// wrapping the underlying cause.
func NewStoreError(code ErrorCode, op string, err error) *StoreError {
	return &StoreError{
		Code: code,
		Op:   op,
		Err:  err,
	}
}

// WithTable attaches the table the operation was acting on.
func (e *StoreError) WithTable(table string) *StoreError {
	e.Table = table
	return e
}

// WithKey attaches the instrument key the operation was acting on.
func (e *StoreError) WithKey(key string) *StoreError {
	e.Key = key
	return e
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	buff := bytes.NewBufferString(string(e.Code))
	buff.WriteString(": ")
	buff.WriteString(e.Op)
	if e.Table != "" {
		buff.WriteString(" table=")
		buff.WriteString(e.Table)
	}
	if e.Key != "" {
		buff.WriteString(" key=")
		buff.WriteString(e.Key)
	}
	if e.Err != nil {
		buff.WriteString(": ")
		buff.WriteString(e.Err.Error())
	}
	return buff.String()
}

// Unwrap returns the underlying cause.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// HasCode checks whether a given `error` carries a specific code.
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// CodeOf returns the ErrorCode carried by err, or the empty code when
// err is not a StoreError.
func CodeOf(err error) ErrorCode {
	var storeErr *StoreError
	if !stderrors.As(err, &storeErr) {
		return ErrorCode("")
	}
	return storeErr.Code
}
