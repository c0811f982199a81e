package learning

import "fmt"

// StorageError represents an error from the persistence backend.
type StorageError struct {
	Backend   string // backend type ("sqlite", "memory")
	Operation string // operation that failed ("append", "save_state", ...)
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

// CompileError represents a failure during learning state compilation.
// An idempotent no-op compile is not an error and is never wrapped in
// this type.
type CompileError struct {
	Stage string // stage that failed ("load_state", "load_candidates", "save")
	Cause error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error [stage=%s]: %v", e.Stage, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *CompileError) Unwrap() error {
	return e.Cause
}

// NewCompileError creates a new CompileError.
func NewCompileError(stage string, cause error) *CompileError {
	return &CompileError{Stage: stage, Cause: cause}
}

// EvaluationError represents a failure during shadow evaluation.
// Callers outside the learning core must isolate it completely: it is
// logged, never raised into the action-producing pipeline.
type EvaluationError struct {
	RunID string
	Cause error
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	if e.RunID != "" {
		return fmt.Sprintf("shadow evaluation error [run_id=%s]: %v", e.RunID, e.Cause)
	}
	return fmt.Sprintf("shadow evaluation error: %v", e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *EvaluationError) Unwrap() error {
	return e.Cause
}

// NewEvaluationError creates a new EvaluationError.
func NewEvaluationError(runID string, cause error) *EvaluationError {
	return &EvaluationError{RunID: runID, Cause: cause}
}
