package learning

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestStorageError tests formatting and unwrapping.
func TestStorageError(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewStorageError("sqlite", "append", cause)

	if !strings.Contains(err.Error(), "backend=sqlite") {
		t.Errorf("missing backend in message: %s", err.Error())
	}
	if !strings.Contains(err.Error(), "operation=append") {
		t.Errorf("missing operation in message: %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
}

// TestCompileError tests unwrapping through errors.As.
func TestCompileError(t *testing.T) {
	cause := NewStorageError("memory", "save_state", fmt.Errorf("boom"))
	err := NewCompileError("save", cause)

	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatal("errors.As should find the wrapped StorageError")
	}
	if storageErr.Operation != "save_state" {
		t.Errorf("unexpected operation: %s", storageErr.Operation)
	}
	if !strings.Contains(err.Error(), "stage=save") {
		t.Errorf("missing stage in message: %s", err.Error())
	}
}

// TestEvaluationError tests formatting with and without a run id.
func TestEvaluationError(t *testing.T) {
	withRun := NewEvaluationError("run-42", fmt.Errorf("boom"))
	if !strings.Contains(withRun.Error(), "run_id=run-42") {
		t.Errorf("missing run id in message: %s", withRun.Error())
	}

	withoutRun := NewEvaluationError("", fmt.Errorf("boom"))
	if strings.Contains(withoutRun.Error(), "run_id") {
		t.Errorf("unexpected run id in message: %s", withoutRun.Error())
	}
}
