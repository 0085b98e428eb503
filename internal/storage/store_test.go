package storage

import (
	"strings"
	"testing"
)

func TestNew_NilPool(t *testing.T) {
	_, err := New(nil, nil)
	if err == nil {
		t.Fatal("New(nil, nil) expected error, got nil")
	}
	if !strings.Contains(err.Error(), "pool is required") {
		t.Errorf("New(nil pool) error = %q, want contains %q", err, "pool is required")
	}
}
