package utils

import (
	"reflect"
	"testing"
)

// Equal fails the test when got != want. Small helper shared by the
// service tests; richer assertions use testify directly.
func Equal[T any](t *testing.T, got, want T) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// NilError fails the test when err is non-nil.
func NilError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
