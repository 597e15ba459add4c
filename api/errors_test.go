// File: api/errors_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import (
	"errors"
	"fmt"
	"testing"
)

func TestStrerrorStableAndNonEmpty(t *testing.T) {
	known := map[ErrorCode]string{
		CodeOK:             "Success",
		CodeNullPointer:    "Null pointer",
		CodeInvalidSize:    "Invalid size",
		CodeOutOfMemory:    "Out of memory",
		CodeInvalidBlock:   "Invalid block",
		CodeAlignment:      "Alignment error",
		CodeDoubleFree:     "Double free detected",
		CodeNotInitialized: "Pool not initialized",
	}
	for code, want := range known {
		if got := Strerror(code); got != want {
			t.Errorf("Strerror(%d) = %q, want %q", code, got, want)
		}
	}
	for _, code := range []ErrorCode{-1, 99, 1 << 20} {
		if Strerror(code) == "" {
			t.Errorf("Strerror(%d) returned empty string", code)
		}
	}
}

func TestCodeOf(t *testing.T) {
	if CodeOf(nil) != CodeOK {
		t.Error("nil must map to CodeOK")
	}
	if CodeOf(ErrDoubleFree) != CodeDoubleFree {
		t.Error("sentinel lost its code")
	}
	wrapped := fmt.Errorf("draining: %w", ErrOutOfMemory)
	if CodeOf(wrapped) != CodeOutOfMemory {
		t.Error("wrapped sentinel lost its code")
	}
	if CodeOf(errors.New("plain")) != -1 {
		t.Error("foreign error must map to -1")
	}
	if Strerror(CodeOf(errors.New("plain"))) == "" {
		t.Error("foreign code must still describe")
	}
}

func TestSentinelsCompareWithErrorsIs(t *testing.T) {
	wrapped := fmt.Errorf("alloc failed: %w", ErrOutOfMemory)
	if !errors.Is(wrapped, ErrOutOfMemory) {
		t.Error("errors.Is must see through wrapping")
	}
	if errors.Is(wrapped, ErrDoubleFree) {
		t.Error("distinct sentinels must not match")
	}
}

func TestSyncHooksInstalled(t *testing.T) {
	var h SyncHooks
	if h.Installed() {
		t.Error("zero value must not report installed")
	}
	h = SyncHooks{Lock: func() {}}
	if h.Installed() {
		t.Error("half a pair must not report installed")
	}
	h.Unlock = func() {}
	if !h.Installed() {
		t.Error("full pair must report installed")
	}
}
